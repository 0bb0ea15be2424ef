package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainpayments "courtly/internal/domain/payments"
)

type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

func (r *PaymentRepository) Save(ctx context.Context, p *domainpayments.Payment) error {
	doc := paymentDocument{
		ID:        string(p.ID),
		UserID:    p.UserID,
		LessorID:  p.LessorID,
		BookingID: p.BookingID,
		Currency:  string(p.Currency),
		Amount:    p.Amount,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("mongo: save payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) ListByLessor(ctx context.Context, lessorID string) ([]*domainpayments.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"lessor_id": lessorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list payments: %w", err)
	}
	var docs []paymentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode payments: %w", err)
	}
	out := make([]*domainpayments.Payment, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domainpayments.Payment{
			ID:        domainpayments.PaymentID(d.ID),
			UserID:    d.UserID,
			LessorID:  d.LessorID,
			BookingID: d.BookingID,
			Currency:  domainpayments.Currency(d.Currency),
			Amount:    d.Amount,
			Status:    domainpayments.PaymentStatus(d.Status),
			CreatedAt: d.CreatedAt.UTC(),
			UpdatedAt: d.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

type paymentDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	LessorID  string    `bson:"lessor_id"`
	BookingID string    `bson:"booking_id"`
	Currency  string    `bson:"currency"`
	Amount    float64   `bson:"amount"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

var _ domainpayments.Repository = (*PaymentRepository)(nil)
