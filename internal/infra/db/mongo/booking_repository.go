package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "courtly/internal/domain/booking"
	"courtly/internal/domain/shared/status"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("mongo: load booking: %w", err)
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo: save booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) Find(ctx context.Context, f domainbooking.Filter) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: 1},
	})
	if f.Offset > 0 {
		opts.SetSkip(int64(f.Offset))
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := r.col.Find(ctx, bookingFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find bookings: %w", err)
	}
	var docs []bookingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode bookings: %w", err)
	}
	out := make([]*domainbooking.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toAggregate())
	}
	return out, nil
}

func (r *BookingRepository) Count(ctx context.Context, f domainbooking.Filter) (int, error) {
	n, err := r.col.CountDocuments(ctx, bookingFilter(f))
	if err != nil {
		return 0, fmt.Errorf("mongo: count bookings: %w", err)
	}
	return int(n), nil
}

func bookingFilter(f domainbooking.Filter) bson.M {
	filter := bson.M{}
	if f.LessorID != "" {
		filter["lessor_id"] = f.LessorID
	}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.Facility != "" {
		filter["facility"] = f.Facility
	}
	if f.Court != "" {
		filter["court"] = f.Court
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if !f.From.IsZero() {
		filter["date"] = bson.M{"$gte": f.From.UTC()}
	}
	return filter
}

type outsideUserDocument struct {
	Name        string `bson:"name"`
	PhoneNumber string `bson:"phone_number,omitempty"`
}

type bookingDocument struct {
	ID          string               `bson:"_id"`
	UserID      string               `bson:"user_id,omitempty"`
	OutsideUser *outsideUserDocument `bson:"outside_user,omitempty"`
	LessorID    string               `bson:"lessor_id"`
	Facility    string               `bson:"facility"`
	Court       string               `bson:"court"`
	Date        time.Time            `bson:"date"`
	StartTime   string               `bson:"start_time"`
	EndTime     string               `bson:"end_time"`
	Status      string               `bson:"status"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:        string(b.ID),
		UserID:    b.UserID,
		LessorID:  b.LessorID,
		Facility:  b.Facility,
		Court:     b.Court,
		Date:      b.Date.UTC(),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UTC(),
		UpdatedAt: b.UpdatedAt.UTC(),
	}
	if b.OutsideUser != nil {
		doc.OutsideUser = &outsideUserDocument{Name: b.OutsideUser.Name, PhoneNumber: b.OutsideUser.PhoneNumber}
	}
	return doc
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	b := &domainbooking.Booking{
		ID:        domainbooking.BookingID(d.ID),
		UserID:    d.UserID,
		LessorID:  d.LessorID,
		Facility:  d.Facility,
		Court:     d.Court,
		Date:      d.Date.UTC(),
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		Status:    status.Status(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if d.OutsideUser != nil {
		b.OutsideUser = &domainbooking.OutsideUser{Name: d.OutsideUser.Name, PhoneNumber: d.OutsideUser.PhoneNumber}
	}
	return b
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
