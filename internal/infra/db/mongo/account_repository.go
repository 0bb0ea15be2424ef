package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtly/internal/domain/accounts"
)

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

func (r *AccountRepository) ByID(ctx context.Context, id accounts.ID) (*accounts.Account, error) {
	doc, err := r.findOne(ctx, bson.M{"_id": string(id)})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, accounts.ErrNotFound
	}
	return doc, err
}

func (r *AccountRepository) ByEmail(ctx context.Context, role accounts.Role, email string) (*accounts.Account, error) {
	doc, err := r.findOne(ctx, bson.M{"role": string(role), "email": accounts.NormalizeEmail(email)})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, accounts.NotFoundFor(role)
	}
	return doc, err
}

func (r *AccountRepository) Save(ctx context.Context, a *accounts.Account) error {
	doc := accountDocument{
		ID:           string(a.ID),
		Role:         string(a.Role),
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt.UTC(),
		UpdatedAt:    a.UpdatedAt.UTC(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return accounts.ErrEmailTaken
		}
		return fmt.Errorf("mongo: save account: %w", err)
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context, role accounts.Role) ([]*accounts.Account, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"role": string(role)}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list accounts: %w", err)
	}
	var docs []accountDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode accounts: %w", err)
	}
	out := make([]*accounts.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toAggregate())
	}
	return out, nil
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*accounts.Account, error) {
	var doc accountDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("mongo: load account: %w", err)
	}
	return doc.toAggregate(), nil
}

func (d accountDocument) toAggregate() *accounts.Account {
	return &accounts.Account{
		ID:           accounts.ID(d.ID),
		Role:         accounts.Role(d.Role),
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

type accountDocument struct {
	ID           string    `bson:"_id"`
	Role         string    `bson:"role"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	Phone        string    `bson:"phone,omitempty"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

var _ accounts.Repository = (*AccountRepository)(nil)
