package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincomments "courtly/internal/domain/comments"
	"courtly/internal/domain/shared/status"
)

type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection(collectionComments)}
}

func (r *CommentRepository) ByID(ctx context.Context, id domaincomments.CommentID) (*domaincomments.Comment, error) {
	var doc commentDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincomments.ErrCommentNotFound
		}
		return nil, fmt.Errorf("mongo: load comment: %w", err)
	}
	return doc.toAggregate(), nil
}

func (r *CommentRepository) Save(ctx context.Context, c *domaincomments.Comment) error {
	doc := commentDocument{
		ID:        string(c.ID),
		AuthorID:  c.AuthorID,
		LessorID:  c.LessorID,
		Text:      c.Text,
		Rating:    c.Rating,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("mongo: save comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) List(ctx context.Context, f domaincomments.Filter) ([]*domaincomments.Comment, error) {
	filter := bson.M{}
	if f.LessorID != "" {
		filter["lessor_id"] = f.LessorID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list comments: %w", err)
	}
	var docs []commentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode comments: %w", err)
	}
	out := make([]*domaincomments.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toAggregate())
	}
	return out, nil
}

type commentDocument struct {
	ID        string    `bson:"_id"`
	AuthorID  string    `bson:"author_id"`
	LessorID  string    `bson:"lessor_id"`
	Text      string    `bson:"text"`
	Rating    int       `bson:"rating"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d commentDocument) toAggregate() *domaincomments.Comment {
	return &domaincomments.Comment{
		ID:        domaincomments.CommentID(d.ID),
		AuthorID:  d.AuthorID,
		LessorID:  d.LessorID,
		Text:      d.Text,
		Rating:    d.Rating,
		Status:    status.Status(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

var _ domaincomments.Repository = (*CommentRepository)(nil)
