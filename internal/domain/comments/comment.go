package comments

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"courtly/internal/domain/shared/errs"
	"courtly/internal/domain/shared/status"
)

const MaxTextLength = 500

var (
	ErrCommentNotFound = errs.NotFound("Comment not found")
	ErrTextLength      = errs.Validation("Comment must be between 1 and 500 characters")
	ErrRatingRange     = errs.Validation("Rating value must be between 1 and 5")
	ErrMissingAuthor   = errs.Validation("Missing required fields")
)

type CommentID string

type Comment struct {
	ID        CommentID
	AuthorID  string
	LessorID  string
	Text      string
	Rating    int
	Status    status.Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Filter struct {
	LessorID string
	Status   status.Status
}

// Repository lists comments newest first.
type Repository interface {
	ByID(ctx context.Context, id CommentID) (*Comment, error)
	Save(ctx context.Context, c *Comment) error
	List(ctx context.Context, f Filter) ([]*Comment, error)
}

type PostParams struct {
	ID       CommentID
	AuthorID string
	LessorID string
	Text     string
	Rating   int
	Now      time.Time
}

func Post(p PostParams) (*Comment, error) {
	if strings.TrimSpace(p.AuthorID) == "" || strings.TrimSpace(p.LessorID) == "" {
		return nil, ErrMissingAuthor
	}
	text := strings.TrimSpace(p.Text)
	if n := utf8.RuneCountInString(text); n < 1 || n > MaxTextLength {
		return nil, ErrTextLength
	}
	if p.Rating < 1 || p.Rating > 5 {
		return nil, ErrRatingRange
	}
	now := p.Now.UTC()
	return &Comment{
		ID:        p.ID,
		AuthorID:  strings.TrimSpace(p.AuthorID),
		LessorID:  strings.TrimSpace(p.LessorID),
		Text:      text,
		Rating:    p.Rating,
		Status:    status.Pending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Comment) SetStatus(s status.Status, now time.Time) error {
	if !s.Valid() {
		return status.ErrInvalidStatus
	}
	c.Status = s
	c.UpdatedAt = now.UTC()
	return nil
}

// CountsTowardRating reports whether the comment participates in aggregates.
func (c *Comment) CountsTowardRating() bool {
	return c.Status == status.Approved
}
