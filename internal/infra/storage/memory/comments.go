package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	domaincomments "courtly/internal/domain/comments"
)

type CommentRepository struct {
	mu    sync.RWMutex
	items map[domaincomments.CommentID]domaincomments.Comment
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{items: make(map[domaincomments.CommentID]domaincomments.Comment)}
}

func (r *CommentRepository) ByID(ctx context.Context, id domaincomments.CommentID) (*domaincomments.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domaincomments.ErrCommentNotFound
	}
	return &c, nil
}

func (r *CommentRepository) Save(ctx context.Context, c *domaincomments.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = *c
	return nil
}

func (r *CommentRepository) List(ctx context.Context, f domaincomments.Filter) ([]*domaincomments.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaincomments.Comment, 0)
	for _, c := range r.items {
		if f.LessorID != "" && c.LessorID != f.LessorID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *domaincomments.Comment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

var _ domaincomments.Repository = (*CommentRepository)(nil)
