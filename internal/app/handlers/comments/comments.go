package comments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/queries"
	"courtly/internal/app/uow"
	"courtly/internal/domain/accounts"
	domaincomments "courtly/internal/domain/comments"
	"courtly/internal/domain/lessors"
	"courtly/internal/domain/shared/status"
)

const (
	postCommentKey      = "comment.post"
	setCommentStatusKey = "comment.status.set"
	listCommentsKey     = "comment.list"
	lessorCommentsKey   = "comment.list.lessor"
)

// PostCommentCommand leaves a rated review on a lessor. It waits for moderation.
type PostCommentCommand struct {
	AuthorEmail string
	LessorID    string
	Text        string
	Rating      int
}

func (c PostCommentCommand) Key() string { return postCommentKey }

func (c PostCommentCommand) AllowedRoles() []string { return userOnly }

func (c PostCommentCommand) Validate() error {
	if strings.TrimSpace(c.LessorID) == "" {
		return domaincomments.ErrMissingAuthor
	}
	if n := len([]rune(strings.TrimSpace(c.Text))); n < 1 || n > domaincomments.MaxTextLength {
		return domaincomments.ErrTextLength
	}
	if c.Rating < 1 || c.Rating > 5 {
		return domaincomments.ErrRatingRange
	}
	return nil
}

type PostCommentHandler struct {
	UoWFactory uow.UoWFactory
	Clock      func() time.Time
}

func (h *PostCommentHandler) Handle(ctx context.Context, cmd PostCommentCommand) (*dto.Comment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	var result dto.Comment
	err := handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		author, err := unit.Accounts().ByEmail(ctx, accounts.RoleUser, cmd.AuthorEmail)
		if err != nil {
			return err
		}
		if _, err := unit.Lessors().ByID(ctx, lessors.LessorID(strings.TrimSpace(cmd.LessorID))); err != nil {
			return err
		}
		c, err := domaincomments.Post(domaincomments.PostParams{
			ID:       domaincomments.CommentID(uuid.NewString()),
			AuthorID: string(author.ID),
			LessorID: cmd.LessorID,
			Text:     cmd.Text,
			Rating:   cmd.Rating,
			Now:      handlersupport.Now(h.Clock),
		})
		if err != nil {
			return err
		}
		if err := unit.Comments().Save(ctx, c); err != nil {
			return err
		}
		result = dto.MapComment(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SetCommentStatusCommand is the moderator decision on a comment.
type SetCommentStatusCommand struct {
	CommentID string
	Status    string
}

func (c SetCommentStatusCommand) Key() string { return setCommentStatusKey }

func (c SetCommentStatusCommand) AllowedRoles() []string { return moderatorOnly }

func (c SetCommentStatusCommand) Validate() error {
	_, err := status.Parse(c.Status)
	return err
}

type SetCommentStatusHandler struct {
	UoWFactory uow.UoWFactory
	Clock      func() time.Time
}

func (h *SetCommentStatusHandler) Handle(ctx context.Context, cmd SetCommentStatusCommand) (*dto.Comment, error) {
	next, err := status.Parse(cmd.Status)
	if err != nil {
		return nil, err
	}
	var result dto.Comment
	err = handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		c, err := unit.Comments().ByID(ctx, domaincomments.CommentID(strings.TrimSpace(cmd.CommentID)))
		if err != nil {
			return err
		}
		if err := c.SetStatus(next, handlersupport.Now(h.Clock)); err != nil {
			return err
		}
		if err := unit.Comments().Save(ctx, c); err != nil {
			return err
		}
		result = dto.MapComment(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListCommentsQuery is the moderation queue. Empty Status lists all comments.
type ListCommentsQuery struct {
	Status string
}

func (q ListCommentsQuery) Key() string { return listCommentsKey }

func (q ListCommentsQuery) AllowedRoles() []string { return moderatorOnly }

func (q ListCommentsQuery) Validate() error {
	_, err := status.ParseOptional(q.Status)
	return err
}

// LessorCommentsQuery returns the approved comments shown on a lessor page.
type LessorCommentsQuery struct {
	LessorID string
}

func (q LessorCommentsQuery) Key() string { return lessorCommentsKey }

type QueryHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *QueryHandler) List(ctx context.Context, q ListCommentsQuery) ([]dto.Comment, error) {
	want, err := status.ParseOptional(q.Status)
	if err != nil {
		return nil, err
	}
	return h.list(ctx, domaincomments.Filter{Status: want}, false)
}

func (h *QueryHandler) ForLessor(ctx context.Context, q LessorCommentsQuery) ([]dto.Comment, error) {
	return h.list(ctx, domaincomments.Filter{LessorID: strings.TrimSpace(q.LessorID), Status: status.Approved}, true)
}

func (h *QueryHandler) list(ctx context.Context, f domaincomments.Filter, checkLessor bool) ([]dto.Comment, error) {
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	if checkLessor {
		if _, err := unit.Lessors().ByID(ctx, lessors.LessorID(f.LessorID)); err != nil {
			return nil, err
		}
	}
	list, err := unit.Comments().List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := dto.MapComments(list)
	names := map[string]string{}
	for i := range out {
		name, ok := names[out[i].PostBy]
		if !ok {
			acc, err := unit.Accounts().ByID(ctx, accounts.ID(out[i].PostBy))
			switch {
			case errors.Is(err, accounts.ErrNotFound):
			case err != nil:
				return nil, err
			default:
				name = acc.Name
			}
			names[out[i].PostBy] = name
		}
		out[i].AuthorName = name
	}
	return out, nil
}

var (
	_ commands.Handler[PostCommentCommand, *dto.Comment]      = (*PostCommentHandler)(nil)
	_ commands.Handler[SetCommentStatusCommand, *dto.Comment] = (*SetCommentStatusHandler)(nil)
	_ queries.HandlerFunc[ListCommentsQuery, []dto.Comment]   = (&QueryHandler{}).List
	_ queries.HandlerFunc[LessorCommentsQuery, []dto.Comment] = (&QueryHandler{}).ForLessor
)
