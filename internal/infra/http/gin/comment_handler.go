package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	commentapp "courtly/internal/app/handlers/comments"
	"courtly/internal/app/queries"
	authsvc "courtly/internal/app/services/auth"
)

type CommentHTTP interface {
	Post(c *gin.Context)
	ForLessor(c *gin.Context)
}

type CommentHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type postCommentRequest struct {
	Lessor  string `json:"lessor"`
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

func (h CommentHandler) Post(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleUser)
	if !ok {
		return
	}
	var req postCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	cmd := commentapp.PostCommentCommand{AuthorEmail: p.Email, LessorID: req.Lessor, Text: req.Comment, Rating: req.Rating}
	comment, err := commands.Dispatch[commentapp.PostCommentCommand, *dto.Comment](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, "Comment submitted for review", gin.H{"comment": comment})
}

// ForLessor is public and lists approved comments only.
func (h CommentHandler) ForLessor(c *gin.Context) {
	q := commentapp.LessorCommentsQuery{LessorID: c.Param("lessorID")}
	list, err := queries.Ask[commentapp.LessorCommentsQuery, []dto.Comment](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"comments": list})
}

var _ CommentHTTP = CommentHandler{}
