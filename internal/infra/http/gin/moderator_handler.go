package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	accountapp "courtly/internal/app/handlers/accounts"
	commentapp "courtly/internal/app/handlers/comments"
	lessorapp "courtly/internal/app/handlers/lessors"
	"courtly/internal/app/queries"
	authsvc "courtly/internal/app/services/auth"
)

type ModerationHTTP interface {
	Lessors(c *gin.Context)
	SetLessorStatus(c *gin.Context)
	Comments(c *gin.Context)
	SetCommentStatus(c *gin.Context)
	ResetLessorPassword(c *gin.Context)
	RemoveLessor(c *gin.Context)
	Users(c *gin.Context)
}

// ModerationHandler lets moderators approve or reject lessors and comments.
type ModerationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type statusRequest struct {
	Status string `json:"status"`
}

type passwordResetRequest struct {
	Password string `json:"password"`
}

func (h ModerationHandler) Lessors(c *gin.Context) {
	if _, ok := requireRole(c, authsvc.RoleModerator); !ok {
		return
	}
	list, err := queries.Ask[lessorapp.ListLessorsQuery, []dto.Lessor](c.Request.Context(), h.Queries, lessorapp.ListLessorsQuery{Status: c.Query("status")})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"lessors": list})
}

func (h ModerationHandler) SetLessorStatus(c *gin.Context) {
	if _, ok := requireRole(c, authsvc.RoleModerator); !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	cmd := lessorapp.SetLessorStatusCommand{LessorID: c.Param("lessorID"), Status: req.Status}
	lessor, err := commands.Dispatch[lessorapp.SetLessorStatusCommand, *dto.Lessor](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Lessor status updated", gin.H{"lessor": lessor})
}

func (h ModerationHandler) Comments(c *gin.Context) {
	if _, ok := requireRole(c, authsvc.RoleModerator); !ok {
		return
	}
	list, err := queries.Ask[commentapp.ListCommentsQuery, []dto.Comment](c.Request.Context(), h.Queries, commentapp.ListCommentsQuery{Status: c.Query("status")})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"comments": list})
}

func (h ModerationHandler) SetCommentStatus(c *gin.Context) {
	if _, ok := requireRole(c, authsvc.RoleModerator); !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	cmd := commentapp.SetCommentStatusCommand{CommentID: c.Param("commentID"), Status: req.Status}
	comment, err := commands.Dispatch[commentapp.SetCommentStatusCommand, *dto.Comment](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Comment status updated", gin.H{"comment": comment})
}

func (h ModerationHandler) ResetLessorPassword(c *gin.Context) {
	if _, ok := requireRole(c, authsvc.RoleModerator); !ok {
		return
	}
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	cmd := lessorapp.ResetLessorPasswordCommand{LessorID: c.Param("lessorID"), Password: req.Password}
	lessor, err := commands.Dispatch[lessorapp.ResetLessorPasswordCommand, *dto.Lessor](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Password updated successfully", gin.H{"lessor": lessor})
}

func (h ModerationHandler) RemoveLessor(c *gin.Context) {
	if _, ok := requireRole(c, authsvc.RoleModerator); !ok {
		return
	}
	cmd := lessorapp.RemoveLessorCommand{LessorID: c.Param("lessorID")}
	lessor, err := commands.Dispatch[lessorapp.RemoveLessorCommand, *dto.Lessor](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Lessor deleted", gin.H{"lessor": lessor})
}

func (h ModerationHandler) Users(c *gin.Context) {
	if _, ok := requireRole(c, authsvc.RoleModerator); !ok {
		return
	}
	list, err := queries.Ask[accountapp.ListUsersQuery, []dto.Account](c.Request.Context(), h.Queries, accountapp.ListUsersQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Users list", gin.H{"users": list})
}

var _ ModerationHTTP = ModerationHandler{}
