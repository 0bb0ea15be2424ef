// Package accounts serves moderator reads over platform user accounts.
package accounts

import (
	"context"

	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/queries"
	authsvc "courtly/internal/app/services/auth"
	"courtly/internal/app/uow"
	domainaccounts "courtly/internal/domain/accounts"
)

const listUsersKey = "account.users.list"

var moderatorOnly = []string{authsvc.RoleModerator}

// ListUsersQuery returns every registered user, oldest first.
type ListUsersQuery struct{}

func (q ListUsersQuery) Key() string { return listUsersKey }

func (q ListUsersQuery) AllowedRoles() []string { return moderatorOnly }

type ListUsersHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListUsersHandler) Handle(ctx context.Context, _ ListUsersQuery) ([]dto.Account, error) {
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	list, err := unit.Accounts().List(ctx, domainaccounts.RoleUser)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Account, 0, len(list))
	for _, a := range list {
		out = append(out, dto.MapAccount(a))
	}
	return out, nil
}

var _ queries.Handler[ListUsersQuery, []dto.Account] = (*ListUsersHandler)(nil)
