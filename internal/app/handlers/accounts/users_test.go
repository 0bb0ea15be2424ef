package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authsvc "courtly/internal/app/services/auth"
	domainaccounts "courtly/internal/domain/accounts"
	"courtly/internal/infra/storage/memory"
)

func TestListUsersSkipsModerators(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.NewOutbox(nil))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range []domainaccounts.CreateParams{
		{ID: "u1", Role: domainaccounts.RoleUser, Name: "Luis", Email: "luis@mail.test"},
		{ID: "m1", Role: domainaccounts.RoleModerator, Name: "Mod", Email: "mod@mail.test"},
		{ID: "u2", Role: domainaccounts.RoleUser, Name: "Sara", Email: "sara@mail.test"},
	} {
		p.PasswordHash = "hash"
		p.Now = base.Add(time.Duration(i) * time.Hour)
		a, err := domainaccounts.New(p)
		require.NoError(t, err)
		require.NoError(t, store.AccountRepo.Save(ctx, a))
	}

	got, err := (&ListUsersHandler{UoWFactory: store}).Handle(ctx, ListUsersQuery{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Luis", got[0].Name)
	assert.Equal(t, "Sara", got[1].Name)
	assert.Equal(t, "user", got[1].Role)

	assert.Equal(t, []string{authsvc.RoleModerator}, ListUsersQuery{}.AllowedRoles())
}
