package lessors

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainlessors "courtly/internal/domain/lessors"
	"courtly/internal/infra/storage/memory"
)

type prefixHasher struct{}

func (prefixHasher) Hash(password string) (string, error) { return "h:" + password, nil }

func (prefixHasher) Compare(hash, password string) error {
	if hash != "h:"+password {
		return assert.AnError
	}
	return nil
}

func TestResetLessorPassword(t *testing.T) {
	store := seedLessor(t)
	ctx := context.Background()
	h := &ResetLessorPasswordHandler{UoWFactory: store, Passwords: prefixHasher{}, Clock: time.Now}

	got, err := h.Handle(ctx, ResetLessorPasswordCommand{LessorID: "l1", Password: "n3w-secret"})
	require.NoError(t, err)
	assert.Equal(t, "l1", got.ID)

	l, err := store.LessorRepo.ByID(ctx, "l1")
	require.NoError(t, err)
	assert.NoError(t, prefixHasher{}.Compare(l.PasswordHash, "n3w-secret"))

	_, err = h.Handle(ctx, ResetLessorPasswordCommand{LessorID: "ghost", Password: "n3w-secret"})
	assert.ErrorIs(t, err, domainlessors.ErrLessorNotFound)
	_, err = h.Handle(ctx, ResetLessorPasswordCommand{LessorID: "l1", Password: "  "})
	assert.ErrorIs(t, err, domainlessors.ErrPasswordRequired)
}

func TestRemoveLessor(t *testing.T) {
	box := memory.NewOutbox(nil)
	store := memory.NewStore(box)
	ctx := context.Background()
	l, err := domainlessors.Register(domainlessors.RegisterParams{
		ID: "l1", FirstName: "Ana", LastName: "Ruiz", Email: owner, Phone: "555-0100",
		PasswordHash: "hash", SportCenterName: "Club Norte", Now: time.Now(),
	})
	require.NoError(t, err)
	l.Drain()
	require.NoError(t, store.LessorRepo.Save(ctx, l))
	h := &RemoveLessorHandler{UoWFactory: store}

	got, err := h.Handle(ctx, RemoveLessorCommand{LessorID: "l1"})
	require.NoError(t, err)
	assert.Equal(t, owner, got.Email)

	_, err = store.LessorRepo.ByID(ctx, "l1")
	assert.ErrorIs(t, err, domainlessors.ErrLessorNotFound)
	pending := box.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "lessor.removed", pending[0].Name)

	_, err = h.Handle(ctx, RemoveLessorCommand{LessorID: "l1"})
	assert.ErrorIs(t, err, domainlessors.ErrLessorNotFound)
}
