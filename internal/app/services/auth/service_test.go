package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtly/internal/domain/accounts"
	"courtly/internal/domain/lessors"
	"courtly/internal/infra/storage/memory"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "h:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "h:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// tokenTable issues opaque tokens and remembers who they belong to.
type tokenTable struct {
	issued map[string]Principal
}

func (t *tokenTable) Issue(p Principal) (string, time.Time, error) {
	token := "tok-" + p.Role + "-" + p.ID
	t.issued[token] = p
	return token, time.Unix(0, 0).Add(time.Hour), nil
}

func (t *tokenTable) Parse(token string) (Principal, error) {
	p, ok := t.issued[token]
	if !ok {
		return Principal{}, errors.New("unknown token")
	}
	return p, nil
}

func newService(t *testing.T) (*Service, memory.Factory) {
	t.Helper()
	store := memory.NewStore(memory.NewOutbox(nil))
	return &Service{
		UoWFactory: store,
		Passwords:  plainHasher{},
		Tokens:     &tokenTable{issued: map[string]Principal{}},
	}, store
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterParams{Role: accounts.RoleUser, Name: " Luis ", Email: "Luis@Mail.test", Password: "password1"})
	require.NoError(t, err)
	require.NotNil(t, reg.Account)
	assert.Equal(t, "luis@mail.test", reg.Account.Email)
	assert.Equal(t, "Luis", reg.Account.Name)
	assert.Equal(t, RoleUser, reg.Role)

	login, err := svc.Login(ctx, LoginParams{Role: RoleUser, Email: "luis@mail.test", Password: "password1"})
	require.NoError(t, err)
	p, err := svc.Resolve(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.Account.ID, p.ID)

	profile, err := svc.Profile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Luis", profile.Name)
}

func TestRegisterRules(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterParams{Role: accounts.RoleUser, Name: "Luis", Email: "luis@mail.test", Password: "short"})
	assert.ErrorIs(t, err, accounts.ErrPasswordLength)

	_, err = svc.Register(ctx, RegisterParams{Role: accounts.RoleUser, Email: "luis@mail.test", Password: "password1"})
	assert.ErrorIs(t, err, accounts.ErrMissingFields)

	_, err = svc.Register(ctx, RegisterParams{Role: accounts.RoleUser, Name: "Luis", Email: "luis@mail.test", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterParams{Role: accounts.RoleUser, Name: "Other", Email: "LUIS@mail.test", Password: "password1"})
	assert.ErrorIs(t, err, accounts.ErrEmailTaken)

	// The same email may hold one account per role.
	_, err = svc.Register(ctx, RegisterParams{Role: accounts.RoleModerator, Name: "Luis", Email: "luis@mail.test", Password: "password1"})
	assert.NoError(t, err)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterParams{Role: accounts.RoleUser, Name: "Luis", Email: "luis@mail.test", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginParams{Role: RoleUser, Email: "luis@mail.test", Password: "wrong-one"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginParams{Role: RoleUser, Email: "nobody@mail.test", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginParams{Role: RoleModerator, Email: "luis@mail.test", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLessorLogin(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	l, err := lessors.Register(lessors.RegisterParams{
		ID: "l1", FirstName: "Ana", LastName: "Ruiz", Email: "ana@club.test", Phone: "555-0100",
		PasswordHash: "h:secret-pass", SportCenterName: "Club Norte", Now: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, store.LessorRepo.Save(ctx, l))

	res, err := svc.Login(ctx, LoginParams{Role: RoleLessor, Email: "ANA@club.test", Password: "secret-pass"})
	require.NoError(t, err)
	require.NotNil(t, res.Lessor)
	assert.Equal(t, "l1", res.Lessor.ID)
	assert.True(t, strings.HasPrefix(res.Token, "tok-lessor-"))

	_, err = svc.Login(ctx, LoginParams{Role: RoleLessor, Email: "ana@club.test", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveRejectsUnknownToken(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Resolve("forged")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Resolve("  ")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateProfileKeepsBlankFields(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	res, err := svc.Register(ctx, RegisterParams{Role: accounts.RoleModerator, Name: "Mia", Email: "mia@mod.test", Phone: "555-0300", Password: "password1"})
	require.NoError(t, err)
	p := Principal{ID: res.Account.ID, Email: "mia@mod.test", Role: RoleModerator}

	name, phone := " Mia Lopez ", "  "
	updated, err := svc.UpdateProfile(ctx, p, accounts.ProfilePatch{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Mia Lopez", updated.Name)
	assert.Equal(t, "555-0300", updated.Phone)

	got, err := svc.Profile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Mia Lopez", got.Name)

	_, err = svc.UpdateProfile(ctx, Principal{Email: "ghost@mod.test", Role: RoleModerator}, accounts.ProfilePatch{Name: &name})
	assert.ErrorIs(t, err, accounts.ErrModNotFound)
}
