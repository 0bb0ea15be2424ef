package ginserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	ginserver "courtly/internal/infra/http/gin"
	"courtly/internal/infra/obs"
	"courtly/internal/infra/security"
	"courtly/internal/infra/storage/memory"
	"courtly/internal/infra/storage/s3"
	"courtly/internal/infra/wiring"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  memory.Factory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	box := memory.NewOutbox(nil)
	store := memory.NewStore(box)
	tokens, err := security.NewJWTIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	app, err := wiring.Build(wiring.Deps{
		Logger:      logger,
		UoW:         store,
		Reports:     store.Reporting(),
		Outbox:      box,
		Idempotency: memory.NewIdempotencyStore(time.Hour),
		Passwords:   security.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:      tokens,
		Images:      s3.Disabled{},
	})
	require.NoError(t, err)

	router := ginserver.NewRouter(obs.Middleware{Logger: logger}, obs.HealthHandlers{}, app.Handlers)
	return &testServer{t: t, router: router, store: store}
}

type call struct {
	method string
	path   string
	token  string
	body   any
	header map[string]string
}

func (s *testServer) do(c call) (int, map[string]any) {
	s.t.Helper()
	var reader io.Reader
	if c.body != nil {
		raw, err := json.Marshal(c.body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(c.method, c.path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec.Code, out
}

// registerLessor signs up a lessor and returns its id and token.
func (s *testServer) registerLessor(email, phone string) (string, string) {
	s.t.Helper()
	code, body := s.do(call{method: http.MethodPost, path: "/api/v1/lessors/register", body: map[string]any{
		"first_name":       "Ana",
		"last_name":        "Ruiz",
		"email":            email,
		"phone_number":     phone,
		"password":         "secret-pass",
		"confirm_password": "secret-pass",
		"sportcenter_name": "Club Norte",
		"open":             "8am",
		"close":            "10pm",
	}})
	require.Equal(s.t, http.StatusCreated, code, body)
	id := body["lessor"].(map[string]any)["id"].(string)

	code, body = s.do(call{method: http.MethodPost, path: "/api/v1/lessors/login", body: map[string]any{
		"email": email, "password": "secret-pass",
	}})
	require.Equal(s.t, http.StatusOK, code, body)
	return id, body["token"].(string)
}

// registerUser signs up a platform user and returns its id and token.
func (s *testServer) registerUser(email string) (string, string) {
	s.t.Helper()
	code, body := s.do(call{method: http.MethodPost, path: "/api/v1/users/register", body: map[string]any{
		"name": "Luis", "email": email, "phone_number": "555-0200", "password": "password1",
	}})
	require.Equal(s.t, http.StatusCreated, code, body)
	return body["user"].(map[string]any)["id"].(string), body["token"].(string)
}

func TestLivez(t *testing.T) {
	s := newTestServer(t)
	code, body := s.do(call{method: http.MethodGet, path: "/livez"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	lessorID, lessorToken := s.registerLessor("ana@club.test", "555-0100")
	_, userToken := s.registerUser("luis@mail.test")
	date := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")

	code, body := s.do(call{method: http.MethodPost, path: "/api/v1/bookings", token: userToken, body: map[string]any{
		"lessor":     lessorID,
		"facility":   "Tennis",
		"court":      "A",
		"date":       date,
		"start_time": "09:00 am",
		"end_time":   "10:00 am",
	}})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Booking saved successfully", body["message"])
	booking := body["booking"].(map[string]any)
	assert.Equal(t, "pending", booking["status"])
	bookingID := booking["id"].(string)

	code, body = s.do(call{method: http.MethodGet, path: "/api/v1/lessors/" + lessorID + "/time-slots/availability?facility=Tennis&date=" + date})
	require.Equal(t, http.StatusOK, code, body)
	slots := body["slots"].([]any)
	require.Len(t, slots, 1)
	assert.Equal(t, "Luis", slots[0].(map[string]any)["occupant"])

	code, _ = s.do(call{method: http.MethodPut, path: "/api/v1/bookings/" + bookingID + "/status", token: userToken, body: map[string]any{"status": "approved"}})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(call{method: http.MethodPut, path: "/api/v1/bookings/" + bookingID + "/status", token: lessorToken, body: map[string]any{"status": "approved"}})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "approved", body["booking"].(map[string]any)["status"])

	code, body = s.do(call{method: http.MethodGet, path: "/api/v1/bookings/status?status=approved", token: lessorToken})
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["bookings"], 1)

	code, body = s.do(call{method: http.MethodGet, path: "/api/v1/users/bookings", token: userToken})
	require.Equal(t, http.StatusOK, code, body)
	assert.EqualValues(t, 1, body["result"].(map[string]any)["amount_bookings"])
}

func TestCreateBookingValidation(t *testing.T) {
	s := newTestServer(t)
	lessorID, _ := s.registerLessor("ana@club.test", "555-0100")
	_, userToken := s.registerUser("luis@mail.test")

	code, body := s.do(call{method: http.MethodPost, path: "/api/v1/bookings", token: userToken, body: map[string]any{
		"lessor": lessorID, "facility": "Tennis", "court": "A",
		"start_time": "10:00 am", "end_time": "09:00 am",
	}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "End time must be after start time", body["message"])

	code, _ = s.do(call{method: http.MethodPost, path: "/api/v1/bookings", token: userToken, body: map[string]any{
		"lessor": lessorID, "facility": "Tennis", "court": "A", "date": "tomorrow",
		"start_time": "09:00 am", "end_time": "10:00 am",
	}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(call{method: http.MethodPost, path: "/api/v1/bookings", token: userToken, body: map[string]any{
		"lessor": "missing", "facility": "Tennis", "court": "A",
		"start_time": "09:00 am", "end_time": "10:00 am",
	}})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Empty(t, s.store.BookingRepo.All())
}

func TestCreateBookingReplaysIdempotencyKey(t *testing.T) {
	s := newTestServer(t)
	lessorID, _ := s.registerLessor("ana@club.test", "555-0100")
	_, userToken := s.registerUser("luis@mail.test")
	req := call{
		method: http.MethodPost,
		path:   "/api/v1/bookings",
		token:  userToken,
		header: map[string]string{"Idempotency-Key": "retry-1"},
		body: map[string]any{
			"lessor": lessorID, "facility": "Tennis", "court": "A",
			"start_time": "09:00 am", "end_time": "10:00 am",
		},
	}

	code, first := s.do(req)
	require.Equal(t, http.StatusCreated, code, first)
	code, second := s.do(req)
	require.Equal(t, http.StatusCreated, code, second)

	assert.Equal(t, first["booking"].(map[string]any)["id"], second["booking"].(map[string]any)["id"])
	assert.Len(t, s.store.BookingRepo.All(), 1)
}

func TestRoleGates(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.registerUser("luis@mail.test")

	code, body := s.do(call{method: http.MethodGet, path: "/api/v1/bookings/lessor"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Authentication required", body["message"])

	code, body = s.do(call{method: http.MethodGet, path: "/api/v1/bookings/lessor", token: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid or expired token", body["message"])

	code, body = s.do(call{method: http.MethodGet, path: "/api/v1/bookings/lessor", token: userToken})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied", body["message"])

	code, _ = s.do(call{method: http.MethodGet, path: "/api/v1/reports/monthly?collection=bookings", token: userToken})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(call{method: http.MethodGet, path: "/api/v1/lessors/locations", token: "garbage"})
	assert.Equal(t, http.StatusOK, code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.registerUser("luis@mail.test")

	code, body := s.do(call{method: http.MethodPost, path: "/api/v1/users/login", body: map[string]any{
		"email": "luis@mail.test", "password": "wrong-password",
	}})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid email or password", body["message"])
}

func TestLessorRegistrationConflicts(t *testing.T) {
	s := newTestServer(t)
	s.registerLessor("ana@club.test", "555-0100")

	code, _ := s.do(call{method: http.MethodPost, path: "/api/v1/lessors/register", body: map[string]any{
		"first_name": "Eva", "last_name": "Diaz", "email": "ANA@club.test", "phone_number": "555-0999",
		"password": "secret-pass", "confirm_password": "secret-pass", "sportcenter_name": "Club Sur",
	}})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(call{method: http.MethodPost, path: "/api/v1/lessors/register", body: map[string]any{
		"first_name": "Eva", "last_name": "Diaz", "email": "eva@club.test", "phone_number": "555-0999",
		"password": "secret-pass", "confirm_password": "other-pass", "sportcenter_name": "Club Sur",
	}})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMonthlyReportForLessor(t *testing.T) {
	s := newTestServer(t)
	lessorID, lessorToken := s.registerLessor("ana@club.test", "555-0100")
	_, userToken := s.registerUser("luis@mail.test")
	code, body := s.do(call{method: http.MethodPost, path: "/api/v1/bookings", token: userToken, body: map[string]any{
		"lessor": lessorID, "facility": "Tennis", "court": "A",
		"start_time": "09:00 am", "end_time": "10:00 am",
	}})
	require.Equal(t, http.StatusCreated, code, body)

	code, body = s.do(call{method: http.MethodGet, path: "/api/v1/reports/monthly?collection=bookings", token: lessorToken})
	require.Equal(t, http.StatusOK, code, body)
	assert.NotNil(t, body["report"])

	code, _ = s.do(call{method: http.MethodGet, path: "/api/v1/reports/monthly?collection=users", token: lessorToken})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(call{method: http.MethodGet, path: "/api/v1/reports/monthly?collection=payments", token: lessorToken})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRankingRejectsBadFilter(t *testing.T) {
	s := newTestServer(t)
	s.registerLessor("ana@club.test", "555-0100")

	code, _ := s.do(call{method: http.MethodGet, path: "/api/v1/lessors/ranking?rating=five"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(call{method: http.MethodGet, path: "/api/v1/lessors/ranking?lng=200&lat=10"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := s.do(call{method: http.MethodGet, path: "/api/v1/lessors/ranking"})
	require.Equal(t, http.StatusOK, code, body)
}

// registerModerator signs up a moderator and returns its token.
func (s *testServer) registerModerator(email string) string {
	s.t.Helper()
	code, body := s.do(call{method: http.MethodPost, path: "/api/v1/moderators/register", body: map[string]any{
		"name": "Mod", "email": email, "phone_number": "555-0300", "password": "password1",
	}})
	require.Equal(s.t, http.StatusCreated, code, body)
	return body["token"].(string)
}

func TestCommentModerationFeedsRanking(t *testing.T) {
	s := newTestServer(t)
	lessorID, _ := s.registerLessor("ana@club.test", "555-0100")
	_, userToken := s.registerUser("luis@mail.test")
	modToken := s.registerModerator("mod@mail.test")

	code, body := s.do(call{method: http.MethodPut, path: "/api/v1/moderators/lessors/" + lessorID + "/status", token: modToken, body: map[string]any{"status": "approved"}})
	require.Equal(t, http.StatusOK, code, body)

	ids := map[int]string{}
	for _, rating := range []int{5, 4, 1} {
		code, body = s.do(call{method: http.MethodPost, path: "/api/v1/comments", token: userToken, body: map[string]any{
			"lessor": lessorID, "comment": "Visited today", "rating": rating,
		}})
		require.Equal(t, http.StatusCreated, code, body)
		comment := body["comment"].(map[string]any)
		assert.Equal(t, "pending", comment["status"])
		ids[rating] = comment["id"].(string)
	}

	code, _ = s.do(call{method: http.MethodPut, path: "/api/v1/moderators/comments/" + ids[5] + "/status", token: userToken, body: map[string]any{"status": "approved"}})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(call{method: http.MethodGet, path: "/api/v1/moderators/comments?status=pending", token: modToken})
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["comments"], 3)

	for rating, next := range map[int]string{5: "approved", 4: "approved", 1: "rejected"} {
		code, body = s.do(call{method: http.MethodPut, path: "/api/v1/moderators/comments/" + ids[rating] + "/status", token: modToken, body: map[string]any{"status": next}})
		require.Equal(t, http.StatusOK, code, body)
	}

	code, body = s.do(call{method: http.MethodGet, path: "/api/v1/lessors/" + lessorID + "/comments"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["comments"], 2)

	code, body = s.do(call{method: http.MethodGet, path: "/api/v1/lessors/ranking"})
	require.Equal(t, http.StatusOK, code, body)
	lessors := body["lessors"].([]any)
	require.Len(t, lessors, 1)
	top := lessors[0].(map[string]any)
	assert.Equal(t, lessorID, top["id"])
	assert.InDelta(t, 4.5, top["average_rating"], 1e-9)
	assert.EqualValues(t, 2, top["rating_count"])
}

func TestPaymentIncomeReport(t *testing.T) {
	s := newTestServer(t)
	lessorID, lessorToken := s.registerLessor("ana@club.test", "555-0100")
	otherID, _ := s.registerLessor("eva@club.test", "555-0101")
	_, userToken := s.registerUser("luis@mail.test")

	book := func(lessor string) string {
		code, body := s.do(call{method: http.MethodPost, path: "/api/v1/bookings", token: userToken, body: map[string]any{
			"lessor": lessor, "facility": "Tennis", "court": "A",
			"start_time": "09:00 am", "end_time": "10:00 am",
		}})
		require.Equal(t, http.StatusCreated, code, body)
		return body["booking"].(map[string]any)["id"].(string)
	}
	mine, theirs := book(lessorID), book(otherID)

	for _, p := range []map[string]any{
		{"lessor": lessorID, "booking": mine, "currency": "khr", "amount": 4000},
		{"lessor": lessorID, "booking": mine, "currency": "usd", "amount": 2},
		{"lessor": otherID, "booking": theirs, "currency": "usd", "amount": 40},
	} {
		code, body := s.do(call{method: http.MethodPost, path: "/api/v1/payments", token: userToken, body: p})
		require.Equal(t, http.StatusCreated, code, body)
	}

	code, body := s.do(call{method: http.MethodPost, path: "/api/v1/payments", token: userToken, body: map[string]any{
		"lessor": lessorID, "booking": theirs, "currency": "usd", "amount": 5,
	}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Booking does not belong to this lessor", body["message"])

	code, body = s.do(call{method: http.MethodGet, path: "/api/v1/reports/income", token: lessorToken})
	require.Equal(t, http.StatusOK, code, body)
	income := body["income"].(map[string]any)
	assert.InDelta(t, 3.0, income["totalAmountUSD"], 1e-9)
	assert.EqualValues(t, 2, income["totalTransactions"])
	breakdown := income["breakdown"].(map[string]any)
	assert.InDelta(t, 1.0, breakdown["khr"].(map[string]any)["amountUSD"], 1e-9)
	assert.InDelta(t, 2.0, breakdown["usd"].(map[string]any)["amount"], 1e-9)

	code, body = s.do(call{method: http.MethodGet, path: "/api/v1/payments/lessor", token: lessorToken})
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["payments"], 2)

	code, _ = s.do(call{method: http.MethodGet, path: "/api/v1/reports/income", token: userToken})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestModeratorManagesLessorsAndUsers(t *testing.T) {
	s := newTestServer(t)
	lessorID, lessorToken := s.registerLessor("ana@club.test", "555-0100")
	s.registerUser("luis@mail.test")
	modToken := s.registerModerator("mod@mail.test")

	code, body := s.do(call{method: http.MethodGet, path: "/api/v1/moderators/users", token: modToken})
	require.Equal(t, http.StatusOK, code, body)
	users := body["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "luis@mail.test", users[0].(map[string]any)["email"])

	code, _ = s.do(call{method: http.MethodGet, path: "/api/v1/moderators/users", token: lessorToken})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(call{method: http.MethodGet, path: "/api/v1/reports/monthly?collection=users", token: modToken})
	require.Equal(t, http.StatusOK, code, body)

	code, body = s.do(call{method: http.MethodPut, path: "/api/v1/moderators/profile", token: modToken, body: map[string]any{"name": "Head Mod", "phone_number": ""}})
	require.Equal(t, http.StatusOK, code, body)
	mod := body["moderator"].(map[string]any)
	assert.Equal(t, "Head Mod", mod["name"])
	assert.Equal(t, "555-0300", mod["phone_number"])

	code, body = s.do(call{method: http.MethodPut, path: "/api/v1/moderators/lessors/" + lessorID + "/password", token: modToken, body: map[string]any{"password": "brand-new-pass"}})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Password updated successfully", body["message"])

	code, _ = s.do(call{method: http.MethodPost, path: "/api/v1/lessors/login", body: map[string]any{"email": "ana@club.test", "password": "secret-pass"}})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, body = s.do(call{method: http.MethodPost, path: "/api/v1/lessors/login", body: map[string]any{"email": "ana@club.test", "password": "brand-new-pass"}})
	require.Equal(t, http.StatusOK, code, body)

	code, body = s.do(call{method: http.MethodPut, path: "/api/v1/moderators/lessors/missing/password", token: modToken, body: map[string]any{"password": "brand-new-pass"}})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Lessor not found", body["message"])

	code, body = s.do(call{method: http.MethodDelete, path: "/api/v1/moderators/lessors/" + lessorID, token: modToken})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Lessor deleted", body["message"])

	code, _ = s.do(call{method: http.MethodGet, path: "/api/v1/lessors/" + lessorID})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(call{method: http.MethodDelete, path: "/api/v1/moderators/lessors/" + lessorID, token: modToken})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUserBookingIgnoresBodyUser(t *testing.T) {
	s := newTestServer(t)
	lessorID, _ := s.registerLessor("ana@club.test", "555-0100")
	userID, userToken := s.registerUser("luis@mail.test")

	code, body := s.do(call{method: http.MethodPost, path: "/api/v1/bookings", token: userToken, body: map[string]any{
		"user": "someone-else", "lessor": lessorID, "facility": "Tennis", "court": "A",
		"start_time": "09:00 am", "end_time": "10:00 am",
	}})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, userID, body["booking"].(map[string]any)["user"])
}
