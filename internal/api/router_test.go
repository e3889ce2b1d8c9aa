package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/Zach-Mp4/warbler/internal/auth"
	"github.com/Zach-Mp4/warbler/internal/database"
	"github.com/Zach-Mp4/warbler/internal/models"
	"github.com/Zach-Mp4/warbler/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	router   *chi.Mux
	tokens   *auth.TokenManager
	users    *services.UserService
	follows  *services.FollowService
	messages *services.MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "warbler-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	users := services.NewUserService(db)
	follows := services.NewFollowService(db)
	messages := services.NewMessageService(db)

	router := NewRouter(tokens, users, follows, messages, "http://localhost:3000", false)
	return &fixture{router: router, tokens: tokens, users: users, follows: follows, messages: messages}
}

func (f *fixture) signup(t *testing.T, username, email string) models.User {
	t.Helper()
	u, err := f.users.Signup(username, email, "password", "")
	require.NoError(t, err)
	return u
}

func (f *fixture) sessionCookie(t *testing.T, u models.User) *http.Cookie {
	t.Helper()
	token, err := f.tokens.Generate(u)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.SessionCookie, Value: token}
}

func (f *fixture) do(t *testing.T, method, target string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestListUsers_RequiresSession(t *testing.T) {
	f := newFixture(t)
	u := f.signup(t, "testuser", "test@test.com")

	rec := f.do(t, http.MethodGet, "/users", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodGet, "/users", nil, f.sessionCookie(t, u))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "testuser")
}

func TestShowUser_PublicForAnonymous(t *testing.T) {
	f := newFixture(t)
	u := f.signup(t, "testuser", "test@test.com")

	rec := f.do(t, http.MethodGet, "/users/"+itoa(u.ID), nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "testuser")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestShowUser_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/users/9999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignupRoute(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/signup", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "pw1",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var cookieSet bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie && c.Value != "" {
			cookieSet = true
		}
	}
	assert.True(t, cookieSet, "signup should set a session cookie")

	// Same username again fails as a duplicate identity
	rec = f.do(t, http.MethodPost, "/signup", map[string]string{
		"username": "alice",
		"email":    "b@x.com",
		"password": "pw2",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginRoute(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "testuser", "test@test.com")

	rec := f.do(t, http.MethodPost, "/login", map[string]string{
		"username": "testuser",
		"password": "password",
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Unknown user and wrong password get the exact same response
	recUnknown := f.do(t, http.MethodPost, "/login", map[string]string{
		"username": "nobody",
		"password": "password",
	}, nil)
	recWrong := f.do(t, http.MethodPost, "/login", map[string]string{
		"username": "testuser",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, recUnknown.Body.String(), recWrong.Body.String())
}

func TestFollowRoutes(t *testing.T) {
	f := newFixture(t)
	me := f.signup(t, "testuser", "test@test.com")
	other := f.signup(t, "testuser2", "test2@test.com")
	cookie := f.sessionCookie(t, me)

	// Anonymous follow is redirected
	rec := f.do(t, http.MethodPost, "/users/follow/"+itoa(other.ID), nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/users/follow/"+itoa(other.ID), nil, cookie)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/users/"+itoa(me.ID)+"/following", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "testuser2")

	rec = f.do(t, http.MethodGet, "/users/"+itoa(other.ID)+"/followers", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "\"testuser\"")

	// Following/followers pages require a session
	rec = f.do(t, http.MethodGet, "/users/"+itoa(me.ID)+"/following", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/users/stop-following/"+itoa(other.ID), nil, cookie)
	require.Equal(t, http.StatusNoContent, rec.Code)

	following, err := f.follows.FollowingOf(me.ID)
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestFollowRoute_UnknownUser(t *testing.T) {
	f := newFixture(t)
	me := f.signup(t, "testuser", "test@test.com")

	rec := f.do(t, http.MethodPost, "/users/follow/9999", nil, f.sessionCookie(t, me))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileRoutes(t *testing.T) {
	f := newFixture(t)
	me := f.signup(t, "testuser", "test@test.com")
	cookie := f.sessionCookie(t, me)

	rec := f.do(t, http.MethodGet, "/users/profile", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test@test.com")

	rec = f.do(t, http.MethodGet, "/users/profile", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/users/profile", map[string]string{
		"username": "JOSEPH",
		"email":    "super@gmail.com",
		"bio":      "SUPER DUPER AWESOME",
		"password": "password",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	fresh, err := f.users.GetUserByID(me.ID)
	require.NoError(t, err)
	assert.Equal(t, "JOSEPH", fresh.Username)
	assert.Equal(t, "super@gmail.com", fresh.Email)
	assert.Equal(t, "SUPER DUPER AWESOME", fresh.Bio)
}

func TestProfileEdit_WrongPassword(t *testing.T) {
	f := newFixture(t)
	me := f.signup(t, "testuser", "test@test.com")

	rec := f.do(t, http.MethodPost, "/users/profile", map[string]string{
		"username": "JOSEPH1",
		"email":    "super1@gmail.com",
		"password": "wrong",
	}, f.sessionCookie(t, me))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	fresh, err := f.users.GetUserByID(me.ID)
	require.NoError(t, err)
	assert.Equal(t, "testuser", fresh.Username)
	assert.Equal(t, "test@test.com", fresh.Email)
}

func TestDeleteUserRoute(t *testing.T) {
	f := newFixture(t)
	me := f.signup(t, "testuser", "test@test.com")

	rec := f.do(t, http.MethodPost, "/users/delete", nil, f.sessionCookie(t, me))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/users/"+itoa(me.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMessageRoutes(t *testing.T) {
	f := newFixture(t)
	me := f.signup(t, "testuser", "test@test.com")
	other := f.signup(t, "testuser2", "test2@test.com")
	cookie := f.sessionCookie(t, me)

	rec := f.do(t, http.MethodPost, "/messages", map[string]string{"text": "hello warbler"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	var msg models.Message
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))

	// Anonymous reads are allowed
	rec = f.do(t, http.MethodGet, "/messages/"+itoa(msg.ID), nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/users/"+itoa(me.ID)+"/messages", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello warbler")

	// Another user cannot delete it
	rec = f.do(t, http.MethodDelete, "/messages/"+itoa(msg.ID), nil, f.sessionCookie(t, other))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/messages/"+itoa(msg.ID), nil, cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
