package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ariefcatur/go-user-orders.git/internal/users"
	"github.com/stretchr/testify/require"
)

type stubUserService struct {
	user        users.User
	createErr   error
	getErr      error
	createCalls int
}

func (s *stubUserService) Create(ctx context.Context, name, email string) (users.User, error) {
	s.createCalls++
	if s.createErr != nil {
		return users.User{}, s.createErr
	}
	return s.user, nil
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (users.User, error) {
	if s.getErr != nil {
		return users.User{}, s.getErr
	}
	return s.user, nil
}

func usersRouter(svc *stubUserService) http.Handler {
	r := NewRouter()
	h := &UsersHandler{Svc: svc, Log: discard()}
	h.Register(r)
	return r
}

func TestCreateUserReturns201(t *testing.T) {
	svc := &stubUserService{user: users.User{
		ID:        "user1",
		Name:      "John Doe",
		Email:     "john@example.com",
		CreatedAt: time.Now().UTC(),
	}}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"name":"John Doe","email":"john@example.com"}`))
	usersRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp UserResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "user1", resp.ID)
	require.Equal(t, "john@example.com", resp.Email)
}

func TestCreateUserRejectsBadBodies(t *testing.T) {
	cases := map[string]string{
		"invalid json":  `{`,
		"missing name":  `{"email":"john@example.com"}`,
		"invalid email": `{"name":"John Doe","email":"not-an-email"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubUserService{}
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
			usersRouter(svc).ServeHTTP(rr, req)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.Zero(t, svc.createCalls)
		})
	}
}

func TestCreateUserFailureReturns500(t *testing.T) {
	svc := &stubUserService{createErr: errors.New("db down")}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"name":"John Doe","email":"john@example.com"}`))
	usersRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestGetUserByID(t *testing.T) {
	svc := &stubUserService{user: users.User{ID: "user1", Name: "John Doe", Email: "john@example.com"}}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/user1", nil)
	usersRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp UserResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "user1", resp.ID)
}

func TestGetUserNotFoundReturns404(t *testing.T) {
	svc := &stubUserService{getErr: users.ErrNotFound}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/ghost", nil)
	usersRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetUserFailureReturns500(t *testing.T) {
	svc := &stubUserService{getErr: errors.New("db down")}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/user1", nil)
	usersRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
