package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Daffariandhika/ReadUniverse/internal/identity"
	"github.com/Daffariandhika/ReadUniverse/internal/models"
	"github.com/Daffariandhika/ReadUniverse/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProvider struct {
	admins  map[string]bool
	deleted []string
}

func (p *stubProvider) VerifyIDToken(_ context.Context, idToken string) (*identity.Token, error) {
	admin, ok := p.admins[idToken]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &identity.Token{UID: idToken, Claims: map[string]interface{}{"admin": admin}}, nil
}

func (p *stubProvider) DeleteUser(_ context.Context, uid string) error {
	p.deleted = append(p.deleted, uid)
	return nil
}

func (p *stubProvider) SetAdminClaim(context.Context, string) error { return nil }

type testServer struct {
	router        *gin.Engine
	users         *memUsers
	books         *memBooks
	notifications *memNotifications
	sessions      *session.Issuer
	provider      *stubProvider
	superAdminID  string
	pingErr       error
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		users:         &memUsers{},
		books:         &memBooks{},
		notifications: &memNotifications{},
		sessions:      session.NewIssuer("test-secret", time.Hour),
		provider:      &stubProvider{admins: map[string]bool{"admin-token": true, "user-token": false}},
		superAdminID:  primitive.NewObjectID().Hex(),
	}
	s.router = gin.New()
	RegisterRoutes(s.router, Deps{
		Users:         s.users,
		Books:         s.books,
		Notifications: s.notifications,
		Sessions:      s.sessions,
		Identity:      s.provider,
		SuperAdminID:  s.superAdminID,
		Ping:          func(context.Context) error { return s.pingErr },
	})
	return s
}

// seedUser inserts a user and returns it with a session token for it.
func (s *testServer) seedUser(t *testing.T, uid, username, email string) (*models.User, string) {
	t.Helper()
	u := models.NewUser(uid, username, email, "", time.Now())
	u.ID = primitive.NewObjectID()
	_, err := s.users.Create(context.Background(), u)
	require.NoError(t, err)
	token, err := s.sessions.Issue(u.ID.Hex(), uid, "")
	require.NoError(t, err)
	return s.users.byID(u.ID), token
}

func (s *testServer) seedBook(t *testing.T, b models.Book) primitive.ObjectID {
	t.Helper()
	b.ID = primitive.NewObjectID()
	_, err := s.books.Insert(context.Background(), []models.Book{b})
	require.NoError(t, err)
	return b.ID
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		payload, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decode(t, w, &body)
	return body.Message
}
