package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netflix-catalog-backend/internal/domains/user"
	"netflix-catalog-backend/pkg/jwt"
)

type stubUserService struct {
	registerFn func(user.RegisterRequest) (*user.User, error)
	getByIDFn  func(uuid.UUID) (*user.User, error)
	listFn     func(skip, limit int) ([]user.User, error)
	authFn     func(username, password string) (*user.User, error)
}

func (s *stubUserService) Register(_ context.Context, req user.RegisterRequest) (*user.User, error) {
	return s.registerFn(req)
}

func (s *stubUserService) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	return s.getByIDFn(id)
}

func (s *stubUserService) List(_ context.Context, skip, limit int) ([]user.User, error) {
	return s.listFn(skip, limit)
}

func (s *stubUserService) Authenticate(_ context.Context, username, password string) (*user.User, error) {
	return s.authFn(username, password)
}

func setupRouter(svc user.Service, manager *jwt.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(svc, manager)

	r := gin.New()
	users := r.Group("/users")
	{
		users.POST("/", h.Register)
		users.GET("/", h.List)
		users.GET("/:user_id", h.Get)
	}
	r.POST("/token", h.Token)
	return r
}

func testManager() *jwt.Manager {
	return jwt.NewManager("test-secret", 30*time.Minute)
}

func activeUser() *user.User {
	return &user.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		IsActive: true,
	}
}

func TestRegisterEndpoint(t *testing.T) {
	body := `{"username": "alice", "email": "alice@example.com", "password": "longenoughpw"}`

	t.Run("success", func(t *testing.T) {
		svc := &stubUserService{
			registerFn: func(req user.RegisterRequest) (*user.User, error) {
				assert.Equal(t, "alice", req.Username)
				return activeUser(), nil
			},
		}
		r := setupRouter(svc, testManager())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("duplicate email is a 400", func(t *testing.T) {
		svc := &stubUserService{
			registerFn: func(user.RegisterRequest) (*user.User, error) {
				return nil, user.ErrEmailTaken
			},
		}
		r := setupRouter(svc, testManager())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Email already registered")
	})

	t.Run("short password is a 422", func(t *testing.T) {
		svc := &stubUserService{}
		r := setupRouter(svc, testManager())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/",
			strings.NewReader(`{"username": "alice", "email": "alice@example.com", "password": "short"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestGetUserEndpoint(t *testing.T) {
	t.Run("by id", func(t *testing.T) {
		u := activeUser()
		svc := &stubUserService{
			getByIDFn: func(id uuid.UUID) (*user.User, error) {
				assert.Equal(t, u.ID, id)
				return u, nil
			},
		}
		r := setupRouter(svc, testManager())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+u.ID.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice")
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		svc := &stubUserService{
			getByIDFn: func(uuid.UUID) (*user.User, error) {
				return nil, user.ErrUserNotFound
			},
		}
		r := setupRouter(svc, testManager())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-uuid id is a 404", func(t *testing.T) {
		svc := &stubUserService{}
		r := setupRouter(svc, testManager())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/42", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMeEndpoint(t *testing.T) {
	manager := testManager()

	t.Run("valid token", func(t *testing.T) {
		u := activeUser()
		token, err := manager.GenerateAccessToken(u.ID.String(), u.Username)
		require.NoError(t, err)

		svc := &stubUserService{
			getByIDFn: func(id uuid.UUID) (*user.User, error) {
				assert.Equal(t, u.ID, id)
				return u, nil
			},
		}
		r := setupRouter(svc, manager)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice")
	})

	t.Run("missing token is a 401", func(t *testing.T) {
		svc := &stubUserService{}
		r := setupRouter(svc, manager)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token is a 401", func(t *testing.T) {
		svc := &stubUserService{}
		r := setupRouter(svc, manager)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("inactive user is a 400", func(t *testing.T) {
		u := activeUser()
		u.IsActive = false
		token, err := manager.GenerateAccessToken(u.ID.String(), u.Username)
		require.NoError(t, err)

		svc := &stubUserService{
			getByIDFn: func(uuid.UUID) (*user.User, error) { return u, nil },
		}
		r := setupRouter(svc, manager)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Inactive user")
	})
}

func TestTokenEndpoint(t *testing.T) {
	postForm := func(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("issues a bearer token", func(t *testing.T) {
		manager := testManager()
		u := activeUser()
		svc := &stubUserService{
			authFn: func(username, password string) (*user.User, error) {
				assert.Equal(t, "alice", username)
				assert.Equal(t, "opensesame", password)
				return u, nil
			},
		}
		r := setupRouter(svc, manager)

		w := postForm(r, url.Values{"username": {"alice"}, "password": {"opensesame"}})
		require.Equal(t, http.StatusOK, w.Code)

		var body user.TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "bearer", body.TokenType)

		claims, err := manager.ValidateAccessToken(body.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID.String(), claims.UserID)
	})

	t.Run("bad credentials are a 401", func(t *testing.T) {
		svc := &stubUserService{
			authFn: func(string, string) (*user.User, error) {
				return nil, user.ErrInvalidCredentials
			},
		}
		r := setupRouter(svc, testManager())

		w := postForm(r, url.Values{"username": {"alice"}, "password": {"wrong"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing form fields are a 401", func(t *testing.T) {
		svc := &stubUserService{}
		r := setupRouter(svc, testManager())

		w := postForm(r, url.Values{})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
