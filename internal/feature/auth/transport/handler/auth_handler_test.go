package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task_backend/internal/feature/auth/domain/entity"
	"task_backend/internal/feature/auth/usecase"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/shared/apperr"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
// Unset funcs fail loudly so that tests notice unexpected calls.
type mockAuthUsecase struct {
	RegisterFunc         func(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	LoginFunc            func(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	ProfileFunc          func(ctx context.Context, userID uint) (entity.Profile, error)
	RefreshTokenFunc     func(ctx context.Context, userID uint) (string, error)
	ForgotPasswordFunc   func(ctx context.Context, email string) error
	VerifyResetTokenFunc func(ctx context.Context, token string) error
	ResetPasswordFunc    func(ctx context.Context, token, password string) error
	UpdateProfileFunc    func(ctx context.Context, userID uint, in usecase.UpdateProfileInput) (entity.Profile, error)
	UpdatePasswordFunc   func(ctx context.Context, userID uint, currentPassword, newPassword string) error
}

var errUnexpectedCall = errors.New("unexpected call")

func (m *mockAuthUsecase) Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return nil, errUnexpectedCall
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, errUnexpectedCall
}

func (m *mockAuthUsecase) Profile(ctx context.Context, userID uint) (entity.Profile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, userID)
	}
	return entity.Profile{}, errUnexpectedCall
}

func (m *mockAuthUsecase) RefreshToken(ctx context.Context, userID uint) (string, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, userID)
	}
	return "", errUnexpectedCall
}

func (m *mockAuthUsecase) Logout(context.Context, uint) error { return nil }

func (m *mockAuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return errUnexpectedCall
}

func (m *mockAuthUsecase) VerifyResetToken(ctx context.Context, token string) error {
	if m.VerifyResetTokenFunc != nil {
		return m.VerifyResetTokenFunc(ctx, token)
	}
	return errUnexpectedCall
}

func (m *mockAuthUsecase) ResetPassword(ctx context.Context, token, password string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, password)
	}
	return errUnexpectedCall
}

func (m *mockAuthUsecase) UpdateProfile(ctx context.Context, userID uint, in usecase.UpdateProfileInput) (entity.Profile, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, in)
	}
	return entity.Profile{}, errUnexpectedCall
}

func (m *mockAuthUsecase) UpdatePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, currentPassword, newPassword)
	}
	return errUnexpectedCall
}

// newTestRouter mounts every auth route. When userID is non-zero a stub
// middleware marks requests as authenticated.
func newTestRouter(uc AuthUsecase, userID uint) *gin.Engine {
	h := NewAuthHandler(uc)
	r := gin.New()
	authed := func(c *gin.Context) {
		if userID != 0 {
			c.Set(jwtmw.ContextUserID, userID)
		}
		c.Next()
	}
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/forgot-password", h.ForgotPassword)
	r.GET("/auth/reset-password/:token", h.VerifyResetToken)
	r.POST("/auth/reset-password", h.ResetPassword)
	r.GET("/auth/me", authed, h.Me)
	r.POST("/auth/logout", authed, h.Logout)
	r.POST("/auth/refresh", authed, h.Refresh)
	r.PUT("/auth/profile", authed, h.UpdateProfile)
	r.PUT("/auth/password", authed, h.UpdatePassword)
	return r
}

func doRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) gin.H {
	t.Helper()
	var body gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var alice = entity.Profile{ID: 1, Name: "Alice", Email: "alice@x.com", IsActive: true}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name             string
		requestBody      any
		mockRegisterFunc func(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
		expectedStatus   int
		expectedError    string
		expectedField    string
	}{
		{
			name:        "success: user registration",
			requestBody: gin.H{"name": "Alice", "email": "alice@x.com", "password": "Passw0rd"},
			mockRegisterFunc: func(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error) {
				return &usecase.AuthResult{Token: "jwt", User: alice}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "failure: malformed json",
			requestBody:    "{not json",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name:        "failure: validation error carries field",
			requestBody: gin.H{"name": "A", "email": "alice@x.com", "password": "Passw0rd"},
			mockRegisterFunc: func(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error) {
				return nil, apperr.Validation("name", "Name must be between 2 and 50 characters")
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Name must be between 2 and 50 characters",
			expectedField:  "name",
		},
		{
			name:        "failure: duplicate email",
			requestBody: gin.H{"name": "Alice", "email": "alice@x.com", "password": "Passw0rd"},
			mockRegisterFunc: func(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error) {
				return nil, usecase.ErrEmailAlreadyExists
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "User with this email already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&mockAuthUsecase{RegisterFunc: tt.mockRegisterFunc}, 0)

			w := doRequest(r, http.MethodPost, "/auth/register", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			if tt.expectedError == "" {
				assert.Equal(t, true, body["success"])
				data := body["data"].(map[string]any)
				assert.Equal(t, "jwt", data["token"])
				user := data["user"].(map[string]any)
				assert.Equal(t, "alice@x.com", user["email"])
				assert.NotContains(t, user, "password")
				return
			}
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.expectedError, body["error"])
			if tt.expectedField != "" {
				assert.Equal(t, tt.expectedField, body["field"])
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success returns user and token", func(t *testing.T) {
		uc := &mockAuthUsecase{LoginFunc: func(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
			assert.Equal(t, "alice@x.com", email)
			return &usecase.AuthResult{Token: "jwt", User: alice}, nil
		}}

		w := doRequest(newTestRouter(uc, 0), http.MethodPost, "/auth/login", gin.H{"email": "alice@x.com", "password": "Passw0rd"})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Login successful", body["message"])
	})

	t.Run("invalid credentials are 401 with generic message", func(t *testing.T) {
		uc := &mockAuthUsecase{LoginFunc: func(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
			return nil, usecase.ErrInvalidCredentials
		}}

		w := doRequest(newTestRouter(uc, 0), http.MethodPost, "/auth/login", gin.H{"email": "alice@x.com", "password": "nope"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decode(t, w)["error"])
	})

	t.Run("unexpected error is a generic 500", func(t *testing.T) {
		uc := &mockAuthUsecase{LoginFunc: func(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
			return nil, errors.New("db is on fire")
		}}

		w := doRequest(newTestRouter(uc, 0), http.MethodPost, "/auth/login", gin.H{"email": "alice@x.com", "password": "Passw0rd"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", decode(t, w)["error"])
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		uc := &mockAuthUsecase{ProfileFunc: func(ctx context.Context, userID uint) (entity.Profile, error) {
			assert.Equal(t, uint(1), userID)
			return alice, nil
		}}

		w := doRequest(newTestRouter(uc, 1), http.MethodGet, "/auth/me", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w)["data"].(map[string]any)
		assert.Equal(t, "Alice", data["user"].(map[string]any)["name"])
	})

	t.Run("missing user in context", func(t *testing.T) {
		w := doRequest(newTestRouter(&mockAuthUsecase{}, 0), http.MethodGet, "/auth/me", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_LogoutAndRefresh(t *testing.T) {
	uc := &mockAuthUsecase{RefreshTokenFunc: func(ctx context.Context, userID uint) (string, error) {
		return "fresh", nil
	}}
	r := newTestRouter(uc, 1)

	w := doRequest(r, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decode(t, w)["message"])

	w = doRequest(r, http.MethodPost, "/auth/refresh", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fresh", decode(t, w)["data"].(map[string]any)["token"])
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	tests := []struct {
		name           string
		mockErr        error
		expectedStatus int
		expectedKey    string
		expectedValue  string
	}{
		{"generic success", nil, http.StatusOK, "message", forgotPasswordMessage},
		{"mail transport failure", usecase.ErrEmailNotSent, http.StatusInternalServerError, "error", "Email could not be sent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockAuthUsecase{ForgotPasswordFunc: func(ctx context.Context, email string) error { return tt.mockErr }}

			w := doRequest(newTestRouter(uc, 0), http.MethodPost, "/auth/forgot-password", gin.H{"email": "who@x.com"})

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedValue, decode(t, w)[tt.expectedKey])
		})
	}
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	t.Run("verify valid token", func(t *testing.T) {
		uc := &mockAuthUsecase{VerifyResetTokenFunc: func(ctx context.Context, token string) error {
			assert.Equal(t, "abc", token)
			return nil
		}}

		w := doRequest(newTestRouter(uc, 0), http.MethodGet, "/auth/reset-password/abc", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Reset token is valid", decode(t, w)["message"])
	})

	t.Run("verify expired token", func(t *testing.T) {
		uc := &mockAuthUsecase{VerifyResetTokenFunc: func(ctx context.Context, token string) error {
			return usecase.ErrInvalidResetToken
		}}

		w := doRequest(newTestRouter(uc, 0), http.MethodGet, "/auth/reset-password/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid or expired reset token", decode(t, w)["error"])
	})

	t.Run("reset", func(t *testing.T) {
		uc := &mockAuthUsecase{ResetPasswordFunc: func(ctx context.Context, token, password string) error {
			assert.Equal(t, "abc", token)
			assert.Equal(t, "NewPassw0rd", password)
			return nil
		}}

		w := doRequest(newTestRouter(uc, 0), http.MethodPost, "/auth/reset-password", gin.H{"token": "abc", "password": "NewPassw0rd"})

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	t.Run("absent fields stay nil", func(t *testing.T) {
		uc := &mockAuthUsecase{UpdateProfileFunc: func(ctx context.Context, userID uint, in usecase.UpdateProfileInput) (entity.Profile, error) {
			require.NotNil(t, in.Name)
			assert.Equal(t, "Bob", *in.Name)
			assert.Nil(t, in.Avatar)
			p := alice
			p.Name = "Bob"
			return p, nil
		}}

		w := doRequest(newTestRouter(uc, 1), http.MethodPut, "/auth/profile", gin.H{"name": "Bob"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Profile updated successfully", decode(t, w)["message"])
	})

	t.Run("no fields", func(t *testing.T) {
		uc := &mockAuthUsecase{UpdateProfileFunc: func(ctx context.Context, userID uint, in usecase.UpdateProfileInput) (entity.Profile, error) {
			return entity.Profile{}, usecase.ErrNoProfileFields
		}}

		w := doRequest(newTestRouter(uc, 1), http.MethodPut, "/auth/profile", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No valid fields to update", decode(t, w)["error"])
	})
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	uc := &mockAuthUsecase{UpdatePasswordFunc: func(ctx context.Context, userID uint, currentPassword, newPassword string) error {
		if currentPassword != "Passw0rd" {
			return usecase.ErrIncorrectPassword
		}
		return nil
	}}
	r := newTestRouter(uc, 1)

	w := doRequest(r, http.MethodPut, "/auth/password", gin.H{"currentPassword": "wrong", "newPassword": "NewPassw0rd"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Current password is incorrect", decode(t, w)["error"])

	w = doRequest(r, http.MethodPut, "/auth/password", gin.H{"currentPassword": "Passw0rd", "newPassword": "NewPassw0rd"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password updated successfully", decode(t, w)["message"])
}
