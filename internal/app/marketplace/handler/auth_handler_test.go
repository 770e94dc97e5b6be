package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"berrymarket/internal/app/marketplace/entity"
	"berrymarket/internal/app/marketplace/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRegisterHandler_Success(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)

	user := &entity.User{ID: uuid.New(), Email: "new@test.com", Name: "New User", Role: entity.RoleBuyer, IsActive: true}
	resp := &entity.AuthResponse{AccessToken: "token", User: user}
	mockService.On("Register", mock.Anything, mock.AnythingOfType("*entity.RegisterRequest")).Return(resp, nil)

	router.POST("/auth/register", handler.Register)

	body, _ := json.Marshal(entity.RegisterRequest{Email: "new@test.com", Password: "password123", Name: "New User"})
	req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")
	// Хеш пароля не должен попадать в ответ
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterHandler_EmailTaken(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)

	mockService.On("Register", mock.Anything, mock.Anything).Return(nil, service.ErrUserExists)

	router.POST("/auth/register", handler.Register)

	body, _ := json.Marshal(entity.RegisterRequest{Email: "taken@test.com", Password: "password123", Name: "Dup"})
	req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// Регистрация с ролью admin отклоняется валидатором (oneof=buyer seller)
func TestRegisterHandler_AdminRoleRejected(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)

	router.POST("/auth/register", handler.Register)

	body, _ := json.Marshal(entity.RegisterRequest{Email: "h@test.com", Password: "password123", Name: "Hacker", Role: entity.RoleAdmin})
	req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegisterHandler_InvalidEmail(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)

	router.POST("/auth/register", handler.Register)

	body, _ := json.Marshal(entity.RegisterRequest{Email: "not-an-email", Password: "password123", Name: "User"})
	req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler_Success(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)

	user := &entity.User{ID: uuid.New(), Email: "user@test.com", Role: entity.RoleSeller, IsActive: true}
	resp := &entity.AuthResponse{AccessToken: "token", User: user}
	mockService.On("Login", mock.Anything, mock.AnythingOfType("*entity.LoginRequest")).Return(resp, nil)

	router.POST("/auth/login", handler.Login)

	body, _ := json.Marshal(entity.LoginRequest{Email: "user@test.com", Password: "password123"})
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)

	mockService.On("Login", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidCredentials)

	router.POST("/auth/login", handler.Login)

	body, _ := json.Marshal(entity.LoginRequest{Email: "user@test.com", Password: "wrong"})
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeHandler_Success(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)

	principal := entity.Principal{UserID: uuid.New(), Email: "user@test.com", Role: entity.RoleBuyer}
	user := &entity.User{ID: principal.UserID, Email: principal.Email, Role: entity.RoleBuyer, IsActive: true}
	mockService.On("GetUser", mock.Anything, principal.UserID).Return(user, nil)

	router.GET("/auth/me", injectPrincipal(principal), handler.Me)

	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user@test.com")
}

func TestMeHandler_NoPrincipal(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)

	router.GET("/auth/me", handler.Me)

	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}
