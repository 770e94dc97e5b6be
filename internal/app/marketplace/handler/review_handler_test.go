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

func TestCreateReviewHandler_Success(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)

	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleBuyer}
	productID := uuid.New()
	review := &entity.Review{ID: uuid.New(), UserID: principal.UserID, ProductID: productID, Grade: 5, IsActive: true}

	mockService.On("CreateReview", mock.Anything, principal, mock.AnythingOfType("*entity.CreateReviewRequest")).Return(review, nil)

	router.POST("/reviews", injectPrincipal(principal), handler.CreateReview)

	body, _ := json.Marshal(entity.CreateReviewRequest{ProductID: productID, Grade: 5, Comment: "Great!"})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateReviewHandler_NoPrincipal(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)

	router.POST("/reviews", handler.CreateReview)

	body, _ := json.Marshal(entity.CreateReviewRequest{ProductID: uuid.New(), Grade: 5})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReviewHandler_SellerForbidden(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)

	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleSeller}
	mockService.On("CreateReview", mock.Anything, principal, mock.Anything).Return(nil, service.ErrForbiddenRole)

	router.POST("/reviews", injectPrincipal(principal), handler.CreateReview)

	body, _ := json.Marshal(entity.CreateReviewRequest{ProductID: uuid.New(), Grade: 5})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// Валидатор отклоняет grade вне [1,5] ещё до вызова сервиса
func TestCreateReviewHandler_GradeValidation(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)

	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleBuyer}
	router.POST("/reviews", injectPrincipal(principal), handler.CreateReview)

	for _, grade := range []int{-1, 6} {
		body, _ := json.Marshal(entity.CreateReviewRequest{ProductID: uuid.New(), Grade: grade})
		req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "grade %d", grade)
	}

	mockService.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReviewHandler_ProductNotFound(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)

	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleBuyer}
	mockService.On("CreateReview", mock.Anything, principal, mock.Anything).Return(nil, service.ErrProductNotFound)

	router.POST("/reviews", injectPrincipal(principal), handler.CreateReview)

	body, _ := json.Marshal(entity.CreateReviewRequest{ProductID: uuid.New(), Grade: 3})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReviewHandler_Success(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)

	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
	reviewID := uuid.New()
	mockService.On("DeleteReview", mock.Anything, principal, reviewID).Return(nil)

	router.DELETE("/reviews/:id", injectPrincipal(principal), handler.DeleteReview)

	req, _ := http.NewRequest(http.MethodDelete, "/reviews/"+reviewID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteReviewHandler_BuyerForbidden(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)

	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleBuyer}
	reviewID := uuid.New()
	mockService.On("DeleteReview", mock.Anything, principal, reviewID).Return(service.ErrForbiddenRole)

	router.DELETE("/reviews/:id", injectPrincipal(principal), handler.DeleteReview)

	req, _ := http.NewRequest(http.MethodDelete, "/reviews/"+reviewID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// Повторное удаление того же отзыва возвращает 404
func TestDeleteReviewHandler_AlreadyDeleted(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)

	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
	reviewID := uuid.New()
	mockService.On("DeleteReview", mock.Anything, principal, reviewID).Return(service.ErrReviewNotFound)

	router.DELETE("/reviews/:id", injectPrincipal(principal), handler.DeleteReview)

	req, _ := http.NewRequest(http.MethodDelete, "/reviews/"+reviewID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetReviewsByProductHandler_Success(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)

	productID := uuid.New()
	reviews := []entity.Review{
		{ID: uuid.New(), ProductID: productID, Grade: 5, IsActive: true},
		{ID: uuid.New(), ProductID: productID, Grade: 4, IsActive: true},
	}
	mockService.On("GetReviewsByProduct", mock.Anything, productID).Return(reviews, nil)

	router.GET("/reviews/product/:product_id", handler.GetReviewsByProduct)

	req, _ := http.NewRequest(http.MethodGet, "/reviews/product/"+productID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.ReviewListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Total)
}

func TestGetReviewsByProductHandler_ProductNotFound(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockReviewService)
	handler := NewReviewHandler(mockService)

	productID := uuid.New()
	mockService.On("GetReviewsByProduct", mock.Anything, productID).Return(nil, service.ErrProductNotFound)

	router.GET("/reviews/product/:product_id", handler.GetReviewsByProduct)

	req, _ := http.NewRequest(http.MethodGet, "/reviews/product/"+productID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
