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

func TestGetAllCategoriesHandler_Success(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockCategoryService)
	handler := NewCategoryHandler(mockService)

	categories := []entity.Category{
		{ID: uuid.New(), Name: "Electronics", IsActive: true},
		{ID: uuid.New(), Name: "Books", IsActive: true},
	}
	mockService.On("GetAllCategories", mock.Anything).Return(categories, nil)

	router.GET("/categories", handler.GetAllCategories)

	req, _ := http.NewRequest(http.MethodGet, "/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.CategoryListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Total)
}

func TestCreateCategoryHandler_Success(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockCategoryService)
	handler := NewCategoryHandler(mockService)

	created := &entity.Category{ID: uuid.New(), Name: "Electronics", IsActive: true}
	mockService.On("CreateCategory", mock.Anything, mock.AnythingOfType("*entity.CreateCategoryRequest")).Return(created, nil)

	router.POST("/categories", handler.CreateCategory)

	body, _ := json.Marshal(entity.CreateCategoryRequest{Name: "Electronics"})
	req, _ := http.NewRequest(http.MethodPost, "/categories", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateCategoryHandler_ParentNotFound(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockCategoryService)
	handler := NewCategoryHandler(mockService)

	mockService.On("CreateCategory", mock.Anything, mock.Anything).Return(nil, service.ErrParentNotFound)

	router.POST("/categories", handler.CreateCategory)

	parentID := uuid.New()
	body, _ := json.Marshal(entity.CreateCategoryRequest{Name: "Laptops", ParentID: &parentID})
	req, _ := http.NewRequest(http.MethodPost, "/categories", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCategoryHandler_ValidationError(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockCategoryService)
	handler := NewCategoryHandler(mockService)

	router.POST("/categories", handler.CreateCategory)

	// Имя короче двух символов
	body, _ := json.Marshal(entity.CreateCategoryRequest{Name: "A"})
	req, _ := http.NewRequest(http.MethodPost, "/categories", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
}

func TestUpdateCategoryHandler_SelfParent(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockCategoryService)
	handler := NewCategoryHandler(mockService)

	id := uuid.New()
	mockService.On("UpdateCategory", mock.Anything, id, mock.Anything).Return(nil, service.ErrSelfParent)

	router.PUT("/categories/:id", handler.UpdateCategory)

	body, _ := json.Marshal(entity.UpdateCategoryRequest{ParentID: &id})
	req, _ := http.NewRequest(http.MethodPut, "/categories/"+id.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCategoryHandler_NotFound(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockCategoryService)
	handler := NewCategoryHandler(mockService)

	id := uuid.New()
	mockService.On("UpdateCategory", mock.Anything, id, mock.Anything).Return(nil, service.ErrCategoryNotFound)

	router.PUT("/categories/:id", handler.UpdateCategory)

	name := "Gadgets"
	body, _ := json.Marshal(entity.UpdateCategoryRequest{Name: &name})
	req, _ := http.NewRequest(http.MethodPut, "/categories/"+id.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateCategoryHandler_InvalidID(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockCategoryService)
	handler := NewCategoryHandler(mockService)

	router.PUT("/categories/:id", handler.UpdateCategory)

	name := "Gadgets"
	body, _ := json.Marshal(entity.UpdateCategoryRequest{Name: &name})
	req, _ := http.NewRequest(http.MethodPut, "/categories/not-a-uuid", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCategoryHandler_Success(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockCategoryService)
	handler := NewCategoryHandler(mockService)

	id := uuid.New()
	mockService.On("DeleteCategory", mock.Anything, id).Return(nil)

	router.DELETE("/categories/:id", handler.DeleteCategory)

	req, _ := http.NewRequest(http.MethodDelete, "/categories/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// Повторное удаление той же категории возвращает 404
func TestDeleteCategoryHandler_AlreadyDeleted(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockCategoryService)
	handler := NewCategoryHandler(mockService)

	id := uuid.New()
	mockService.On("DeleteCategory", mock.Anything, id).Return(service.ErrCategoryNotFound)

	router.DELETE("/categories/:id", handler.DeleteCategory)

	req, _ := http.NewRequest(http.MethodDelete, "/categories/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
