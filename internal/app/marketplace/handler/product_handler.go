package handler

import (
	"errors"
	"net/http"

	"berrymarket/internal/app/marketplace/entity"
	"berrymarket/internal/app/marketplace/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProductHandler обрабатывает HTTP запросы для товаров
type ProductHandler struct {
	productService service.ProductServiceInterface
	validator      *validator.Validate
}

// NewProductHandler создает новый обработчик товаров
func NewProductHandler(productService service.ProductServiceInterface) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
	}
}

// GetAllProducts обрабатывает GET /products
func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	products, err := h.productService.GetAllProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get products"})
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

// GetProductsByCategory обрабатывает GET /products/category/:category_id
func (h *ProductHandler) GetProductsByCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("category_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	products, err := h.productService.GetProductsByCategory(c.Request.Context(), categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found or inactive"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get products"})
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

// GetProduct обрабатывает GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found or inactive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product"})
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct обрабатывает POST /products (роль seller)
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), principal, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbiddenRole):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only sellers can create products"})
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found or inactive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		}
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct обрабатывает PUT /products/:id (только владелец)
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req entity.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), principal, id, &req)
	if err != nil {
		h.respondProductMutationError(c, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct обрабатывает DELETE /products/:id (только владелец)
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), principal, id); err != nil {
		h.respondProductMutationError(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Product marked as inactive",
	})
}

// respondProductMutationError мапит ошибки мутаций товара на HTTP статусы
func (h *ProductHandler) respondProductMutationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, service.ErrForbiddenRole):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only sellers can modify products"})
	case errors.Is(err, service.ErrNotProductOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only modify your own products"})
	case errors.Is(err, service.ErrCategoryNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found or inactive"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
