package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"berrymarket/internal/app/marketplace/entity"
	"berrymarket/internal/app/marketplace/repository"

	"github.com/google/uuid"
)

// ProductService обрабатывает бизнес-логику товаров
// Мутации доступны только продавцу-владельцу; категория товара должна
// быть активной на каждом пути чтения и записи
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService создает новый сервис товаров
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// GetAllProducts возвращает активные товары с остатком на складе
// в активных категориях
func (s *ProductService) GetAllProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.GetAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetProductsByCategory возвращает активные товары категории
// Сама категория должна существовать и быть активной
func (s *ProductService) GetProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]entity.Product, error) {
	if err := s.requireActiveCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	products, err := s.productRepo.GetActiveByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by category: %w", err)
	}

	return products, nil
}

// GetProduct возвращает активный товар; его категория тоже должна
// быть активной
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if err := s.requireActiveCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	return product, nil
}

// CreateProduct создает товар от имени продавца
// Категория должна существовать и быть активной
func (s *ProductService) CreateProduct(ctx context.Context, principal entity.Principal, req *entity.CreateProductRequest) (*entity.Product, error) {
	if principal.Role != entity.RoleSeller {
		return nil, ErrForbiddenRole
	}

	if err := s.requireActiveCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product := &entity.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Rating:      0, // товар без отзывов имеет рейтинг 0, не NULL
		CategoryID:  req.CategoryID,
		SellerID:    principal.UserID,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// UpdateProduct применяет частичное обновление товара
// Только продавец-владелец; новая категория должна быть активной
func (s *ProductService) UpdateProduct(ctx context.Context, principal entity.Principal, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error) {
	if principal.Role != entity.RoleSeller {
		return nil, ErrForbiddenRole
	}

	product, err := s.productRepo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product.SellerID != principal.UserID {
		return nil, ErrNotProductOwner
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		if err := s.requireActiveCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *req.CategoryID
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct помечает товар неактивным
// Только продавец-владелец; категория товара должна быть активной
func (s *ProductService) DeleteProduct(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	if principal.Role != entity.RoleSeller {
		return ErrForbiddenRole
	}

	product, err := s.productRepo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if product.SellerID != principal.UserID {
		return ErrNotProductOwner
	}

	if err := s.requireActiveCategory(ctx, product.CategoryID); err != nil {
		return err
	}

	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

// requireActiveCategory проверяет что категория существует и активна
func (s *ProductService) requireActiveCategory(ctx context.Context, categoryID uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to verify category: %w", err)
	}
	if !category.IsActive {
		return ErrCategoryNotFound
	}
	return nil
}
