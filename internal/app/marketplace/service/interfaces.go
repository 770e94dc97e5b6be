package service

import (
	"context"

	"berrymarket/internal/app/marketplace/entity"

	"github.com/google/uuid"
)

type CategoryServiceInterface interface {
	GetAllCategories(ctx context.Context) ([]entity.Category, error)
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type ProductServiceInterface interface {
	GetAllProducts(ctx context.Context) ([]entity.Product, error)
	GetProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	CreateProduct(ctx context.Context, principal entity.Principal, req *entity.CreateProductRequest) (*entity.Product, error)
	UpdateProduct(ctx context.Context, principal entity.Principal, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, principal entity.Principal, id uuid.UUID) error
}

type ReviewServiceInterface interface {
	GetAllReviews(ctx context.Context) ([]entity.Review, error)
	GetReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Review, error)
	CreateReview(ctx context.Context, principal entity.Principal, req *entity.CreateReviewRequest) (*entity.Review, error)
	DeleteReview(ctx context.Context, principal entity.Principal, reviewID uuid.UUID) error
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
