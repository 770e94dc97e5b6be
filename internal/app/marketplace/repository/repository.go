package repository

import (
	"context"
	"errors"

	"berrymarket/internal/app/marketplace/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("user with this email already exists")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	// GetByID возвращает категорию независимо от is_active:
	// активность проверяет вызывающая сторона
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetAllActive(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// SoftDelete помечает активную категорию неактивной;
	// для отсутствующей или уже неактивной возвращает ErrCategoryNotFound
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetActiveByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetAllActive возвращает активные товары с положительным остатком
	// в активных категориях
	GetAllActive(ctx context.Context) ([]entity.Product, error)
	GetActiveByCategory(ctx context.Context, categoryID uuid.UUID) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// RecomputeRating пересчитывает рейтинг товара одним UPDATE
	// со средним grade по активным отзывам (0 если их нет)
	RecomputeRating(ctx context.Context, productID uuid.UUID) error
	// RecomputeAllRatings пересчитывает рейтинги всех товаров,
	// возвращает число обновлённых строк
	RecomputeAllRatings(ctx context.Context) (int64, error)
}

type ReviewRepository interface {
	// Create вставляет отзыв и пересчитывает рейтинг товара
	// в одной транзакции
	Create(ctx context.Context, review *entity.Review) error
	GetActiveByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	GetAllActive(ctx context.Context) ([]entity.Review, error)
	GetActiveByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Review, error)
	// SoftDelete помечает активный отзыв неактивным и пересчитывает
	// рейтинг товара в одной транзакции; повторное удаление
	// возвращает ErrReviewNotFound
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
