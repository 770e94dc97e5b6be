package repository

import (
	"context"
	"errors"

	"berrymarket/internal/app/marketplace/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recomputeRatingSQL пересчитывает рейтинг товара одним атомарным UPDATE:
// среднее grade по активным отзывам, 0 если их нет (COALESCE, не NULL).
// Блокировка строки products сериализует конкурентные пересчёты -
// read-then-write гонки lost update здесь нет
const recomputeRatingSQL = `
	UPDATE products
	SET rating = COALESCE(
		(SELECT AVG(grade) FROM reviews WHERE product_id = ? AND is_active = TRUE),
		0
	)
	WHERE id = ?`

// recomputeAllRatingsSQL - та же формула для всех товаров сразу,
// используется фоновым reconciler
const recomputeAllRatingsSQL = `
	UPDATE products
	SET rating = COALESCE(
		(SELECT AVG(grade) FROM reviews
		 WHERE reviews.product_id = products.id AND reviews.is_active = TRUE),
		0
	)`

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create создает новый товар
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Create(product)
	return result.Error
}

// GetActiveByID получает активный товар по ID
// Неактивный товар неотличим от отсутствующего
func (r *productRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).First(&product, "id = ? AND is_active = ?", id, true)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &product, nil
}

// GetAllActive получает активные товары с остатком на складе
// в активных категориях
func (r *productRepository) GetAllActive(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Joins("JOIN categories ON categories.id = products.category_id AND categories.is_active = ?", true).
		Where("products.is_active = ? AND products.stock > 0", true).
		Order("products.created_at DESC").
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// GetActiveByCategory получает активные товары указанной категории
// Активность самой категории проверяет service layer
func (r *productRepository) GetActiveByCategory(ctx context.Context, categoryID uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("created_at DESC").
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// Update сохраняет изменённые поля товара
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"stock":       product.Stock,
			"category_id": product.CategoryID,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// SoftDelete помечает активный товар неактивным
func (r *productRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// RecomputeRating пересчитывает рейтинг одного товара
func (r *productRepository) RecomputeRating(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(recomputeRatingSQL, productID, productID).Error
}

// RecomputeAllRatings пересчитывает рейтинги всех товаров
func (r *productRepository) RecomputeAllRatings(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(recomputeAllRatingsSQL)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
