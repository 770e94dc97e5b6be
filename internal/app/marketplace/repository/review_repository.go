package repository

import (
	"context"
	"errors"
	"fmt"

	"berrymarket/internal/app/marketplace/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository создает новый репозиторий отзывов
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create вставляет отзыв и пересчитывает рейтинг товара в одной транзакции.
// Единая граница коммита: читатель никогда не увидит закоммиченный отзыв
// без его эффекта на рейтинг
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		if err := tx.Exec(recomputeRatingSQL, review.ProductID, review.ProductID).Error; err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// GetActiveByID получает активный отзыв по ID
func (r *reviewRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	result := r.db.WithContext(ctx).First(&review, "id = ? AND is_active = ?", id, true)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, result.Error
	}

	return &review, nil
}

// GetAllActive получает все активные отзывы, новые первыми
func (r *reviewRepository) GetAllActive(ctx context.Context) ([]entity.Review, error) {
	var reviews []entity.Review
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("comment_date DESC").
		Find(&reviews)

	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

// GetActiveByProduct получает активные отзывы по товару, новые первыми
func (r *reviewRepository) GetActiveByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Review, error) {
	var reviews []entity.Review
	result := r.db.WithContext(ctx).
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("comment_date DESC").
		Find(&reviews)

	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

// SoftDelete помечает активный отзыв неактивным и пересчитывает рейтинг
// товара в той же транзакции. Повторное удаление не no-op: guard по
// is_active даёт ноль затронутых строк и ErrReviewNotFound
func (r *reviewRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review entity.Review
		if err := tx.First(&review, "id = ? AND is_active = ?", id, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("failed to get review: %w", err)
		}

		result := tx.Model(&entity.Review{}).
			Where("id = ? AND is_active = ?", id, true).
			Update("is_active", false)
		if result.Error != nil {
			return fmt.Errorf("failed to delete review: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrReviewNotFound
		}

		if err := tx.Exec(recomputeRatingSQL, review.ProductID, review.ProductID).Error; err != nil {
			return fmt.Errorf("failed to recompute rating: %w", err)
		}

		return nil
	})
}
