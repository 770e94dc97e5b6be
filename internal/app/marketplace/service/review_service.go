package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"berrymarket/internal/app/marketplace/entity"
	"berrymarket/internal/app/marketplace/repository"
	"berrymarket/internal/app/marketplace/util"
	"berrymarket/pkg/logger"
	"berrymarket/pkg/metrics"

	"github.com/google/uuid"
)

// ReviewService обрабатывает жизненный цикл отзывов
// Создание доступно только buyer, логическое удаление - только admin.
// Репозиторий пересчитывает рейтинг товара в той же транзакции, что
// и запись отзыва, поэтому отдельного шага пересчёта здесь нет
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	productRepo   repository.ProductRepository
	kafkaProducer util.MessagePublisher
}

// NewReviewService создает новый сервис отзывов
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	kafkaProducer util.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		productRepo:   productRepo,
		kafkaProducer: kafkaProducer,
	}
}

// GetAllReviews возвращает все активные отзывы
func (s *ReviewService) GetAllReviews(ctx context.Context) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return reviews, nil
}

// GetReviewsByProduct возвращает активные отзывы активного товара
func (s *ReviewService) GetReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Review, error) {
	if _, err := s.productRepo.GetActiveByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	reviews, err := s.reviewRepo.GetActiveByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return reviews, nil
}

// CreateReview создает отзыв покупателя
// Все предусловия проверяются до записи: роль buyer, grade в [1,5]
// (повторно к валидатору на входе - CHECK в базе остаётся третьей
// линией), товар существует и активен
func (s *ReviewService) CreateReview(ctx context.Context, principal entity.Principal, req *entity.CreateReviewRequest) (*entity.Review, error) {
	if principal.Role != entity.RoleBuyer {
		return nil, ErrForbiddenRole
	}

	if req.Grade < 1 || req.Grade > 5 {
		return nil, ErrInvalidGrade
	}

	if _, err := s.productRepo.GetActiveByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	review := &entity.Review{
		ID:          uuid.New(),
		UserID:      principal.UserID,
		ProductID:   req.ProductID,
		Comment:     req.Comment,
		CommentDate: time.Now(),
		Grade:       req.Grade,
		IsActive:    true,
	}

	// Вставка отзыва и пересчёт рейтинга - одна транзакция
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	metrics.RatingRecomputes.WithLabelValues("review").Inc()

	s.publishReviewEvent(ctx, entity.ReviewEvent{
		EventType: "REVIEW_CREATED",
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Grade:     review.Grade,
		Timestamp: time.Now(),
	})

	return review, nil
}

// DeleteReview логически удаляет отзыв, доступно только admin
// Удаление не идемпотентно: повторная попытка даёт ErrReviewNotFound
func (s *ReviewService) DeleteReview(ctx context.Context, principal entity.Principal, reviewID uuid.UUID) error {
	if principal.Role != entity.RoleAdmin {
		return ErrForbiddenRole
	}

	review, err := s.reviewRepo.GetActiveByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	if _, err := s.productRepo.GetActiveByID(ctx, review.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	// Пометка и пересчёт рейтинга - одна транзакция
	if err := s.reviewRepo.SoftDelete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}

	metrics.ReviewsDeleted.Inc()
	metrics.RatingRecomputes.WithLabelValues("review").Inc()

	s.publishReviewEvent(ctx, entity.ReviewEvent{
		EventType: "REVIEW_DELETED",
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Grade:     review.Grade,
		Timestamp: time.Now(),
	})

	return nil
}

// publishReviewEvent отправляет событие об отзыве в Kafka
// Отзыв уже закоммичен, проблемы с Kafka не критичны для операции
func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) {
	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal review event")
		return
	}

	// Ключ = ReviewID для партиционирования
	if err := s.kafkaProducer.PublishMessage(ctx, event.ReviewID.String(), eventData); err != nil {
		logger.Warn().
			Err(err).
			Str("event_type", event.EventType).
			Str("review_id", event.ReviewID.String()).
			Msg("failed to publish review event")
	}
}
