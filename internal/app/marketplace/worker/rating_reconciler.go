package worker

import (
	"context"

	"berrymarket/internal/app/marketplace/repository"
	"berrymarket/pkg/logger"
	"berrymarket/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// RatingReconciler периодически пересчитывает рейтинги всех товаров.
// Страховка на случай расхождения агрегата с таблицей отзывов.
type RatingReconciler struct {
	cron        *cron.Cron
	productRepo repository.ProductRepository
}

// NewRatingReconciler создает новый фоновый пересчётчик рейтингов
func NewRatingReconciler(productRepo repository.ProductRepository) *RatingReconciler {
	return &RatingReconciler{
		cron:        cron.New(),
		productRepo: productRepo,
	}
}

// Start регистрирует задачу по расписанию и запускает планировщик.
// Перед запуском выполняется немедленный полный пересчёт.
func (r *RatingReconciler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("starting rating reconciler")

	_, err := r.cron.AddFunc(schedule, func() {
		r.reconcile(ctx)
	})
	if err != nil {
		return err
	}

	r.cron.Start()

	r.reconcile(ctx)

	return nil
}

// Stop останавливает планировщик и дожидается завершения текущих задач
func (r *RatingReconciler) Stop() {
	logger.Info().Msg("stopping rating reconciler")
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	logger.Info().Msg("rating reconciler stopped")
}

// Entries возвращает зарегистрированные задачи планировщика
func (r *RatingReconciler) Entries() []cron.Entry {
	return r.cron.Entries()
}

func (r *RatingReconciler) reconcile(ctx context.Context) {
	updated, err := r.productRepo.RecomputeAllRatings(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to recompute product ratings")
		return
	}

	metrics.RatingRecomputes.WithLabelValues("reconciler").Inc()
	logger.Debug().Int64("products", updated).Msg("product ratings reconciled")
}
