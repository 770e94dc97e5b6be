package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"berrymarket/internal/app/marketplace/entity"
	"berrymarket/internal/app/marketplace/repository"
	"berrymarket/internal/app/marketplace/util"
	"berrymarket/pkg/logger"

	"github.com/google/uuid"
)

// categoriesCacheTTL - время жизни кеша списка активных категорий
const categoriesCacheTTL = time.Hour

// CategoryService поддерживает дерево категорий
// Инварианты: родитель существует и активен, категория не может быть
// собственным родителем. Циклы длиннее одного ребра (A→B→A) не
// обнаруживаются - известное ограничение. Логическое удаление не
// каскадирует: подкатегории остаются активными, их видимость
// ограничивают только выборки по активной категории
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cache        util.CategoryCache
}

// NewCategoryService создает новый сервис категорий
func NewCategoryService(categoryRepo repository.CategoryRepository, cache util.CategoryCache) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

// GetAllCategories возвращает активные категории с кешированием в Redis
// Сначала проверяет кеш, при промахе загружает из БД и кеширует
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.cache.GetCategories(ctx)
	if err == nil && categories != nil {
		return categories, nil
	}

	categories, err = s.categoryRepo.GetAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if err := s.cache.SetCategories(ctx, categories, categoriesCacheTTL); err != nil {
		// Данные получены из БД, проблемы с кешем не критичны
		logger.Warn().Err(err).Msg("failed to cache categories")
	}

	return categories, nil
}

// CreateCategory создает категорию, при указании parent_id родитель
// должен существовать и быть активным
func (s *CategoryService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	if req.ParentID != nil {
		if err := s.requireActiveParent(ctx, *req.ParentID); err != nil {
			return nil, err
		}
	}

	category := &entity.Category{
		ID:       uuid.New(),
		ParentID: req.ParentID,
		Name:     req.Name,
		IsActive: true,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateCache(ctx)

	return category, nil
}

// UpdateCategory применяет частичное обновление: только переданные поля.
// Новый родитель должен существовать, быть активным и не совпадать
// с самой категорией
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, ErrSelfParent
		}
		if err := s.requireActiveParent(ctx, *req.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = req.ParentID
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	// Перечитываем строку после коммита
	category, err = s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload category: %w", err)
	}

	s.invalidateCache(ctx)

	return category, nil
}

// DeleteCategory помечает активную категорию неактивной
// Подкатегории и товары не затрагиваются
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidateCache(ctx)

	return nil
}

// requireActiveParent проверяет что родительская категория существует
// и активна; неактивный родитель неотличим от отсутствующего
func (s *CategoryService) requireActiveParent(ctx context.Context, parentID uuid.UUID) error {
	parent, err := s.categoryRepo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrParentNotFound
		}
		return fmt.Errorf("failed to verify parent category: %w", err)
	}
	if !parent.IsActive {
		return ErrParentNotFound
	}
	return nil
}

func (s *CategoryService) invalidateCache(ctx context.Context) {
	if err := s.cache.DeleteCategories(ctx); err != nil {
		// Мутация уже закоммичена, проблемы с кешем не критичны
		logger.Warn().Err(err).Msg("failed to invalidate categories cache")
	}
}
