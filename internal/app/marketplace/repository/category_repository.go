package repository

import (
	"context"
	"errors"
	"fmt"

	"berrymarket/internal/app/marketplace/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type categoryRepository struct {
	db *pgxpool.Pool // Пул соединений с PostgreSQL
}

// NewCategoryRepository создает новый репозиторий категорий
func NewCategoryRepository(db *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create создает новую категорию в PostgreSQL
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categories (id, parent_id, name, is_active)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, category.ID, category.ParentID, category.Name, category.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			// Гонка: родитель удалён физически между проверкой и вставкой
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID получает категорию по ID, включая неактивные
// Нужна для проверки существования родителя: удалённый родитель
// остаётся в таблице с is_active=false
func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	query := `SELECT id, parent_id, name, is_active FROM categories WHERE id = $1`

	var category entity.Category
	err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.ParentID,
		&category.Name,
		&category.IsActive,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}

	return &category, nil
}

// GetAllActive получает все активные категории
// Результат кешируется в Redis на уровне service layer
func (r *categoryRepository) GetAllActive(ctx context.Context) ([]entity.Category, error) {
	query := `SELECT id, parent_id, name, is_active FROM categories WHERE is_active = TRUE ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	var categories []entity.Category
	for rows.Next() {
		var category entity.Category
		if err := rows.Scan(&category.ID, &category.ParentID, &category.Name, &category.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Update перезаписывает изменяемые поля категории
// Частичность обновления обеспечивает service layer: он читает текущую
// строку и применяет только переданные поля
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	query := `
		UPDATE categories
		SET parent_id = $1, name = $2, is_active = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(ctx, query, category.ParentID, category.Name, category.IsActive, category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// SoftDelete помечает категорию неактивной
// Каскада нет: подкатегории и товары остаются активными и отфильтровываются
// только в выборках по активной категории
func (r *categoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE categories SET is_active = FALSE WHERE id = $1 AND is_active = TRUE`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	// Нет активной строки - значит категории нет или она уже удалена
	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
