package service

import "errors"

// Ошибки бизнес-логики для обработки в handlers
// NotFound-семейство: сущность отсутствует или уже логически удалена.
// Валидационные и ролевые ошибки возникают до любой записи в базу
var (
	ErrCategoryNotFound = errors.New("category not found or inactive")
	ErrParentNotFound   = errors.New("parent category not found or inactive")
	ErrSelfParent       = errors.New("category cannot be its own parent")

	ErrProductNotFound = errors.New("product not found or inactive")
	ErrNotProductOwner = errors.New("product belongs to another seller")

	ErrReviewNotFound = errors.New("review not found or inactive")
	ErrInvalidGrade   = errors.New("grade must be between 1 and 5")

	ErrForbiddenRole = errors.New("operation is not allowed for this role")

	ErrUserExists         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
