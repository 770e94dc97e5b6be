package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role - закрытый набор ролей пользователей
// Сравниваем только с константами ниже, сырые строки из запросов
// проходят через IsValid
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// IsValid проверяет что роль входит в закрытый набор
func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// Principal - аутентифицированный пользователь, извлечённый из JWT
// Передаётся из middleware в service layer для проверки ролей и владения
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// User представляет пользователя системы
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	PasswordHash string    `json:"-"` // не возвращаем в JSON
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// Category представляет узел дерева категорий
// parent_id == nil означает корневую категорию
// Удаление всегда логическое: is_active=false, строка остаётся
type Category struct {
	ID       uuid.UUID  `json:"id" db:"id"`
	ParentID *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	Name     string     `json:"name" db:"name"`
	IsActive bool       `json:"is_active" db:"is_active"`
}

// Product представляет товар продавца
// Rating - производное поле: среднее grade по активным отзывам товара,
// 0 если активных отзывов нет; пересчитывается в одной транзакции
// с созданием/удалением отзыва
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Rating      float64   `json:"rating"`
	CategoryID  uuid.UUID `json:"category_id" gorm:"type:uuid"`
	SellerID    uuid.UUID `json:"seller_id" gorm:"type:uuid"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Product) TableName() string { return "products" }

// Review представляет отзыв покупателя о товаре
// Grade строго в [1,5]: проверяется валидатором на входе, сервисом
// и CHECK constraint в базе
type Review struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid"`
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid"`
	Comment     string    `json:"comment,omitempty"`
	CommentDate time.Time `json:"comment_date"`
	Grade       int       `json:"grade"`
	IsActive    bool      `json:"is_active"`
}

func (Review) TableName() string { return "reviews" }

// ReviewEvent представляет событие жизненного цикла отзыва для Kafka
type ReviewEvent struct {
	EventType string    `json:"event_type"` // REVIEW_CREATED, REVIEW_DELETED
	ReviewID  uuid.UUID `json:"review_id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Grade     int       `json:"grade"`
	Timestamp time.Time `json:"timestamp"`
}
