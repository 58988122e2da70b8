package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	ListByBusiness(businessID string) ([]*entity.Category, error)
	Delete(id string) error
}
