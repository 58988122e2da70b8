package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// BusinessRepository define el puerto de persistencia para Business.
type BusinessRepository interface {
	Create(business *entity.Business) error
	GetByID(id string) (*entity.Business, error)
	// GetForUpdate bloquea la fila del negocio (SELECT FOR UPDATE). Es el punto
	// de serialización de la asignación de números de recibo.
	GetForUpdate(id string) (*entity.Business, error)
	List(limit, offset int) ([]*entity.Business, error)
}
