package repository

import (
	"time"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// StockLogRepository define el puerto de persistencia para la bitácora de
// stock. Solo inserta y consulta: las entradas son inmutables (auditoría).
type StockLogRepository interface {
	Create(log *entity.StockLog) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLog, error)
	// ListByBusiness filtra por acción y rango de fechas. action vacío = todas.
	ListByBusiness(businessID, action string, from, to *time.Time, limit, offset int) ([]*entity.StockLog, error)
}
