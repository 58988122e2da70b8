package repository

import (
	"time"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error)
	ListByBusiness(businessID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
	// LastReceiptNumber devuelve el número de recibo más alto emitido para el
	// negocio en el día indicado, o "" si no hay ventas ese día. Debe llamarse
	// con el bloqueo del negocio tomado (BusinessRepository.GetForUpdate) para
	// que dos ventas concurrentes no lean el mismo consecutivo.
	LastReceiptNumber(businessID string, day time.Time) (string, error)
}
