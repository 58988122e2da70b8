package inventory

import (
	"context"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// actualización del producto y entrada de bitácora se confirman o revierten
// juntas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		logRepo repository.StockLogRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Notifier recibe alertas de stock bajo. Mejor esfuerzo: se invoca fuera de la
// transacción, después del commit, y sus fallos nunca afectan la mutación.
type Notifier interface {
	NotifyLowStock(business *entity.Business, product *entity.Product)
}
