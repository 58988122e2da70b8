package sales

import (
	"context"
	"time"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// SaleTxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita una venta. El coordinador abre una sola
// transacción para: bloqueo del negocio, consecutivo de recibo, descuento de
// stock por línea, cabecera y líneas de venta. Todo o nada.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		logRepo repository.StockLogRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		businessRepo repository.BusinessRepository,
	) error) error
}

// StockMutator descuenta stock por una línea de venta dentro de la transacción
// del llamador. Implementado por inventory.StockUseCase: es la única puerta al
// campo stock_quantity y a la bitácora.
type StockMutator interface {
	ApplySaleInTx(
		logRepo repository.StockLogRepository,
		productRepo repository.ProductRepository,
		businessID, actorID, productID string,
		quantity int64,
		now time.Time,
		receiptNumber string,
	) (*entity.StockLog, *entity.Product, error)
}

// LowStockDispatcher despacha alertas de stock bajo después del commit.
type LowStockDispatcher interface {
	DispatchLowStockAlerts(products []*entity.Product)
}

// SaleItemForPDF línea de venta enriquecida con el nombre del producto para la
// representación impresa del recibo.
type SaleItemForPDF struct {
	entity.SaleItem
	ProductName string
	Unit        string
}

// ReceiptPDFGenerator genera el PDF del recibo de una venta.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, business *entity.Business, items []SaleItemForPDF) ([]byte, error)
}
