package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// StockUseCase es el único punto de entrada para mutar stock_quantity.
// Cada mutación bloquea la fila del producto (SELECT FOR UPDATE), valida que el
// resultado no sea negativo y escribe la entrada de bitácora en la misma
// transacción, de modo que stock y bitácora nunca divergen.
type StockUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	businessRepo repository.BusinessRepository
	notifier     Notifier
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	businessRepo repository.BusinessRepository,
	notifier Notifier,
) *StockUseCase {
	return &StockUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		businessRepo: businessRepo,
		notifier:     notifier,
	}
}

// ChangeInput entrada para aplicar un cambio de stock.
// Delta con signo y distinto de cero. BuyingPrice/SellingPrice son snapshots
// opcionales para la bitácora; si vienen nil se toman los precios del producto.
type ChangeInput struct {
	BusinessID   string
	ActorID      string
	ProductID    string
	Action       string // entity.Action*
	Delta        int64
	BuyingPrice  *decimal.Decimal
	SellingPrice *decimal.Decimal
	Note         string
	Reference    string
}

// ApplyChange abre una transacción, aplica el cambio y confirma. Si el stock
// resultante sería negativo retorna domain.ErrInsufficientStock y no persiste
// nada. La alerta de stock bajo se despacha después del commit.
func (uc *StockUseCase) ApplyChange(ctx context.Context, in ChangeInput) (*entity.StockLog, error) {
	if in.Delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}

	// Validar pertenencia fuera de la tx (solo lectura)
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.BusinessID != in.BusinessID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var logEntry *entity.StockLog
	var mutated *entity.Product
	err = uc.txRunner.Run(ctx, func(
		logRepo repository.StockLogRepository,
		productRepo repository.ProductRepository,
	) error {
		logEntry, mutated, err = applyChangeInTx(logRepo, productRepo, in, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.dispatchLowStockAlert(mutated)
	return logEntry, nil
}

// ApplySaleInTx descuenta stock por una línea de venta usando los repositorios
// de la transacción del llamador (el coordinador de ventas). Devuelve la
// entrada de bitácora y el producto ya bloqueado, con el precio de venta
// vigente para congelarlo en la línea.
func (uc *StockUseCase) ApplySaleInTx(
	logRepo repository.StockLogRepository,
	productRepo repository.ProductRepository,
	businessID, actorID, productID string,
	quantity int64,
	now time.Time,
	receiptNumber string,
) (*entity.StockLog, *entity.Product, error) {
	if quantity <= 0 {
		return nil, nil, domain.ErrInvalidLine
	}
	in := ChangeInput{
		BusinessID: businessID,
		ActorID:    actorID,
		ProductID:  productID,
		Action:     entity.ActionSale,
		Delta:      -quantity,
		Note:       "Venta recibo " + receiptNumber,
		Reference:  receiptNumber,
	}
	return applyChangeInTx(logRepo, productRepo, in, now)
}

// ApplyInitialInTx registra el stock de apertura de un producto recién creado
// dentro de la transacción de creación. El producto nace con stock cero y la
// bitácora explica cada unidad desde el origen.
func (uc *StockUseCase) ApplyInitialInTx(
	logRepo repository.StockLogRepository,
	productRepo repository.ProductRepository,
	businessID, actorID, productID string,
	quantity int64,
	now time.Time,
) (*entity.StockLog, *entity.Product, error) {
	if quantity <= 0 {
		return nil, nil, domain.ErrInvalidQuantity
	}
	in := ChangeInput{
		BusinessID: businessID,
		ActorID:    actorID,
		ProductID:  productID,
		Action:     entity.ActionInitial,
		Delta:      quantity,
		Note:       "Stock de apertura",
	}
	return applyChangeInTx(logRepo, productRepo, in, now)
}

// applyChangeInTx es el mutador: bloquea la fila del producto, calcula el nuevo
// stock, rechaza resultados negativos y persiste producto + bitácora. Ambas
// escrituras viven en la transacción del llamador; cualquier error revierte
// las dos.
func applyChangeInTx(
	logRepo repository.StockLogRepository,
	productRepo repository.ProductRepository,
	in ChangeInput,
	now time.Time,
) (*entity.StockLog, *entity.Product, error) {
	if in.Delta == 0 {
		return nil, nil, domain.ErrInvalidQuantity
	}

	// Bloquea la fila (SELECT FOR UPDATE): dos mutaciones concurrentes sobre el
	// mismo producto se serializan aquí
	product, err := productRepo.GetForUpdate(in.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil || product.BusinessID != in.BusinessID {
		return nil, nil, domain.ErrNotFound
	}

	previous := product.StockQuantity
	newStock := previous + in.Delta
	if newStock < 0 {
		return nil, nil, domain.ErrInsufficientStock
	}

	if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
		return nil, nil, err
	}
	product.StockQuantity = newStock

	buying := in.BuyingPrice
	if buying == nil {
		b := product.BuyingPrice
		buying = &b
	}
	selling := in.SellingPrice
	if selling == nil {
		s := product.SellingPrice
		selling = &s
	}
	logEntry := &entity.StockLog{
		ID:             uuid.New().String(),
		ProductID:      product.ID,
		Action:         in.Action,
		QuantityChange: in.Delta,
		PreviousStock:  previous,
		NewStock:       newStock,
		BuyingPrice:    buying,
		SellingPrice:   selling,
		Notes:          in.Note,
		Reference:      in.Reference,
		CreatedBy:      in.ActorID,
		CreatedAt:      now,
	}
	if err := logRepo.Create(logEntry); err != nil {
		return nil, nil, err
	}
	return logEntry, product, nil
}

// dispatchLowStockAlert despacha la alerta en una goroutine si el producto
// quedó en o bajo su umbral. Nunca dentro de la transacción: no retiene el
// bloqueo de la fila y sus fallos se ignoran.
func (uc *StockUseCase) dispatchLowStockAlert(product *entity.Product) {
	if product == nil || uc.notifier == nil || !product.IsLowStock() {
		return
	}
	p := *product
	go func() {
		business, err := uc.businessRepo.GetByID(p.BusinessID)
		if err != nil || business == nil {
			return
		}
		uc.notifier.NotifyLowStock(business, &p)
	}()
}

// DispatchLowStockAlerts versión para el coordinador de ventas: recibe los
// productos afectados por una venta ya confirmada.
func (uc *StockUseCase) DispatchLowStockAlerts(products []*entity.Product) {
	for _, p := range products {
		uc.dispatchLowStockAlert(p)
	}
}
