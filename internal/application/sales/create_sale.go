package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// CreateSaleUseCase coordina ventas multi-línea: valida las líneas, asigna el
// número de recibo bajo el bloqueo del negocio, descuenta stock por línea vía
// el mutador y confirma todo en una sola transacción. Si cualquier línea falla
// (por ejemplo stock insuficiente) no persiste nada: ni venta, ni líneas, ni
// entradas de bitácora, ni cambios de stock.
type CreateSaleUseCase struct {
	txRunner    SaleTxRunner
	productRepo repository.ProductRepository
	mutator     StockMutator
	dispatcher  LowStockDispatcher
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner SaleTxRunner,
	productRepo repository.ProductRepository,
	mutator StockMutator,
	dispatcher LowStockDispatcher,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		mutator:     mutator,
		dispatcher:  dispatcher,
	}
}

// CreateSale crea la venta. Las líneas con producto vacío o cantidad cero se
// descartan (filas en blanco del formulario); una cantidad negativa o un
// producto ajeno al negocio invalidan la petición completa.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, businessID, actorID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	lines := make([]dto.SaleLineRequest, 0, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity < 0 {
			return nil, domain.ErrInvalidLine
		}
		if line.ProductID == "" || line.Quantity == 0 {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, domain.ErrInvalidLine
	}
	if in.AmountPaid.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	// Validar pertenencia de productos fuera de la tx (solo lectura); dentro de
	// la tx el mutador vuelve a leer con bloqueo
	for _, line := range lines {
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.BusinessID != businessID {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	saleID := uuid.New().String()
	var sale *entity.Sale
	var lowStock []*entity.Product

	err := uc.txRunner.RunSale(ctx, func(
		logRepo repository.StockLogRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		businessRepo repository.BusinessRepository,
	) error {
		// Punto de serialización: bloquea la fila del negocio para que dos
		// ventas concurrentes no lean el mismo consecutivo de recibo
		business, err := businessRepo.GetForUpdate(businessID)
		if err != nil {
			return err
		}
		if business == nil {
			return domain.ErrNotFound
		}

		receiptNumber, err := NextReceiptNumber(saleRepo, businessID, now)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]*entity.SaleItem, 0, len(lines))
		for _, line := range lines {
			_, product, err := uc.mutator.ApplySaleInTx(
				logRepo, productRepo,
				businessID, actorID, line.ProductID,
				line.Quantity, now, receiptNumber,
			)
			if err != nil {
				return err
			}
			unitPrice := product.SellingPrice
			item := &entity.SaleItem{
				ID:         uuid.New().String(),
				SaleID:     saleID,
				ProductID:  product.ID,
				Quantity:   line.Quantity,
				UnitPrice:  unitPrice,
				TotalPrice: unitPrice.Mul(decimal.NewFromInt(line.Quantity)),
			}
			items = append(items, item)
			total = total.Add(item.TotalPrice)
			if product.IsLowStock() {
				p := *product
				lowStock = append(lowStock, &p)
			}
		}

		sale = &entity.Sale{
			ID:            saleID,
			BusinessID:    businessID,
			CreatedBy:     actorID,
			ReceiptNumber: receiptNumber,
			TotalAmount:   total,
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
			IsCredit:      in.IsCredit,
			AmountPaid:    in.AmountPaid,
			CreatedAt:     now,
			Items:         items,
		}
		sale.ApplyPaymentRule()

		// La constraint única (business_id, receipt_number) es la red de
		// seguridad final: su violación llega como ErrDuplicateReceipt
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, item := range items {
			if err := saleRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.DispatchLowStockAlerts(lowStock)
	return ToSaleResponse(sale), nil
}
