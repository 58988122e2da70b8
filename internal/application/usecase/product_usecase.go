package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/inventory"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// ProductUseCase gestión del catálogo de productos. No toca stock directamente:
// el stock de apertura entra por el mutador (entrada "initial" en la bitácora)
// y las ediciones posteriores solo afectan datos del catálogo.
type ProductUseCase struct {
	txRunner     inventory.TxRunner
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockUC      *inventory.StockUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner inventory.TxRunner,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	stockUC *inventory.StockUseCase,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockUC:      stockUC,
	}
}

func validUnit(unit string) bool {
	switch unit {
	case entity.UnitPieces, entity.UnitKilograms, entity.UnitLiters,
		entity.UnitMeters, entity.UnitTrays, entity.UnitBoxes:
		return true
	}
	return false
}

// Create registra un producto. Nace con stock cero; si InitialStock > 0 el
// stock de apertura se aplica vía mutador dentro de la misma transacción, de
// modo que la bitácora explica cada unidad desde el origen.
func (uc *ProductUseCase) Create(ctx context.Context, businessID, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialStock < 0 || in.BuyingPrice.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	unit := in.Unit
	if unit == "" {
		unit = entity.UnitPieces
	}
	if !validUnit(unit) {
		return nil, domain.ErrInvalidInput
	}

	category, err := uc.categoryRepo.GetByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil || category.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}

	threshold := in.LowStockThreshold
	if threshold == 0 {
		threshold = 5
	}
	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		BusinessID:        businessID,
		CategoryID:        in.CategoryID,
		Name:              in.Name,
		Unit:              unit,
		StockQuantity:     0,
		BuyingPrice:       in.BuyingPrice,
		SellingPrice:      in.SellingPrice,
		LowStockThreshold: threshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = uc.txRunner.Run(ctx, func(
		logRepo repository.StockLogRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if in.InitialStock > 0 {
			_, mutated, err := uc.stockUC.ApplyInitialInTx(logRepo, productRepo, businessID, actorID, product.ID, in.InitialStock, now)
			if err != nil {
				return err
			}
			product.StockQuantity = mutated.StockQuantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.InitialStock > 0 {
		uc.stockUC.DispatchLowStockAlerts([]*entity.Product{product})
	}
	resp := inventory.ToProductResponse(product)
	return &resp, nil
}

// Update modifica datos de catálogo del producto. El stock no se edita aquí:
// cualquier corrección de cantidad debe pasar por ajustes.
func (uc *ProductUseCase) Update(businessID, productID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}

	if in.CategoryID != "" && in.CategoryID != product.CategoryID {
		category, err := uc.categoryRepo.GetByID(in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil || category.BusinessID != businessID {
			return nil, domain.ErrNotFound
		}
		product.CategoryID = in.CategoryID
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Unit != "" {
		if !validUnit(in.Unit) {
			return nil, domain.ErrInvalidInput
		}
		product.Unit = in.Unit
	}
	if in.BuyingPrice.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if !in.BuyingPrice.IsZero() {
		product.BuyingPrice = in.BuyingPrice
	}
	if !in.SellingPrice.IsZero() {
		product.SellingPrice = in.SellingPrice
	}
	if in.LowStockThreshold > 0 {
		product.LowStockThreshold = in.LowStockThreshold
	}
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	resp := inventory.ToProductResponse(product)
	return &resp, nil
}

// GetByID obtiene un producto del negocio.
func (uc *ProductUseCase) GetByID(businessID, productID string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	resp := inventory.ToProductResponse(product)
	return &resp, nil
}

// List lista los productos del negocio.
func (uc *ProductUseCase) List(businessID string, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.ListByBusiness(businessID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, inventory.ToProductResponse(p))
	}
	return out, nil
}

// Delete elimina un producto del catálogo.
func (uc *ProductUseCase) Delete(businessID, productID string) error {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || product.BusinessID != businessID {
		return domain.ErrNotFound
	}
	return uc.productRepo.Delete(productID)
}
