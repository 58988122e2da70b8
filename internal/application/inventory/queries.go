package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// StockQueryUseCase consultas de solo lectura sobre la bitácora de stock y el
// estado del inventario. No muta nada.
type StockQueryUseCase struct {
	logRepo     repository.StockLogRepository
	productRepo repository.ProductRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(logRepo repository.StockLogRepository, productRepo repository.ProductRepository) *StockQueryUseCase {
	return &StockQueryUseCase{logRepo: logRepo, productRepo: productRepo}
}

// StockLogs lista la bitácora del negocio con filtros opcionales de producto,
// acción y rango de fechas.
func (uc *StockQueryUseCase) StockLogs(ctx context.Context, businessID string, filter dto.StockLogFilter) ([]dto.StockLogResponse, error) {
	filter.DefaultPage()
	from, to, err := parseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	var logs []*entity.StockLog
	if filter.ProductID != "" {
		product, err := uc.productRepo.GetByID(filter.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.BusinessID != businessID {
			return nil, domain.ErrNotFound
		}
		logs, err = uc.logRepo.ListByProduct(filter.ProductID, from, to, filter.Limit, filter.Offset)
		if err != nil {
			return nil, err
		}
	} else {
		logs, err = uc.logRepo.ListByBusiness(businessID, filter.Action, from, to, filter.Limit, filter.Offset)
		if err != nil {
			return nil, err
		}
	}
	return toStockLogResponses(logs), nil
}

// RestockHistory lista las reposiciones más recientes del negocio.
func (uc *StockQueryUseCase) RestockHistory(ctx context.Context, businessID string, page dto.PageRequest) ([]dto.StockLogResponse, error) {
	page.DefaultPage()
	logs, err := uc.logRepo.ListByBusiness(businessID, entity.ActionRestock, nil, nil, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toStockLogResponses(logs), nil
}

// LowStockProducts lista los productos en o bajo su umbral de alerta.
func (uc *StockQueryUseCase) LowStockProducts(ctx context.Context, businessID string) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.ListLowStock(businessID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out, nil
}

// ToProductResponse convierte la entidad a DTO de respuesta.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                p.ID,
		BusinessID:        p.BusinessID,
		CategoryID:        p.CategoryID,
		Name:              p.Name,
		Unit:              p.Unit,
		StockQuantity:     p.StockQuantity,
		BuyingPrice:       p.BuyingPrice,
		SellingPrice:      p.SellingPrice,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		LastRestocked:     p.LastRestocked,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ToStockLogResponse convierte una entrada de bitácora a DTO de respuesta.
func ToStockLogResponse(l *entity.StockLog) dto.StockLogResponse {
	return dto.StockLogResponse{
		ID:             l.ID,
		ProductID:      l.ProductID,
		Action:         l.Action,
		QuantityChange: l.QuantityChange,
		PreviousStock:  l.PreviousStock,
		NewStock:       l.NewStock,
		BuyingPrice:    l.BuyingPrice,
		SellingPrice:   l.SellingPrice,
		Notes:          l.Notes,
		Reference:      l.Reference,
		CreatedBy:      l.CreatedBy,
		CreatedAt:      l.CreatedAt,
	}
}

func toStockLogResponses(logs []*entity.StockLog) []dto.StockLogResponse {
	out := make([]dto.StockLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, ToStockLogResponse(l))
	}
	return out
}

// parseDateRange interpreta fechas YYYY-MM-DD; la fecha final es inclusiva
// (se extiende hasta el último instante del día).
func parseDateRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return nil, nil, err
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	return from, to, nil
}
