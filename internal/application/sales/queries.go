package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// SaleQueryUseCase consultas de solo lectura sobre ventas.
type SaleQueryUseCase struct {
	saleRepo repository.SaleRepository
}

// NewSaleQueryUseCase construye el caso de uso.
func NewSaleQueryUseCase(saleRepo repository.SaleRepository) *SaleQueryUseCase {
	return &SaleQueryUseCase{saleRepo: saleRepo}
}

// GetSale obtiene una venta con sus líneas. ErrNotFound si no existe o
// pertenece a otro negocio.
func (uc *SaleQueryUseCase) GetSale(ctx context.Context, businessID, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItemsBySaleID(saleID)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return ToSaleResponse(sale), nil
}

// ListSales lista ventas del negocio con filtros de rango de tiempo
// (today/week/month/year o fechas explícitas) y devuelve el total acumulado
// del filtro.
func (uc *SaleQueryUseCase) ListSales(ctx context.Context, businessID string, filter dto.SaleListFilter) (*dto.SaleListResponse, error) {
	filter.DefaultPage()
	from, to, err := resolveTimeRange(filter, time.Now())
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	list, err := uc.saleRepo.ListByBusiness(businessID, from, to, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	out := &dto.SaleListResponse{
		Sales:      make([]dto.SaleResponse, 0, len(list)),
		TotalSales: decimal.Zero,
	}
	for _, s := range list {
		out.Sales = append(out.Sales, *ToSaleResponse(s))
		out.TotalSales = out.TotalSales.Add(s.TotalAmount)
	}
	return out, nil
}

// resolveTimeRange traduce el filtro a un rango [from, to]. Los rangos
// relativos se calculan contra now; las fechas explícitas tienen prioridad.
func resolveTimeRange(filter dto.SaleListFilter, now time.Time) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch filter.TimeRange {
	case "":
	case "today":
		from = &today
	case "week":
		// Semana inicia el lunes
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		from = &start
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		from = &start
	case "year":
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		from = &start
	default:
		return nil, nil, domain.ErrInvalidInput
	}

	if filter.StartDate != "" {
		t, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if filter.EndDate != "" {
		t, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			return nil, nil, err
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	return from, to, nil
}

// ToSaleResponse convierte la entidad a DTO de respuesta.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID,
		BusinessID:    s.BusinessID,
		ReceiptNumber: s.ReceiptNumber,
		TotalAmount:   s.TotalAmount,
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		IsCredit:      s.IsCredit,
		AmountPaid:    s.AmountPaid,
		Balance:       s.Balance,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
	}
	for _, item := range s.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	return resp
}
