// Package analytics contiene los casos de uso de solo lectura para los
// dashboards de manager y cajero.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

const (
	dashboardTopProducts    = 5 // productos en el widget de más vendidos
	dashboardRecentSales    = 5
	dashboardRecentRestocks = 5
)

// DashboardUseCase arma los resúmenes de ventas e inventario.
//
// Las agregaciones vienen del AnalyticsRepository; las listas de actividad
// reciente salen de los repositorios de ventas y bitácora. Nada aquí muta
// estado.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	saleRepo      repository.SaleRepository
	logRepo       repository.StockLogRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	saleRepo repository.SaleRepository,
	logRepo repository.StockLogRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		saleRepo:      saleRepo,
		logRepo:       logRepo,
	}
}

// ManagerDashboard construye el resumen completo del negocio: ventas por
// período (hoy/semana/mes/año), conteos del catálogo, productos más vendidos
// y actividad reciente.
//
// Las consultas de períodos y conteos se paralelizan en goroutines; las listas
// de actividad reciente se cargan después en serie.
func (uc *DashboardUseCase) ManagerDashboard(ctx context.Context, businessID string) (*dto.ManagerDashboardDTO, error) {
	now := time.Now()

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	// Semana inicia el lunes
	weekStart := todayStart.AddDate(0, 0, -((int(todayStart.Weekday()) + 6) % 7))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	type summaryResult struct {
		total decimal.Decimal
		count int64
		err   error
	}
	type countsResult struct {
		counts *repository.CatalogCounts
		err    error
	}
	type topResult struct {
		products []repository.TopProductResult
		err      error
	}

	summaryCh := func(from time.Time) chan summaryResult {
		ch := make(chan summaryResult, 1)
		go func() {
			total, count, err := uc.analyticsRepo.SalesSummary(ctx, businessID, from, todayEnd)
			ch <- summaryResult{total, count, err}
		}()
		return ch
	}
	todayCh := summaryCh(todayStart)
	weekCh := summaryCh(weekStart)
	monthCh := summaryCh(monthStart)
	yearCh := summaryCh(yearStart)

	countsCh := make(chan countsResult, 1)
	go func() {
		counts, err := uc.analyticsRepo.CatalogCounts(ctx, businessID)
		countsCh <- countsResult{counts, err}
	}()
	topCh := make(chan topResult, 1)
	go func() {
		products, err := uc.analyticsRepo.TopProducts(ctx, businessID, dashboardTopProducts)
		topCh <- topResult{products, err}
	}()

	today := <-todayCh
	week := <-weekCh
	month := <-monthCh
	year := <-yearCh
	counts := <-countsCh
	top := <-topCh

	for label, err := range map[string]error{
		"hoy": today.err, "semana": week.err, "mes": month.err, "año": year.err,
		"catálogo": counts.err, "top productos": top.err,
	} {
		if err != nil {
			return nil, fmt.Errorf("dashboard: %s: %w", label, err)
		}
	}

	out := &dto.ManagerDashboardDTO{
		Today:           dto.PeriodSummary{Total: today.total.Round(2), Count: today.count},
		Week:            dto.PeriodSummary{Total: week.total.Round(2), Count: week.count},
		Month:           dto.PeriodSummary{Total: month.total.Round(2), Count: month.count},
		Year:            dto.PeriodSummary{Total: year.total.Round(2), Count: year.count},
		TotalProducts:   counts.counts.Products,
		TotalCategories: counts.counts.Categories,
		LowStockCount:   counts.counts.LowStock,
		TopProducts:     toTopProductDTOs(top.products),
	}

	recentSales, err := uc.saleRepo.ListByBusiness(businessID, nil, nil, dashboardRecentSales, 0)
	if err != nil {
		return nil, fmt.Errorf("dashboard: ventas recientes: %w", err)
	}
	out.RecentSales = make([]dto.SaleResponse, 0, len(recentSales))
	for _, s := range recentSales {
		out.RecentSales = append(out.RecentSales, *sales.ToSaleResponse(s))
	}

	recentRestocks, err := uc.logRepo.ListByBusiness(businessID, entity.ActionRestock, nil, nil, dashboardRecentRestocks, 0)
	if err != nil {
		return nil, fmt.Errorf("dashboard: reposiciones recientes: %w", err)
	}
	out.RecentRestocks = toStockLogDTOs(recentRestocks)

	return out, nil
}

// CashierDashboard resume las ventas del cajero en el día en curso.
func (uc *DashboardUseCase) CashierDashboard(ctx context.Context, businessID, userID string) (*dto.CashierDashboardDTO, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	total, count, err := uc.analyticsRepo.CashierSalesSummary(ctx, businessID, userID, todayStart, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("dashboard cajero: %w", err)
	}
	return &dto.CashierDashboardDTO{
		TodaySales: total.Round(2),
		SaleCount:  count,
	}, nil
}

func toTopProductDTOs(in []repository.TopProductResult) []dto.TopProductDTO {
	out := make([]dto.TopProductDTO, 0, len(in))
	for _, p := range in {
		out = append(out, dto.TopProductDTO{
			ProductID:    p.ProductID,
			ProductName:  p.ProductName,
			CategoryName: p.CategoryName,
			UnitsSold:    p.UnitsSold,
			Revenue:      p.Revenue.Round(2),
		})
	}
	return out
}

func toStockLogDTOs(logs []*entity.StockLog) []dto.StockLogResponse {
	out := make([]dto.StockLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.StockLogResponse{
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
		})
	}
	return out
}
