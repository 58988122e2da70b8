package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopProductResult agrupa unidades vendidas e ingresos por producto.
type TopProductResult struct {
	ProductID    string
	ProductName  string
	CategoryName string
	UnitsSold    int64
	Revenue      decimal.Decimal
}

// ProductSalesTotals acumulado histórico de ventas de un producto.
type ProductSalesTotals struct {
	UnitsSold int64
	Revenue   decimal.Decimal
}

// CatalogCounts conteos del catálogo para los widgets del dashboard.
type CatalogCounts struct {
	Products   int64
	Categories int64
	LowStock   int64
}

// AnalyticsRepository consultas de solo lectura para dashboards y reportes.
// Todo son agregaciones sobre las tablas que escribe el motor de ventas y la
// bitácora de stock; nunca muta estado.
type AnalyticsRepository interface {
	// SalesSummary devuelve total vendido y número de ventas en el rango.
	SalesSummary(ctx context.Context, businessID string, from, to time.Time) (decimal.Decimal, int64, error)
	// CashierSalesSummary igual que SalesSummary pero solo ventas del usuario.
	CashierSalesSummary(ctx context.Context, businessID, userID string, from, to time.Time) (decimal.Decimal, int64, error)
	TopProducts(ctx context.Context, businessID string, limit int) ([]TopProductResult, error)
	SalesTotalsByProduct(ctx context.Context, productID string) (*ProductSalesTotals, error)
	CatalogCounts(ctx context.Context, businessID string) (*CatalogCounts, error)
}
