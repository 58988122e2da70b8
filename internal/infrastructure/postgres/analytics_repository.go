package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregaciones de solo lectura para dashboards y reportes.
// Siempre sobre el pool: nunca participa en transacciones de escritura.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// SalesSummary devuelve total vendido y número de ventas en el rango.
func (r *AnalyticsRepo) SalesSummary(ctx context.Context, businessID string, from, to time.Time) (decimal.Decimal, int64, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM sales
		WHERE business_id = $1 AND created_at >= $2 AND created_at <= $3`
	var total decimal.Decimal
	var count int64
	err := r.pool.QueryRow(ctx, query, businessID, from, to).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("sales summary: %w", err)
	}
	return total, count, nil
}

// CashierSalesSummary igual que SalesSummary pero solo las ventas del usuario.
func (r *AnalyticsRepo) CashierSalesSummary(ctx context.Context, businessID, userID string, from, to time.Time) (decimal.Decimal, int64, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM sales
		WHERE business_id = $1 AND created_by = $2 AND created_at >= $3 AND created_at <= $4`
	var total decimal.Decimal
	var count int64
	err := r.pool.QueryRow(ctx, query, businessID, userID, from, to).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("cashier sales summary: %w", err)
	}
	return total, count, nil
}

// TopProducts devuelve los productos más vendidos del negocio por unidades.
func (r *AnalyticsRepo) TopProducts(ctx context.Context, businessID string, limit int) ([]repository.TopProductResult, error) {
	query := `
		SELECT p.id, p.name, COALESCE(c.name, ''), COALESCE(SUM(i.quantity), 0), COALESCE(SUM(i.total_price), 0)
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		JOIN products p ON p.id = i.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE s.business_id = $1
		GROUP BY p.id, p.name, c.name
		ORDER BY SUM(i.quantity) DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	var list []repository.TopProductResult
	for rows.Next() {
		var t repository.TopProductResult
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.CategoryName, &t.UnitsSold, &t.Revenue); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// SalesTotalsByProduct acumulado histórico de unidades e ingresos de un producto.
func (r *AnalyticsRepo) SalesTotalsByProduct(ctx context.Context, productID string) (*repository.ProductSalesTotals, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(total_price), 0)
		FROM sale_items WHERE product_id = $1`
	var totals repository.ProductSalesTotals
	err := r.pool.QueryRow(ctx, query, productID).Scan(&totals.UnitsSold, &totals.Revenue)
	if err != nil {
		return nil, fmt.Errorf("sales totals by product: %w", err)
	}
	return &totals, nil
}

// CatalogCounts conteos del catálogo para los widgets del dashboard.
func (r *AnalyticsRepo) CatalogCounts(ctx context.Context, businessID string) (*repository.CatalogCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products WHERE business_id = $1),
			(SELECT COUNT(*) FROM categories WHERE business_id = $1),
			(SELECT COUNT(*) FROM products WHERE business_id = $1 AND stock_quantity <= low_stock_threshold)`
	var counts repository.CatalogCounts
	err := r.pool.QueryRow(ctx, query, businessID).Scan(&counts.Products, &counts.Categories, &counts.LowStock)
	if err != nil {
		return nil, fmt.Errorf("catalog counts: %w", err)
	}
	return &counts, nil
}
