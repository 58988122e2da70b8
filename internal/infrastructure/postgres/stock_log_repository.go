package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.StockLogRepository = (*StockLogRepo)(nil)

const stockLogColumns = `l.id, l.product_id, l.action, l.quantity_change, l.previous_stock, l.new_stock,
	l.buying_price, l.selling_price, l.notes, l.reference, l.created_by, l.created_at`

// StockLogRepo implementación de StockLogRepository sobre PostgreSQL (usable con pool o tx).
// Solo inserta y consulta: la bitácora es inmutable.
type StockLogRepo struct {
	q Querier
}

// NewStockLogRepository construye el adaptador de bitácora. Pasar pool o tx (Querier).
func NewStockLogRepository(q Querier) *StockLogRepo {
	return &StockLogRepo{q: q}
}

// Create inserta una entrada de bitácora.
func (r *StockLogRepo) Create(log *entity.StockLog) error {
	query := `
		INSERT INTO stock_logs (id, product_id, action, quantity_change, previous_stock, new_stock,
			buying_price, selling_price, notes, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.ProductID, log.Action, log.QuantityChange, log.PreviousStock, log.NewStock,
		log.BuyingPrice, log.SellingPrice, log.Notes, log.Reference, log.CreatedBy, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock log: %w", err)
	}
	return nil
}

// ListByProduct lista la bitácora de un producto, más reciente primero.
func (r *StockLogRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLog, error) {
	query := `
		SELECT ` + stockLogColumns + `
		FROM stock_logs l
		WHERE l.product_id = $1
		  AND ($2::timestamptz IS NULL OR l.created_at >= $2)
		  AND ($3::timestamptz IS NULL OR l.created_at <= $3)
		ORDER BY l.created_at DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, productID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock logs by product: %w", err)
	}
	defer rows.Close()
	return collectStockLogs(rows)
}

// ListByBusiness lista la bitácora del negocio con filtros opcionales de acción
// y rango de fechas. action vacío = todas las acciones.
func (r *StockLogRepo) ListByBusiness(businessID, action string, from, to *time.Time, limit, offset int) ([]*entity.StockLog, error) {
	query := `
		SELECT ` + stockLogColumns + `
		FROM stock_logs l
		JOIN products p ON p.id = l.product_id
		WHERE p.business_id = $1
		  AND ($2 = '' OR l.action = $2)
		  AND ($3::timestamptz IS NULL OR l.created_at >= $3)
		  AND ($4::timestamptz IS NULL OR l.created_at <= $4)
		ORDER BY l.created_at DESC LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(context.Background(), query, businessID, action, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock logs by business: %w", err)
	}
	defer rows.Close()
	return collectStockLogs(rows)
}

func collectStockLogs(rows pgx.Rows) ([]*entity.StockLog, error) {
	var list []*entity.StockLog
	for rows.Next() {
		var l entity.StockLog
		if err := rows.Scan(
			&l.ID, &l.ProductID, &l.Action, &l.QuantityChange, &l.PreviousStock, &l.NewStock,
			&l.BuyingPrice, &l.SellingPrice, &l.Notes, &l.Reference, &l.CreatedBy, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
