package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, business_id, created_by, receipt_number, total_amount,
	customer_name, customer_phone, is_credit, amount_paid, balance, created_at`

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera de la venta. Una colisión en el índice único
// (business_id, receipt_number) llega como domain.ErrDuplicateReceipt: es la
// última red de seguridad del consecutivo, el llamador puede reintentar.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.BusinessID, sale.CreatedBy, sale.ReceiptNumber, sale.TotalAmount,
		sale.CustomerName, sale.CustomerPhone, sale.IsCredit, sale.AmountPaid, sale.Balance, sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReceipt
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem inserta una línea de venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.BusinessID, &s.CreatedBy, &s.ReceiptNumber, &s.TotalAmount,
		&s.CustomerName, &s.CustomerPhone, &s.IsCredit, &s.AmountPaid, &s.Balance, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetItemsBySaleID obtiene las líneas de una venta.
func (r *SaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, total_price
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// ListByBusiness lista ventas del negocio, más reciente primero, con rango de
// fechas opcional.
func (r *SaleRepo) ListByBusiness(businessID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE business_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, businessID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.BusinessID, &s.CreatedBy, &s.ReceiptNumber, &s.TotalAmount,
			&s.CustomerName, &s.CustomerPhone, &s.IsCredit, &s.AmountPaid, &s.Balance, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// LastReceiptNumber devuelve el número de recibo más alto del negocio en el
// día indicado, o "" si no hay ventas. El sufijo es de ancho fijo, así que el
// orden lexicográfico coincide con el numérico. Debe llamarse con el bloqueo
// del negocio tomado.
func (r *SaleRepo) LastReceiptNumber(businessID string, day time.Time) (string, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	query := `
		SELECT receipt_number FROM sales
		WHERE business_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY receipt_number DESC LIMIT 1`
	var receipt string
	err := r.q.QueryRow(context.Background(), query, businessID, dayStart, dayEnd).Scan(&receipt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last receipt number: %w", err)
	}
	return receipt, nil
}
