package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, business_id, category_id, name, unit, stock_quantity, initial_stock,
	buying_price, selling_price, low_stock_threshold, last_restocked, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.BusinessID, &p.CategoryID, &p.Name, &p.Unit, &p.StockQuantity, &p.InitialStock,
		&p.BuyingPrice, &p.SellingPrice, &p.LowStockThreshold, &p.LastRestocked, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. El stock nace en cero salvo importaciones.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.BusinessID, product.CategoryID, product.Name, product.Unit,
		product.StockQuantity, product.InitialStock, product.BuyingPrice, product.SellingPrice,
		product.LowStockThreshold, product.LastRestocked, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
// Dos mutaciones concurrentes sobre el mismo producto se serializan aquí.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// Update actualiza datos de catálogo. No toca stock_quantity: el stock solo
// cambia vía UpdateStock dentro de la transacción que tomó el bloqueo.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET category_id = $2, name = $3, unit = $4, buying_price = $5,
			selling_price = $6, low_stock_threshold = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.CategoryID, product.Name, product.Unit,
		product.BuyingPrice, product.SellingPrice, product.LowStockThreshold, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock escribe el nuevo stock (usado por el mutador, con la fila bloqueada).
func (r *ProductRepo) UpdateStock(productID string, newStock int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock_quantity = $2, updated_at = now() WHERE id = $1`,
		productID, newStock,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// UpdateRestockInfo actualiza precios y fecha de última reposición.
func (r *ProductRepo) UpdateRestockInfo(productID string, buyingPrice, sellingPrice decimal.Decimal, restockedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET buying_price = $2, selling_price = $3, last_restocked = $4, updated_at = now() WHERE id = $1`,
		productID, buyingPrice, sellingPrice, restockedAt,
	)
	if err != nil {
		return fmt.Errorf("update restock info: %w", err)
	}
	return nil
}

// ListByBusiness lista productos del negocio con paginación.
func (r *ProductRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE business_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, businessID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// ListLowStock lista los productos en o bajo su umbral de alerta.
func (r *ProductRepo) ListLowStock(businessID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE business_id = $1 AND stock_quantity <= low_stock_threshold
		ORDER BY stock_quantity ASC`
	rows, err := r.q.Query(context.Background(), query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// ExistsByCategory indica si la categoría tiene productos asociados.
func (r *ProductRepo) ExistsByCategory(categoryID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM products WHERE category_id = $1)`, categoryID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by category: %w", err)
	}
	return exists, nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.BusinessID, &p.CategoryID, &p.Name, &p.Unit, &p.StockQuantity, &p.InitialStock,
			&p.BuyingPrice, &p.SellingPrice, &p.LowStockThreshold, &p.LastRestocked, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
