package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// El campo stock_quantity solo se escribe vía UpdateStock, y siempre dentro de
// la transacción que tomó el bloqueo con GetForUpdate. Update nunca lo toca.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, newStock int64) error
	// UpdateRestockInfo actualiza precios y fecha de última reposición.
	UpdateRestockInfo(productID string, buyingPrice, sellingPrice decimal.Decimal, restockedAt time.Time) error
	ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error)
	ListLowStock(businessID string) ([]*entity.Product, error)
	ExistsByCategory(categoryID string) (bool, error)
	Delete(id string) error
}
