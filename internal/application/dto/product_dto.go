package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
// InitialStock > 0 genera una entrada "initial" en la bitácora de stock.
type CreateProductRequest struct {
	CategoryID        string          `json:"category_id"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit,omitempty"`
	InitialStock      int64           `json:"initial_stock"`
	BuyingPrice       decimal.Decimal `json:"buying_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	LowStockThreshold int64           `json:"low_stock_threshold,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id.
// No incluye stock: el stock solo cambia vía movimientos (restock/ajuste/venta).
type UpdateProductRequest struct {
	CategoryID        string          `json:"category_id,omitempty"`
	Name              string          `json:"name,omitempty"`
	Unit              string          `json:"unit,omitempty"`
	BuyingPrice       decimal.Decimal `json:"buying_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	LowStockThreshold int64           `json:"low_stock_threshold,omitempty"`
}

// ProductResponse producto para respuestas HTTP.
type ProductResponse struct {
	ID                string          `json:"id"`
	BusinessID        string          `json:"business_id"`
	CategoryID        string          `json:"category_id"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	StockQuantity     int64           `json:"stock_quantity"`
	BuyingPrice       decimal.Decimal `json:"buying_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	LastRestocked     *time.Time      `json:"last_restocked,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
