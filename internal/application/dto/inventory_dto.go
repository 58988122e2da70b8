package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RestockRequest body para POST /api/inventory/restock.
// BuyingPrice/SellingPrice opcionales: si vienen, actualizan el producto antes
// de aplicar la entrada de stock.
type RestockRequest struct {
	ProductID    string           `json:"product_id"`
	Quantity     int64            `json:"quantity"`
	BuyingPrice  *decimal.Decimal `json:"buying_price,omitempty"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
	Supplier     string           `json:"supplier,omitempty"`
	Note         string           `json:"note,omitempty"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments.
// Quantity con signo: negativo descuenta stock (nunca por debajo de cero).
type AdjustmentRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

// StockLogResponse entrada de bitácora para respuestas HTTP.
type StockLogResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	Action         string           `json:"action"`
	QuantityChange int64            `json:"quantity_change"`
	PreviousStock  int64            `json:"previous_stock"`
	NewStock       int64            `json:"new_stock"`
	BuyingPrice    *decimal.Decimal `json:"buying_price,omitempty"`
	SellingPrice   *decimal.Decimal `json:"selling_price,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	Reference      string           `json:"reference,omitempty"`
	CreatedBy      string           `json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
}

// StockLogFilter filtros de consulta para la bitácora.
type StockLogFilter struct {
	ProductID string `query:"product_id"`
	Action    string `query:"action"`
	StartDate string `query:"start_date"` // YYYY-MM-DD
	EndDate   string `query:"end_date"`   // YYYY-MM-DD
	PageRequest
}
