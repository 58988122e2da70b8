package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea de venta: producto y cantidad.
type SaleLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateSaleRequest body para POST /api/sales.
// Las líneas con cantidad cero o producto vacío se descartan; debe quedar al
// menos una línea válida.
type CreateSaleRequest struct {
	Items         []SaleLineRequest `json:"items"`
	CustomerName  string            `json:"customer_name,omitempty"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	IsCredit      bool              `json:"is_credit,omitempty"`
	AmountPaid    decimal.Decimal   `json:"amount_paid,omitempty"`
}

// SaleItemResponse línea de venta confirmada.
type SaleItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// SaleResponse venta confirmada con recibo asignado.
type SaleResponse struct {
	ID            string             `json:"id"`
	BusinessID    string             `json:"business_id"`
	ReceiptNumber string             `json:"receipt_number"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	IsCredit      bool               `json:"is_credit"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	Balance       decimal.Decimal    `json:"balance"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleItemResponse `json:"items"`
}

// SaleListFilter filtros de consulta para listados de ventas.
type SaleListFilter struct {
	TimeRange string `query:"time_range"` // today, week, month, year
	StartDate string `query:"start_date"` // YYYY-MM-DD
	EndDate   string `query:"end_date"`   // YYYY-MM-DD
	PageRequest
}

// SaleListResponse listado de ventas con el total acumulado del filtro.
type SaleListResponse struct {
	Sales      []SaleResponse  `json:"sales"`
	TotalSales decimal.Decimal `json:"total_sales"`
}
