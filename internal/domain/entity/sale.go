package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta confirmada con su número de recibo asignado.
// Una venta solo existe en estado confirmado: si alguna línea falla durante la
// creación, la transacción completa se revierte y no queda rastro.
type Sale struct {
	ID            string
	BusinessID    string
	CreatedBy     string
	ReceiptNumber string // REC-YYYYMMDD-NNNN, único por negocio
	TotalAmount   decimal.Decimal
	CustomerName  string
	CustomerPhone string
	IsCredit      bool
	AmountPaid    decimal.Decimal
	Balance       decimal.Decimal // TotalAmount - AmountPaid en ventas a crédito, 0 si no
	CreatedAt     time.Time
	Items         []*SaleItem
}

// ApplyPaymentRule aplica la regla de crédito: en ventas a crédito el saldo es
// la diferencia contra lo pagado; en ventas de contado se paga el total exacto.
func (s *Sale) ApplyPaymentRule() {
	if s.IsCredit {
		s.Balance = s.TotalAmount.Sub(s.AmountPaid)
		return
	}
	s.AmountPaid = s.TotalAmount
	s.Balance = decimal.Zero
}

// SaleItem es una línea de venta con el precio unitario congelado al momento
// de vender. TotalPrice = Quantity * UnitPrice.
type SaleItem struct {
	ID         string
	SaleID     string
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}
