package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida soportadas.
const (
	UnitPieces    = "pcs"
	UnitKilograms = "kg"
	UnitLiters    = "ltr"
	UnitMeters    = "mtr"
	UnitTrays     = "tray"
	UnitBoxes     = "box"
)

// Product representa un producto del catálogo de un negocio.
//
// StockQuantity es invariante: nunca negativo y solo se modifica a través del
// mutador de stock (application/inventory), que bloquea la fila y escribe la
// entrada de bitácora correspondiente en la misma transacción. Ningún otro
// código debe escribir este campo.
type Product struct {
	ID                string
	BusinessID        string
	CategoryID        string
	Name              string
	Unit              string // ver constantes Unit*
	StockQuantity     int64
	InitialStock      int64 // stock de apertura no explicado por la bitácora (0 para productos creados por la API)
	BuyingPrice       decimal.Decimal
	SellingPrice      decimal.Decimal
	LowStockThreshold int64
	LastRestocked     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si el producto está en o por debajo de su umbral de alerta.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

// StockValue devuelve el valor del inventario a precio de compra.
func (p *Product) StockValue() decimal.Decimal {
	return p.BuyingPrice.Mul(decimal.NewFromInt(p.StockQuantity))
}
