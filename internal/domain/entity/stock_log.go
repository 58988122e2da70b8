package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Acciones registradas en la bitácora de stock.
const (
	ActionRestock    = "restock"    // reposición de mercancía
	ActionSale       = "sale"       // salida por venta
	ActionAdjustment = "adjustment" // ajuste manual (positivo o negativo)
	ActionInitial    = "initial"    // stock de apertura al crear el producto
)

// StockLog es una entrada inmutable de la bitácora de cambios de stock.
// Captura el antes y el después de cada mutación: para un producto, reproducir
// todas sus entradas en orden de creación sumando QuantityChange debe dar
// exactamente StockQuantity - InitialStock. Nunca se actualiza ni se borra.
type StockLog struct {
	ID             string
	ProductID      string
	Action         string // ver constantes Action*
	QuantityChange int64  // con signo: negativo en ventas
	PreviousStock  int64
	NewStock       int64 // PreviousStock + QuantityChange
	BuyingPrice    *decimal.Decimal
	SellingPrice   *decimal.Decimal
	Notes          string
	Reference      string // ej. número de recibo, para correlacionar líneas de venta
	CreatedBy      string
	CreatedAt      time.Time
}
