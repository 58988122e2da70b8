package dto

import "github.com/shopspring/decimal"

// PeriodSummary total vendido y número de transacciones de un período.
type PeriodSummary struct {
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// TopProductDTO producto más vendido para el widget del dashboard.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	CategoryName string          `json:"category_name"`
	UnitsSold    int64           `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// ManagerDashboardDTO resumen del negocio para el dashboard de manager.
type ManagerDashboardDTO struct {
	Today           PeriodSummary      `json:"today"`
	Week            PeriodSummary      `json:"week"`
	Month           PeriodSummary      `json:"month"`
	Year            PeriodSummary      `json:"year"`
	TotalProducts   int64              `json:"total_products"`
	TotalCategories int64              `json:"total_categories"`
	LowStockCount   int64              `json:"low_stock_count"`
	TopProducts     []TopProductDTO    `json:"top_products"`
	RecentSales     []SaleResponse     `json:"recent_sales"`
	RecentRestocks  []StockLogResponse `json:"recent_restocks"`
}

// CashierDashboardDTO resumen de las ventas del cajero en el día.
type CashierDashboardDTO struct {
	TodaySales decimal.Decimal `json:"today_sales"`
	SaleCount  int64           `json:"sale_count"`
}
