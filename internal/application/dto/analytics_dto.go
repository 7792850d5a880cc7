package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductMarginRow margen de un producto en el rango consultado.
type ProductMarginRow struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitsSold decimal.Decimal `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
	TotalCOGS decimal.Decimal `json:"total_cogs"`
	Margin    decimal.Decimal `json:"margin"`
	MarginPct decimal.Decimal `json:"margin_pct"`
}

// DailyCostRow costo de insumos consumidos en un día.
type DailyCostRow struct {
	Day       time.Time       `json:"day"`
	OrderCnt  int64           `json:"order_count"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// ProductPairRow par de productos vendidos juntos.
type ProductPairRow struct {
	ProductAID   string `json:"product_a_id"`
	ProductAName string `json:"product_a_name"`
	ProductBID   string `json:"product_b_id"`
	ProductBName string `json:"product_b_name"`
	TimesPaired  int64  `json:"times_paired"`
}

// DashboardResponse rollup del tablero de back-office.
type DashboardResponse struct {
	From          time.Time          `json:"from"`
	To            time.Time          `json:"to"`
	Margins       []ProductMarginRow `json:"margins"`
	DailyCosts    []DailyCostRow     `json:"daily_costs"`
	FrequentPairs []ProductPairRow   `json:"frequent_pairs"`
	LowStock      []MaterialResponse `json:"low_stock"`
}
