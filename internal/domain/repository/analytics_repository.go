package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProductMarginResult margen por producto en un rango de fechas.
type ProductMarginResult struct {
	ProductID  string
	SKU        string
	Name       string
	UnitsSold  decimal.Decimal
	Revenue    decimal.Decimal
	TotalCOGS  decimal.Decimal
	Margin     decimal.Decimal // Revenue - TotalCOGS
	MarginPct  decimal.Decimal // Margin / Revenue × 100 (0 si Revenue = 0)
}

// DailyCostResult costo de insumos consumidos por día.
type DailyCostResult struct {
	Day       time.Time
	OrderCnt  int64
	TotalCost decimal.Decimal
}

// ProductPairResult par de productos vendidos juntos con frecuencia.
type ProductPairResult struct {
	ProductAID   string
	ProductAName string
	ProductBID   string
	ProductBName string
	TimesPaired  int64
}

// AnalyticsRepository consultas de solo lectura sobre el histórico de consumo.
// Consume las cifras de costo producidas por el registrador de consumo; no
// tiene lógica algorítmica propia más allá de la agregación SQL.
type AnalyticsRepository interface {
	GetProductMargins(ctx context.Context, startDate, endDate time.Time) ([]ProductMarginResult, error)
	GetDailyCostTrend(ctx context.Context, startDate, endDate time.Time) ([]DailyCostResult, error)
	GetFrequentPairs(ctx context.Context, startDate, endDate time.Time, limit int) ([]ProductPairResult, error)
}
