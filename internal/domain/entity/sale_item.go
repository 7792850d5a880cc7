package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem es la fila histórica de venta que escribe el registrador de consumo
// junto a sus ConsumptionRecord: una por ítem de orden, con el precio cobrado
// y el COGS total calculado en ese momento. Alimenta la analítica de márgenes.
type SaleItem struct {
	ID          string
	OrderID     string
	OrderItemID string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	TotalCOGS   decimal.Decimal
	CreatedAt   time.Time
}
