package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de materia prima.
const (
	MaterialCategoryIngredient = "ingredient" // insumo consumible en la bebida/plato
	MaterialCategoryPackaging  = "packaging"  // vasos, tapas, bolsas
	MaterialCategoryConsumable = "consumable" // servilletas, removedores, etc.
)

// Material representa una materia prima o empaque del catálogo.
// CostPerUnit es SIEMPRE derivado de PurchaseCost / PurchaseQty; nunca se
// almacena de forma independiente de sus insumos. El stock puede quedar
// negativo (modelo de backorder): se registra con warning, no se rechaza.
type Material struct {
	ID                string
	Name              string
	Category          string          // ingredient | packaging | consumable
	PurchaseUnit      string          // g, ml, unidad
	PurchaseQty       decimal.Decimal // cantidad de la presentación de compra
	PurchaseCost      decimal.Decimal // costo de esa presentación
	CostPerUnit       decimal.Decimal // derivado: PurchaseCost / PurchaseQty
	StockQty          decimal.Decimal
	LowStockThreshold decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RecalculateCostPerUnit recalcula el costo unitario a partir de la compra.
// Con PurchaseQty <= 0 el costo unitario es 0 (dato incompleto, no error).
func (m *Material) RecalculateCostPerUnit() {
	if m.PurchaseQty.LessThanOrEqual(decimal.Zero) {
		m.CostPerUnit = decimal.Zero
		return
	}
	m.CostPerUnit = m.PurchaseCost.Div(m.PurchaseQty)
}

// IsLowStock indica si el stock está en o por debajo del umbral configurado.
func (m *Material) IsLowStock() bool {
	return m.StockQty.LessThanOrEqual(m.LowStockThreshold)
}
