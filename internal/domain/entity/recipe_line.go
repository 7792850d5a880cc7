package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ítem de una línea de receta.
const (
	RecipeItemMaterial = "material" // referencia a una materia prima (hoja)
	RecipeItemProduct  = "product"  // referencia a otro producto vendible
)

// RecipeLine es una línea de la receta de un producto: la lista de aristas del
// grafo de expansión. Referencia exactamente un Material o un Product según
// ItemType. CalculatedCost es derivado (Quantity × costo unitario del ítem
// referenciado). Una línea no puede ser opcional y pertenecer a un grupo de
// selección a la vez: los grupos XOR son siempre sobre líneas obligatorias.
type RecipeLine struct {
	ID              string
	ProductID       string // producto dueño de la receta
	ItemType        string // material | product
	MaterialID      string // no vacío solo si ItemType == material
	LinkedProductID string // no vacío solo si ItemType == product
	Quantity        decimal.Decimal
	Unit            string
	CalculatedCost  decimal.Decimal  // derivado: Quantity × costo unitario del referido
	PriceAdjustment *decimal.Decimal // delta de precio sobre el BasePrice del producto enlazado (nil = 0)
	IsOptional      bool
	SelectionGroup  string // nombre del grupo XOR; vacío = línea sin grupo
	SortOrder       int
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Pre-cargados por el repositorio para presentación (pueden ser vacíos).
	MaterialName      string
	LinkedProductName string
}

// PriceDelta devuelve el ajuste de precio de la línea, 0 si no está definido.
func (l *RecipeLine) PriceDelta() decimal.Decimal {
	if l.PriceAdjustment == nil {
		return decimal.Zero
	}
	return *l.PriceAdjustment
}
