package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo vendible (bebida, plato, combo).
// UnitCost es un cache: suma de los calculated_cost de sus líneas de receta no
// opcionales al momento del último recálculo; se recalcula sincrónicamente al
// cambiar la receta o al cambiar el precio de un material del que depende
// (directa o transitivamente). BundlePrice, si está presente, fija el precio
// total del producto y cortocircuita todo el cálculo de precios por receta
// (el costo sí sigue recorriendo la receta).
type Product struct {
	ID            string
	ExternalID    *int64 // ID del producto en WooCommerce (nil = aún no sincronizado)
	SKU           string // único
	Name          string
	Category      string
	BasePrice     decimal.Decimal  // precio de venta regular
	SupplierCost  decimal.Decimal  // costo de adquirir una unidad ya hecha (0 si se prepara)
	UnitCost      decimal.Decimal  // derivado: suma de costos de líneas no opcionales
	BundlePrice   *decimal.Decimal // override de precio fijo para combos (nil = sin override)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasBundlePrice indica si el producto tiene precio fijo de combo.
func (p *Product) HasBundlePrice() bool {
	return p.BundlePrice != nil
}
