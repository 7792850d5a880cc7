package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de registro de consumo.
const (
	ConsumptionTypeMaterial      = "MATERIAL"       // descuento real de stock de materia prima
	ConsumptionTypeLinkedProduct = "LINKED_PRODUCT" // fila de visibilidad, costo forzado a 0
	ConsumptionTypeSupplierCost  = "SUPPLIER_COST"  // costo de adquisición del producto raíz
)

// ConsumptionRecord es la fila de auditoría append-only escrita por venta y por
// línea de receta contribuyente. Las filas LINKED_PRODUCT llevan costo 0 para
// no duplicar: el costo real del producto enlazado fluye de sus propios
// materiales/costo de proveedor descubiertos por la recursión. Nunca se muta.
type ConsumptionRecord struct {
	ID              string
	OrderID         string
	OrderItemID     string
	ProductID       string // producto raíz vendido
	ProductName     string
	RecipeLineID    string // vacío para la fila SUPPLIER_COST
	RecordType      string // MATERIAL | LINKED_PRODUCT | SUPPLIER_COST
	MaterialID      string
	LinkedProductID string
	Description     string
	QtyConsumed     decimal.Decimal
	UnitCost        decimal.Decimal
	TotalCost       decimal.Decimal
	Depth           int // nivel de anidamiento en la expansión (0 = raíz)
	CreatedAt       time.Time
}
