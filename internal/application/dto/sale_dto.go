package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SelectionDTO representación de las elecciones del cliente que cruza la
// frontera HTTP. Las claves de SelectedMandatory las construye el caller con
// la regla de alcance raíz-vs-anidado (producto que delimita el grupo + "::" +
// nombre del grupo). El core no valida que cada grupo XOR tenga exactamente
// una elección: una clave ausente excluye todas sus opciones en silencio.
type SelectionDTO struct {
	SelectedMandatory map[string]string `json:"selected_mandatory"`
	SelectedOptional  []string          `json:"selected_optional"`
}

// QuoteRequest entrada común de las tres operaciones de expansión.
type QuoteRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Selection SelectionDTO    `json:"selection"`
}

// ComponentResponse un componente entregable del aplanado.
type ComponentResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ComponentListResponse salida de flattenComponents.
type ComponentListResponse struct {
	ProductID  string              `json:"product_id"`
	Components []ComponentResponse `json:"components"`
}

// PriceResponse salida de priceOf.
type PriceResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// CostLineResponse una línea del desglose de COGS.
type CostLineResponse struct {
	RefType  string          `json:"ref_type"`
	RefID    string          `json:"ref_id"`
	Name     string          `json:"name"`
	Chain    string          `json:"chain"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Cost     decimal.Decimal `json:"cost"`
	Depth    int             `json:"depth"`
}

// CogsResponse salida de cogsOf: total más desglose para transparencia/debug.
type CogsResponse struct {
	ProductID string             `json:"product_id"`
	Quantity  decimal.Decimal    `json:"quantity"`
	Total     decimal.Decimal    `json:"total"`
	Breakdown []CostLineResponse `json:"breakdown"`
}

// RecordSaleRequest entrada para registrar el consumo de una venta completada.
// Puede traer varios ítems de la misma orden; todos se procesan en una sola
// transacción de base de datos.
type RecordSaleRequest struct {
	OrderID string            `json:"order_id" validate:"required"`
	Items   []RecordSaleItem  `json:"items" validate:"required,min=1"`
}

// RecordSaleItem un ítem de orden vendido.
// UnitPrice es opcional: si viene nil se calcula con el motor de precios.
type RecordSaleItem struct {
	ExternalProductID int64            `json:"external_product_id" validate:"required"`
	ProductName       string           `json:"product_name"`
	Quantity          decimal.Decimal  `json:"quantity"`
	OrderItemID       string           `json:"order_item_id"`
	UnitPrice         *decimal.Decimal `json:"unit_price"`
	Selection         SelectionDTO     `json:"selection"`
}

// ConsumptionRecordResponse una fila de auditoría de consumo.
type ConsumptionRecordResponse struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"order_id"`
	OrderItemID     string          `json:"order_item_id,omitempty"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	RecipeLineID    string          `json:"recipe_line_id,omitempty"`
	RecordType      string          `json:"record_type"`
	MaterialID      string          `json:"material_id,omitempty"`
	LinkedProductID string          `json:"linked_product_id,omitempty"`
	Description     string          `json:"description"`
	QtyConsumed     decimal.Decimal `json:"qty_consumed"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	Depth           int             `json:"depth"`
	CreatedAt       time.Time       `json:"created_at"`
}

// RecordSaleResponse salida del registro de venta.
type RecordSaleResponse struct {
	OrderID string                      `json:"order_id"`
	Records []ConsumptionRecordResponse `json:"records"`
}

// GuestCustomerResponse id del cliente genérico de mostrador en la tienda.
type GuestCustomerResponse struct {
	CustomerID int64 `json:"customer_id"`
}
