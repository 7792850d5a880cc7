package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Materiales ────────────────────────────────────────────────────────────────

// CreateMaterialRequest entrada para crear una materia prima.
type CreateMaterialRequest struct {
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	Category          string          `json:"category" validate:"required,oneof=ingredient packaging consumable"`
	PurchaseUnit      string          `json:"purchase_unit" validate:"required"`
	PurchaseQty       decimal.Decimal `json:"purchase_qty"`
	PurchaseCost      decimal.Decimal `json:"purchase_cost"`
	StockQty          decimal.Decimal `json:"stock_qty"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// UpdateMaterialRequest entrada para actualizar una materia prima.
// Cambiar PurchaseQty/PurchaseCost dispara el recosteo en cascada de recetas.
type UpdateMaterialRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category          *string          `json:"category"`
	PurchaseUnit      *string          `json:"purchase_unit"`
	PurchaseQty       *decimal.Decimal `json:"purchase_qty"`
	PurchaseCost      *decimal.Decimal `json:"purchase_cost"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold"`
}

// AdjustStockRequest entrada para un ajuste manual de stock (recepción de compra o merma).
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta" validate:"required"`
	Reason string          `json:"reason"`
}

// MaterialResponse salida de una materia prima.
type MaterialResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	PurchaseUnit      string          `json:"purchase_unit"`
	PurchaseQty       decimal.Decimal `json:"purchase_qty"`
	PurchaseCost      decimal.Decimal `json:"purchase_cost"`
	CostPerUnit       decimal.Decimal `json:"cost_per_unit"`
	StockQty          decimal.Decimal `json:"stock_qty"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// MaterialListResponse lista paginada de materiales.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ── Productos ─────────────────────────────────────────────────────────────────

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU          string           `json:"sku" validate:"required,min=1,max=100"`
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	Category     string           `json:"category"`
	ExternalID   *int64           `json:"external_id"`
	BasePrice    decimal.Decimal  `json:"base_price"`
	SupplierCost decimal.Decimal  `json:"supplier_cost"`
	BundlePrice  *decimal.Decimal `json:"bundle_price"`
}

// UpdateProductRequest entrada para actualizar un producto (UnitCost no es editable: es cache).
type UpdateProductRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category         *string          `json:"category"`
	ExternalID       *int64           `json:"external_id"`
	BasePrice        *decimal.Decimal `json:"base_price"`
	SupplierCost     *decimal.Decimal `json:"supplier_cost"`
	BundlePrice      *decimal.Decimal `json:"bundle_price"`
	ClearBundlePrice bool             `json:"clear_bundle_price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string           `json:"id"`
	ExternalID   *int64           `json:"external_id"`
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	BasePrice    decimal.Decimal  `json:"base_price"`
	SupplierCost decimal.Decimal  `json:"supplier_cost"`
	UnitCost     decimal.Decimal  `json:"unit_cost"`
	BundlePrice  *decimal.Decimal `json:"bundle_price"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ── Recetas ───────────────────────────────────────────────────────────────────

// CreateRecipeLineRequest entrada para agregar una línea a la receta de un producto.
// Exactamente uno de MaterialID / LinkedProductID según ItemType.
type CreateRecipeLineRequest struct {
	ItemType        string           `json:"item_type" validate:"required,oneof=material product"`
	MaterialID      string           `json:"material_id"`
	LinkedProductID string           `json:"linked_product_id"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Unit            string           `json:"unit"`
	PriceAdjustment *decimal.Decimal `json:"price_adjustment"`
	IsOptional      bool             `json:"is_optional"`
	SelectionGroup  string           `json:"selection_group"`
}

// UpdateRecipeLineRequest entrada para modificar una línea de receta.
type UpdateRecipeLineRequest struct {
	Quantity        *decimal.Decimal `json:"quantity"`
	Unit            *string          `json:"unit"`
	PriceAdjustment *decimal.Decimal `json:"price_adjustment"`
	IsOptional      *bool            `json:"is_optional"`
	SelectionGroup  *string          `json:"selection_group"`
}

// ReorderRecipeRequest nueva ordenación completa de las líneas de un producto.
type ReorderRecipeRequest struct {
	LineIDs []string `json:"line_ids" validate:"required,min=1"`
}

// RecipeLineResponse salida de una línea de receta.
type RecipeLineResponse struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	ItemType          string           `json:"item_type"`
	MaterialID        string           `json:"material_id,omitempty"`
	MaterialName      string           `json:"material_name,omitempty"`
	LinkedProductID   string           `json:"linked_product_id,omitempty"`
	LinkedProductName string           `json:"linked_product_name,omitempty"`
	Quantity          decimal.Decimal  `json:"quantity"`
	Unit              string           `json:"unit"`
	CalculatedCost    decimal.Decimal  `json:"calculated_cost"`
	PriceAdjustment   *decimal.Decimal `json:"price_adjustment,omitempty"`
	IsOptional        bool             `json:"is_optional"`
	SelectionGroup    string           `json:"selection_group,omitempty"`
	SortOrder         int              `json:"sort_order"`
}

// RecipeResponse receta completa de un producto con el costo unitario cacheado.
type RecipeResponse struct {
	ProductID string               `json:"product_id"`
	UnitCost  decimal.Decimal      `json:"unit_cost"`
	Lines     []RecipeLineResponse `json:"lines"`
}
