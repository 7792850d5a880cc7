package sales

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
	"github.com/jhoicas/cafe-pos-api/internal/domain/expansion"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
	"github.com/jhoicas/cafe-pos-api/pkg/logger"
)

// ── Fakes en memoria ──────────────────────────────────────────────────────────

type fakeMaterialRepo struct {
	materials map[string]*entity.Material
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{materials: map[string]*entity.Material{}}
}

func (r *fakeMaterialRepo) Create(m *entity.Material) error { r.materials[m.ID] = m; return nil }
func (r *fakeMaterialRepo) GetByID(id string) (*entity.Material, error) {
	return r.materials[id], nil
}
func (r *fakeMaterialRepo) List(limit, offset int) ([]*entity.Material, error) { return nil, nil }
func (r *fakeMaterialRepo) ListLowStock() ([]*entity.Material, error)         { return nil, nil }
func (r *fakeMaterialRepo) Update(m *entity.Material) error                    { r.materials[m.ID] = m; return nil }
func (r *fakeMaterialRepo) AdjustStock(materialID string, delta decimal.Decimal) (decimal.Decimal, error) {
	m, ok := r.materials[materialID]
	if !ok {
		return decimal.Zero, fmt.Errorf("material %s no existe", materialID)
	}
	m.StockQty = m.StockQty.Add(delta)
	return m.StockQty, nil
}
func (r *fakeMaterialRepo) Delete(id string) error { delete(r.materials, id); return nil }

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*entity.Product{}}
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) GetByExternalID(externalID int64) (*entity.Product, error) {
	for _, p := range r.products {
		if p.ExternalID != nil && *p.ExternalID == externalID {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Update(p *entity.Product) error                    { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) UpdateUnitCost(productID string, unitCost decimal.Decimal) error {
	if p, ok := r.products[productID]; ok {
		p.UnitCost = unitCost
	}
	return nil
}
func (r *fakeProductRepo) Delete(id string) error { delete(r.products, id); return nil }

type fakeRecipeRepo struct {
	lines map[string][]*entity.RecipeLine // por producto dueño
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{lines: map[string][]*entity.RecipeLine{}}
}

func (r *fakeRecipeRepo) CreateLine(l *entity.RecipeLine) error {
	r.lines[l.ProductID] = append(r.lines[l.ProductID], l)
	return nil
}
func (r *fakeRecipeRepo) GetLineByID(id string) (*entity.RecipeLine, error) {
	for _, ls := range r.lines {
		for _, l := range ls {
			if l.ID == id {
				return l, nil
			}
		}
	}
	return nil, nil
}
func (r *fakeRecipeRepo) ListByProduct(productID string) ([]*entity.RecipeLine, error) {
	return r.lines[productID], nil
}
func (r *fakeRecipeRepo) ListByMaterial(materialID string) ([]*entity.RecipeLine, error) {
	return nil, nil
}
func (r *fakeRecipeRepo) ListByLinkedProduct(linkedProductID string) ([]*entity.RecipeLine, error) {
	return nil, nil
}
func (r *fakeRecipeRepo) UpdateLine(l *entity.RecipeLine) error { return nil }
func (r *fakeRecipeRepo) UpdateCalculatedCost(lineID string, cost decimal.Decimal) error {
	return nil
}
func (r *fakeRecipeRepo) ReorderLines(productID string, lineIDs []string) error { return nil }
func (r *fakeRecipeRepo) DeleteLine(id string) error                            { return nil }

type fakeConsumptionRepo struct {
	records []*entity.ConsumptionRecord
}

func (r *fakeConsumptionRepo) Create(rec *entity.ConsumptionRecord) error {
	r.records = append(r.records, rec)
	return nil
}
func (r *fakeConsumptionRepo) ListByOrder(orderID string) ([]*entity.ConsumptionRecord, error) {
	var out []*entity.ConsumptionRecord
	for _, rec := range r.records {
		if rec.OrderID == orderID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeSaleRepo struct {
	items []*entity.SaleItem
}

func (r *fakeSaleRepo) Create(item *entity.SaleItem) error {
	r.items = append(r.items, item)
	return nil
}
func (r *fakeSaleRepo) ListByOrder(orderID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, it := range r.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

// fakeTxRunner ejecuta el callback contra los mismos fakes, sin transacción
// real. Suficiente para probar la lógica del recorrido.
type fakeTxRunner struct {
	materialRepo    repository.MaterialRepository
	consumptionRepo repository.ConsumptionRepository
	saleRepo        repository.SaleRepository
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	materialRepo repository.MaterialRepository,
	consumptionRepo repository.ConsumptionRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return fn(t.materialRepo, t.consumptionRepo, t.saleRepo)
}

var (
	_ repository.MaterialRepository    = (*fakeMaterialRepo)(nil)
	_ repository.ProductRepository     = (*fakeProductRepo)(nil)
	_ repository.RecipeRepository      = (*fakeRecipeRepo)(nil)
	_ repository.ConsumptionRepository = (*fakeConsumptionRepo)(nil)
	_ repository.SaleRepository        = (*fakeSaleRepo)(nil)
	_ TxRunner                         = (*fakeTxRunner)(nil)
)

// ── Escenario ─────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func int64Ptr(v int64) *int64 { return &v }

type fixture struct {
	materials   *fakeMaterialRepo
	products    *fakeProductRepo
	recipes     *fakeRecipeRepo
	consumption *fakeConsumptionRepo
	sales       *fakeSaleRepo
	uc          *RecordSaleUseCase
}

// buildLatteFixture arma un latte (id externo 101) con café, leche y vaso, un
// shot de vainilla opcional (subproducto con jarabe) y un muffin comprado
// hecho (id externo 202, solo costo de proveedor).
func buildLatteFixture() *fixture {
	f := &fixture{
		materials:   newFakeMaterialRepo(),
		products:    newFakeProductRepo(),
		recipes:     newFakeRecipeRepo(),
		consumption: &fakeConsumptionRepo{},
		sales:       &fakeSaleRepo{},
	}

	f.materials.materials["mat-cafe"] = &entity.Material{
		ID: "mat-cafe", Name: "Café molido", Category: entity.MaterialCategoryIngredient,
		PurchaseUnit: "g", PurchaseQty: dec("500"), PurchaseCost: dec("75"),
		CostPerUnit: dec("0.15"), StockQty: dec("500"),
	}
	f.materials.materials["mat-leche"] = &entity.Material{
		ID: "mat-leche", Name: "Leche entera", Category: entity.MaterialCategoryIngredient,
		PurchaseUnit: "ml", PurchaseQty: dec("1000"), PurchaseCost: dec("6.50"),
		CostPerUnit: dec("0.0065"), StockQty: dec("1000"),
	}
	f.materials.materials["mat-vaso"] = &entity.Material{
		ID: "mat-vaso", Name: "Vaso 12oz", Category: entity.MaterialCategoryPackaging,
		PurchaseUnit: "unidad", PurchaseQty: dec("100"), PurchaseCost: dec("50"),
		CostPerUnit: dec("0.50"), StockQty: dec("100"),
	}
	f.materials.materials["mat-jarabe"] = &entity.Material{
		ID: "mat-jarabe", Name: "Jarabe de vainilla", Category: entity.MaterialCategoryIngredient,
		PurchaseUnit: "ml", PurchaseQty: dec("750"), PurchaseCost: dec("15"),
		CostPerUnit: dec("0.02"), StockQty: dec("750"),
	}

	f.products.products["prod-latte"] = &entity.Product{
		ID: "prod-latte", ExternalID: int64Ptr(101), SKU: "LATTE-12",
		Name: "Latte", BasePrice: dec("12.00"),
	}
	f.products.products["prod-vainilla"] = &entity.Product{
		ID: "prod-vainilla", SKU: "SHOT-VAI", Name: "Shot de vainilla",
		BasePrice: dec("2.00"),
	}
	f.products.products["prod-muffin"] = &entity.Product{
		ID: "prod-muffin", ExternalID: int64Ptr(202), SKU: "MUF-ARA",
		Name: "Muffin de arándanos", BasePrice: dec("8.00"), SupplierCost: dec("2.60"),
	}

	f.recipes.lines["prod-latte"] = []*entity.RecipeLine{
		{ID: "rl-cafe", ProductID: "prod-latte", ItemType: entity.RecipeItemMaterial, MaterialID: "mat-cafe", Quantity: dec("12"), Unit: "g", SortOrder: 0},
		{ID: "rl-leche", ProductID: "prod-latte", ItemType: entity.RecipeItemMaterial, MaterialID: "mat-leche", Quantity: dec("250"), Unit: "ml", SortOrder: 1},
		{ID: "rl-vaso", ProductID: "prod-latte", ItemType: entity.RecipeItemMaterial, MaterialID: "mat-vaso", Quantity: dec("1"), Unit: "unidad", SortOrder: 2},
		{ID: "rl-vainilla", ProductID: "prod-latte", ItemType: entity.RecipeItemProduct, LinkedProductID: "prod-vainilla", LinkedProductName: "Shot de vainilla", Quantity: dec("1"), IsOptional: true, PriceAdjustment: decPtr("2.00"), SortOrder: 3},
	}
	f.recipes.lines["prod-vainilla"] = []*entity.RecipeLine{
		{ID: "rl-jarabe", ProductID: "prod-vainilla", ItemType: entity.RecipeItemMaterial, MaterialID: "mat-jarabe", Quantity: dec("30"), Unit: "ml", SortOrder: 0},
	}

	log := logger.Nop()
	catalog := NewRepoCatalog(f.materials, f.products, f.recipes)
	engine := expansion.NewEngine(catalog, log)
	txRunner := &fakeTxRunner{materialRepo: f.materials, consumptionRepo: f.consumption, saleRepo: f.sales}
	f.uc = NewRecordSaleUseCase(f.products, f.recipes, f.materials, f.consumption, engine, txRunner, log)
	return f
}

func countByType(records []dto.ConsumptionRecordResponse, recordType string) int {
	n := 0
	for _, r := range records {
		if r.RecordType == recordType {
			n++
		}
	}
	return n
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRecordSale_LatteDescuentaStockYRegistraConsumo(t *testing.T) {
	f := buildLatteFixture()

	resp, err := f.uc.Execute(context.Background(), dto.RecordSaleRequest{
		OrderID: "wc-1001",
		Items: []dto.RecordSaleItem{
			{ExternalProductID: 101, ProductName: "Latte", Quantity: dec("1"), OrderItemID: "item-1"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Len(t, resp.Records, 3, "tres materiales consumidos, el opcional no seleccionado no registra")
	assert.Equal(t, 3, countByType(resp.Records, entity.ConsumptionTypeMaterial))

	// Stock descontado exactamente lo que pide la receta.
	assert.True(t, dec("488").Equal(f.materials.materials["mat-cafe"].StockQty), "café: 500 - 12")
	assert.True(t, dec("750").Equal(f.materials.materials["mat-leche"].StockQty), "leche: 1000 - 250")
	assert.True(t, dec("99").Equal(f.materials.materials["mat-vaso"].StockQty), "vaso: 100 - 1")
	assert.True(t, dec("750").Equal(f.materials.materials["mat-jarabe"].StockQty), "jarabe intacto: opcional no pedido")

	// COGS del ítem = 12×0.15 + 250×0.0065 + 1×0.50 = 3.925
	require.Len(t, f.sales.items, 1)
	item := f.sales.items[0]
	assert.True(t, dec("3.925").Equal(item.TotalCOGS), "COGS esperado 3.925, obtuvo %s", item.TotalCOGS)
	assert.True(t, dec("12.00").Equal(item.UnitPrice), "sin precio explícito se usa el motor de precios")
	assert.Equal(t, "prod-latte", item.ProductID)
}

func TestRecordSale_OpcionalSeleccionadoConsumeElSubproducto(t *testing.T) {
	f := buildLatteFixture()

	resp, err := f.uc.Execute(context.Background(), dto.RecordSaleRequest{
		OrderID: "wc-1002",
		Items: []dto.RecordSaleItem{
			{
				ExternalProductID: 101,
				Quantity:          dec("1"),
				OrderItemID:       "item-1",
				Selection:         dto.SelectionDTO{SelectedOptional: []string{"prod-vainilla"}},
			},
		},
	})
	require.NoError(t, err)

	// 3 materiales + fila de visibilidad del subproducto + jarabe del subproducto.
	assert.Len(t, resp.Records, 5)
	assert.Equal(t, 1, countByType(resp.Records, entity.ConsumptionTypeLinkedProduct))
	assert.True(t, dec("720").Equal(f.materials.materials["mat-jarabe"].StockQty), "jarabe: 750 - 30")

	// La fila LINKED_PRODUCT siempre lleva costo 0.
	for _, r := range resp.Records {
		if r.RecordType == entity.ConsumptionTypeLinkedProduct {
			assert.True(t, r.TotalCost.IsZero(), "la fila de visibilidad no aporta costo")
			assert.Equal(t, 0, r.Depth)
		}
		if r.MaterialID == "mat-jarabe" {
			assert.Equal(t, 1, r.Depth, "el jarabe se consume un nivel abajo")
		}
	}

	// COGS = 3.925 + 30×0.02 = 4.525; precio = 12.00 + 2.00 de ajuste + 2.00 base del shot.
	require.Len(t, f.sales.items, 1)
	assert.True(t, dec("4.525").Equal(f.sales.items[0].TotalCOGS))
	assert.True(t, dec("16.00").Equal(f.sales.items[0].UnitPrice))
}

func TestRecordSale_CantidadMultiplicaElConsumo(t *testing.T) {
	f := buildLatteFixture()

	_, err := f.uc.Execute(context.Background(), dto.RecordSaleRequest{
		OrderID: "wc-1003",
		Items: []dto.RecordSaleItem{
			{ExternalProductID: 101, Quantity: dec("3"), OrderItemID: "item-1"},
		},
	})
	require.NoError(t, err)

	assert.True(t, dec("464").Equal(f.materials.materials["mat-cafe"].StockQty), "café: 500 - 36")
	assert.True(t, dec("250").Equal(f.materials.materials["mat-leche"].StockQty), "leche: 1000 - 750")
	assert.True(t, dec("97").Equal(f.materials.materials["mat-vaso"].StockQty))
}

func TestRecordSale_ProductoCompradoHechoRegistraCostoProveedor(t *testing.T) {
	f := buildLatteFixture()

	resp, err := f.uc.Execute(context.Background(), dto.RecordSaleRequest{
		OrderID: "wc-1004",
		Items: []dto.RecordSaleItem{
			{ExternalProductID: 202, Quantity: dec("2"), OrderItemID: "item-1"},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Records, 1)
	rec := resp.Records[0]
	assert.Equal(t, entity.ConsumptionTypeSupplierCost, rec.RecordType)
	assert.True(t, dec("5.20").Equal(rec.TotalCost), "2 × 2.60")
	assert.True(t, dec("5.20").Equal(f.sales.items[0].TotalCOGS))
}

func TestRecordSale_ProductoExternoSinMapeoNoFallaLaOrden(t *testing.T) {
	f := buildLatteFixture()

	resp, err := f.uc.Execute(context.Background(), dto.RecordSaleRequest{
		OrderID: "wc-1005",
		Items: []dto.RecordSaleItem{
			{ExternalProductID: 999, ProductName: "Producto desconocido", Quantity: dec("1"), OrderItemID: "item-1"},
			{ExternalProductID: 101, Quantity: dec("1"), OrderItemID: "item-2"},
		},
	})
	require.NoError(t, err, "un ítem sin mapeo local no debe tumbar la orden completa")

	assert.Len(t, resp.Records, 3, "solo el latte genera registros")
	assert.Len(t, f.sales.items, 1, "el ítem desconocido no deja fila histórica")
}

func TestRecordSale_OrdenRepetidaEsIdempotente(t *testing.T) {
	f := buildLatteFixture()

	req := dto.RecordSaleRequest{
		OrderID: "wc-1006",
		Items: []dto.RecordSaleItem{
			{ExternalProductID: 101, Quantity: dec("1"), OrderItemID: "item-1"},
		},
	}
	first, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	stockAfterFirst := f.materials.materials["mat-cafe"].StockQty

	second, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, second.Records, len(first.Records), "la repetición devuelve los registros existentes")
	assert.True(t, stockAfterFirst.Equal(f.materials.materials["mat-cafe"].StockQty), "el stock no se descuenta dos veces")
	assert.Len(t, f.sales.items, 1)
}

func TestRecordSale_PrecioExplicitoDeLaOrdenTienePrioridad(t *testing.T) {
	f := buildLatteFixture()

	_, err := f.uc.Execute(context.Background(), dto.RecordSaleRequest{
		OrderID: "wc-1007",
		Items: []dto.RecordSaleItem{
			{ExternalProductID: 101, Quantity: dec("2"), OrderItemID: "item-1", UnitPrice: decPtr("10.50")},
		},
	})
	require.NoError(t, err)

	require.Len(t, f.sales.items, 1)
	assert.True(t, dec("10.50").Equal(f.sales.items[0].UnitPrice), "el precio cobrado por la tienda manda")
	assert.True(t, dec("21.00").Equal(f.sales.items[0].TotalPrice))
}

func TestRecordSale_StockNegativoNoRechazaLaVenta(t *testing.T) {
	f := buildLatteFixture()
	f.materials.materials["mat-cafe"].StockQty = dec("5")

	resp, err := f.uc.Execute(context.Background(), dto.RecordSaleRequest{
		OrderID: "wc-1008",
		Items: []dto.RecordSaleItem{
			{ExternalProductID: 101, Quantity: dec("1"), OrderItemID: "item-1"},
		},
	})
	require.NoError(t, err, "el modelo es backorder: la venta ya ocurrió")
	assert.Len(t, resp.Records, 3)
	assert.True(t, dec("-7").Equal(f.materials.materials["mat-cafe"].StockQty), "5 - 12 = -7")
}

func TestRecordSale_EntradaInvalida(t *testing.T) {
	f := buildLatteFixture()

	_, err := f.uc.Execute(context.Background(), dto.RecordSaleRequest{OrderID: "", Items: nil})
	assert.Error(t, err)
}

func TestRecordSale_CicloEnRecetaNoCuelga(t *testing.T) {
	f := buildLatteFixture()
	f.products.products["prod-a"] = &entity.Product{ID: "prod-a", ExternalID: int64Ptr(301), SKU: "A", Name: "A", BasePrice: dec("1.00")}
	f.products.products["prod-b"] = &entity.Product{ID: "prod-b", SKU: "B", Name: "B", BasePrice: dec("1.00")}
	f.recipes.lines["prod-a"] = []*entity.RecipeLine{
		{ID: "rl-a", ProductID: "prod-a", ItemType: entity.RecipeItemProduct, LinkedProductID: "prod-b", Quantity: dec("1")},
	}
	f.recipes.lines["prod-b"] = []*entity.RecipeLine{
		{ID: "rl-b", ProductID: "prod-b", ItemType: entity.RecipeItemProduct, LinkedProductID: "prod-a", Quantity: dec("1")},
	}

	assert.NotPanics(t, func() {
		resp, err := f.uc.Execute(context.Background(), dto.RecordSaleRequest{
			OrderID: "wc-1009",
			Items: []dto.RecordSaleItem{
				{ExternalProductID: 301, Quantity: dec("1"), OrderItemID: "item-1"},
			},
		})
		require.NoError(t, err)
		assert.NotNil(t, resp)
	})
}
