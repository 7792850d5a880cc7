package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
	"github.com/jhoicas/cafe-pos-api/pkg/logger"
)

// Fakes en memoria de los puertos de persistencia.

type memMaterialRepo struct {
	materials map[string]*entity.Material
}

var _ repository.MaterialRepository = (*memMaterialRepo)(nil)

func (r *memMaterialRepo) Create(m *entity.Material) error { r.materials[m.ID] = m; return nil }
func (r *memMaterialRepo) GetByID(id string) (*entity.Material, error) {
	return r.materials[id], nil
}
func (r *memMaterialRepo) List(limit, offset int) ([]*entity.Material, error) { return nil, nil }
func (r *memMaterialRepo) ListLowStock() ([]*entity.Material, error)         { return nil, nil }
func (r *memMaterialRepo) Update(m *entity.Material) error                   { r.materials[m.ID] = m; return nil }
func (r *memMaterialRepo) AdjustStock(materialID string, delta decimal.Decimal) (decimal.Decimal, error) {
	m := r.materials[materialID]
	m.StockQty = m.StockQty.Add(delta)
	return m.StockQty, nil
}
func (r *memMaterialRepo) Delete(id string) error { delete(r.materials, id); return nil }

type memProductRepo struct {
	products map[string]*entity.Product
}

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) GetByExternalID(externalID int64) (*entity.Product, error) {
	for _, p := range r.products {
		if p.ExternalID != nil && *p.ExternalID == externalID {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) Update(p *entity.Product) error                    { r.products[p.ID] = p; return nil }
func (r *memProductRepo) UpdateUnitCost(productID string, unitCost decimal.Decimal) error {
	r.products[productID].UnitCost = unitCost
	return nil
}
func (r *memProductRepo) Delete(id string) error { delete(r.products, id); return nil }

type memRecipeRepo struct {
	lines map[string]*entity.RecipeLine // por id de línea
}

var _ repository.RecipeRepository = (*memRecipeRepo)(nil)

func (r *memRecipeRepo) CreateLine(l *entity.RecipeLine) error { r.lines[l.ID] = l; return nil }
func (r *memRecipeRepo) GetLineByID(id string) (*entity.RecipeLine, error) {
	return r.lines[id], nil
}
func (r *memRecipeRepo) ListByProduct(productID string) ([]*entity.RecipeLine, error) {
	var out []*entity.RecipeLine
	for _, l := range r.lines {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *memRecipeRepo) ListByMaterial(materialID string) ([]*entity.RecipeLine, error) {
	var out []*entity.RecipeLine
	for _, l := range r.lines {
		if l.ItemType == entity.RecipeItemMaterial && l.MaterialID == materialID {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *memRecipeRepo) ListByLinkedProduct(linkedProductID string) ([]*entity.RecipeLine, error) {
	var out []*entity.RecipeLine
	for _, l := range r.lines {
		if l.ItemType == entity.RecipeItemProduct && l.LinkedProductID == linkedProductID {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *memRecipeRepo) UpdateLine(l *entity.RecipeLine) error { r.lines[l.ID] = l; return nil }
func (r *memRecipeRepo) UpdateCalculatedCost(lineID string, cost decimal.Decimal) error {
	r.lines[lineID].CalculatedCost = cost
	return nil
}
func (r *memRecipeRepo) ReorderLines(productID string, lineIDs []string) error { return nil }
func (r *memRecipeRepo) DeleteLine(id string) error                            { delete(r.lines, id); return nil }

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func dPtr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// costFixture arma una cadena de tres niveles:
//
//	café molido (500g a $75, $0.15/g)
//	  └ 18g en "Espresso doble" (unit_cost 2.70)
//	      └ 1 en "Latte" + 250ml de leche (unit_cost 2.70 + 1.625 = 4.325)
//	          └ 1 en "Combo desayuno" (unit_cost 4.325)
type costCascadeFixture struct {
	materials *memMaterialRepo
	products  *memProductRepo
	recipes   *memRecipeRepo
	recoster  *Recoster
	uc        *MaterialUseCase
}

func buildCostCascadeFixture() *costCascadeFixture {
	f := &costCascadeFixture{
		materials: &memMaterialRepo{materials: map[string]*entity.Material{}},
		products:  &memProductRepo{products: map[string]*entity.Product{}},
		recipes:   &memRecipeRepo{lines: map[string]*entity.RecipeLine{}},
	}

	f.materials.materials["mat-cafe"] = &entity.Material{
		ID: "mat-cafe", Name: "Café molido", Category: entity.MaterialCategoryIngredient,
		PurchaseUnit: "g", PurchaseQty: d("500"), PurchaseCost: d("75"),
		CostPerUnit: d("0.15"), StockQty: d("500"),
	}
	f.materials.materials["mat-leche"] = &entity.Material{
		ID: "mat-leche", Name: "Leche entera", Category: entity.MaterialCategoryIngredient,
		PurchaseUnit: "ml", PurchaseQty: d("1000"), PurchaseCost: d("6.50"),
		CostPerUnit: d("0.0065"), StockQty: d("1000"),
	}

	f.products.products["prod-espresso"] = &entity.Product{
		ID: "prod-espresso", SKU: "ESP-2", Name: "Espresso doble",
		BasePrice: d("6.00"), UnitCost: d("2.70"),
	}
	f.products.products["prod-latte"] = &entity.Product{
		ID: "prod-latte", SKU: "LATTE-12", Name: "Latte",
		BasePrice: d("12.00"), UnitCost: d("4.325"),
	}
	f.products.products["prod-combo"] = &entity.Product{
		ID: "prod-combo", SKU: "COMBO-DES", Name: "Combo desayuno",
		BasePrice: d("18.00"), UnitCost: d("4.325"),
	}

	f.recipes.lines["rl-esp-cafe"] = &entity.RecipeLine{
		ID: "rl-esp-cafe", ProductID: "prod-espresso", ItemType: entity.RecipeItemMaterial,
		MaterialID: "mat-cafe", Quantity: d("18"), Unit: "g", CalculatedCost: d("2.70"),
	}
	f.recipes.lines["rl-latte-esp"] = &entity.RecipeLine{
		ID: "rl-latte-esp", ProductID: "prod-latte", ItemType: entity.RecipeItemProduct,
		LinkedProductID: "prod-espresso", Quantity: d("1"), CalculatedCost: d("2.70"),
	}
	f.recipes.lines["rl-latte-leche"] = &entity.RecipeLine{
		ID: "rl-latte-leche", ProductID: "prod-latte", ItemType: entity.RecipeItemMaterial,
		MaterialID: "mat-leche", Quantity: d("250"), Unit: "ml", CalculatedCost: d("1.625"),
	}
	f.recipes.lines["rl-combo-latte"] = &entity.RecipeLine{
		ID: "rl-combo-latte", ProductID: "prod-combo", ItemType: entity.RecipeItemProduct,
		LinkedProductID: "prod-latte", Quantity: d("1"), CalculatedCost: d("4.325"),
	}

	log := logger.Nop()
	f.recoster = NewRecoster(f.materials, f.products, f.recipes, log)
	f.uc = NewMaterialUseCase(f.materials, f.recoster, log)
	return f
}

func TestRecoster_CambioDePrecioDeMaterialCascadaHastaElCombo(t *testing.T) {
	f := buildCostCascadeFixture()

	// El café sube de $75 a $100 las 500g: $0.20/g.
	resp, err := f.uc.Update("mat-cafe", dto.UpdateMaterialRequest{PurchaseCost: dPtr("100")})

	require.NoError(t, err)
	assert.True(t, d("0.2").Equal(resp.CostPerUnit), "costo unitario derivado de la compra")

	// Línea del espresso: 18g × 0.20 = 3.60.
	assert.True(t, d("3.60").Equal(f.recipes.lines["rl-esp-cafe"].CalculatedCost))
	assert.True(t, d("3.60").Equal(f.products.products["prod-espresso"].UnitCost))

	// Latte: espresso (3.60) + leche sin cambio (1.625) = 5.225.
	assert.True(t, d("3.60").Equal(f.recipes.lines["rl-latte-esp"].CalculatedCost))
	assert.True(t, d("5.225").Equal(f.products.products["prod-latte"].UnitCost),
		"el costo del latte debe sumar la línea ya actualizada del espresso")

	// Combo: transita un nivel más arriba.
	assert.True(t, d("5.225").Equal(f.recipes.lines["rl-combo-latte"].CalculatedCost))
	assert.True(t, d("5.225").Equal(f.products.products["prod-combo"].UnitCost))
}

func TestRecoster_CambioSinPrecioNoDisparaCascada(t *testing.T) {
	f := buildCostCascadeFixture()

	name := "Café molido premium"
	resp, err := f.uc.Update("mat-cafe", dto.UpdateMaterialRequest{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Café molido premium", resp.Name)
	assert.True(t, d("2.70").Equal(f.recipes.lines["rl-esp-cafe"].CalculatedCost),
		"renombrar no debe tocar los costos cacheados")
	assert.True(t, d("2.70").Equal(f.products.products["prod-espresso"].UnitCost))
}

func TestRecoster_LineasOpcionalesNoSumanAlCostoUnitario(t *testing.T) {
	f := buildCostCascadeFixture()
	f.recipes.lines["rl-latte-esp"].IsOptional = true

	err := f.recoster.RecostMaterial("mat-cafe")

	require.NoError(t, err)
	assert.True(t, d("1.625").Equal(f.products.products["prod-latte"].UnitCost),
		"una línea opcional no participa del unit_cost cacheado")
}

func TestRecoster_DosLineasDelMismoMaterialSumanAmbas(t *testing.T) {
	f := buildCostCascadeFixture()
	f.recipes.lines["rl-esp-extra"] = &entity.RecipeLine{
		ID: "rl-esp-extra", ProductID: "prod-espresso", ItemType: entity.RecipeItemMaterial,
		MaterialID: "mat-cafe", Quantity: d("2"), Unit: "g", CalculatedCost: d("0.30"),
	}

	err := f.recoster.RecostMaterial("mat-cafe")

	require.NoError(t, err)
	// 18g + 2g a 0.15 = 3.00; ambas líneas actualizadas antes de sumar.
	assert.True(t, d("3.00").Equal(f.products.products["prod-espresso"].UnitCost))
}

func TestRecoster_CicloEnElGrafoNoCuelga(t *testing.T) {
	f := buildCostCascadeFixture()
	// El combo enlaza al latte y el latte (por error de datos) al combo.
	f.recipes.lines["rl-latte-combo"] = &entity.RecipeLine{
		ID: "rl-latte-combo", ProductID: "prod-latte", ItemType: entity.RecipeItemProduct,
		LinkedProductID: "prod-combo", Quantity: d("1"), CalculatedCost: d("0"),
	}

	err := f.recoster.RecostMaterial("mat-cafe")

	require.NoError(t, err, "el conjunto de visitados corta el ciclo")
}

func TestRecoster_CostoDeLineaDeProductoIncluyeCostoDeProveedor(t *testing.T) {
	f := buildCostCascadeFixture()
	f.products.products["prod-muffin"] = &entity.Product{
		ID: "prod-muffin", SKU: "MUF-ARA", Name: "Muffin de arándanos",
		BasePrice: d("8.00"), SupplierCost: d("2.60"),
	}
	line := &entity.RecipeLine{
		ID: "rl-combo-muffin", ProductID: "prod-combo", ItemType: entity.RecipeItemProduct,
		LinkedProductID: "prod-muffin", Quantity: d("1"),
	}

	cost, err := f.recoster.LineCost(line)

	require.NoError(t, err)
	assert.True(t, d("2.60").Equal(cost), "producto comprado hecho aporta su costo de proveedor")
}
