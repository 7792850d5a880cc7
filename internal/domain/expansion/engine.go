// Package expansion implementa el motor de expansión recursiva de recetas:
// tres recorridos cooperantes sobre el grafo producto→receta→producto/material
// con la raíz en un producto vendible.
//
//   - Flatten: la lista aplanada de componentes reales entregables (tiquete de
//     cocina / recibo). Nunca emite materiales.
//   - PriceOf: precio total de venta dadas las elecciones del cliente.
//   - CogsOf: costo de la mercancía vendida (COGS) con desglose por línea.
//
// Los tres comparten el predicado Include, el alcance de claves de grupo y los
// guardas de recursión, así que para una misma selección no pueden divergir
// sobre qué líneas participan. Los ciclos en el grafo de recetas son una
// violación de integridad de datos, no una característica: se detectan con un
// conjunto de ids visitados en el camino actual además del tope de profundidad,
// se registran como error y la rama no aporta nada.
package expansion

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
	"github.com/jhoicas/cafe-pos-api/pkg/logger"
)

// MaxDepth es el tope de niveles de recursión de cualquier recorrido.
const MaxDepth = 5

// Tipos de referencia de una línea del desglose de costos.
const (
	CostRefMaterial = "material"
	CostRefProduct  = "product"
	CostRefSupplier = "supplier_cost"
)

// Catalog es el puerto de lectura del motor. Cada llamada re-consulta los
// datos frescos: el motor no cachea, no memoiza y no reintenta.
// Convención de los repositorios: (nil, nil) cuando el id no resuelve.
type Catalog interface {
	GetMaterialByID(id string) (*entity.Material, error)
	GetProductByID(id string) (*entity.Product, error)
	GetRecipeLines(productID string) ([]*entity.RecipeLine, error)
}

// Component es un componente real entregable del aplanado.
type Component struct {
	ProductID string
	Name      string
	Quantity  decimal.Decimal
}

// CostLine es una línea del desglose de COGS.
type CostLine struct {
	RefType  string // material | product | supplier_cost
	RefID    string
	Name     string
	Chain    string // cadena de nombres de producto desde la raíz
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
	Cost     decimal.Decimal
	Depth    int
}

// CostBreakdown es el resultado de CogsOf: total más el desglose completo.
type CostBreakdown struct {
	Total decimal.Decimal
	Lines []CostLine
}

// Engine es el motor de expansión. Síncrono, sin estado entre llamadas.
type Engine struct {
	catalog Catalog
	log     *logger.Logger
}

// NewEngine construye el motor sobre un catálogo de solo lectura.
func NewEngine(catalog Catalog, log *logger.Logger) *Engine {
	return &Engine{catalog: catalog, log: log.Component("expansion")}
}

// ── Guardas de recursión ──────────────────────────────────────────────────────

// guard valida profundidad y ciclo antes de descender a productID.
// Devuelve false (y loguea error) si la rama debe abandonarse.
func (e *Engine) guard(op, productID string, depth int, visited map[string]bool) bool {
	if depth >= MaxDepth {
		e.log.Error().
			Str("op", op).
			Str("product_id", productID).
			Int("depth", depth).
			Msg("profundidad máxima de expansión excedida; rama descartada")
		return false
	}
	if visited[productID] {
		e.log.Error().
			Str("op", op).
			Str("product_id", productID).
			Msg("ciclo detectado en el grafo de recetas; rama descartada")
		return false
	}
	return true
}

// ── Aplanado de componentes ───────────────────────────────────────────────────

// Flatten produce la lista de componentes hoja entregables para un producto
// raíz, una selección y una cantidad, en el orden de la receta. Los materiales
// son invisibles a esta vista: quedan absorbidos en el costo del producto hoja
// que los usa.
func (e *Engine) Flatten(rootProductID string, sel Selection, qty decimal.Decimal) []Component {
	return e.flatten(rootProductID, sel, qty, 0, map[string]bool{})
}

func (e *Engine) flatten(productID string, sel Selection, qty decimal.Decimal, depth int, visited map[string]bool) []Component {
	if !e.guard("flatten", productID, depth, visited) {
		return nil
	}
	visited[productID] = true
	defer delete(visited, productID) // detección por camino, no por visita global

	lines, err := e.catalog.GetRecipeLines(productID)
	if err != nil {
		e.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudieron leer líneas de receta")
		return nil
	}

	var out []Component
	for _, line := range lines {
		if !Include(line, sel, productID) {
			continue
		}
		if line.ItemType != entity.RecipeItemProduct {
			continue
		}
		linked, err := e.catalog.GetProductByID(line.LinkedProductID)
		if err != nil || linked == nil {
			e.log.Warn().Err(err).
				Str("linked_product_id", line.LinkedProductID).
				Msg("producto enlazado no encontrado; línea omitida")
			continue
		}
		childLines, err := e.catalog.GetRecipeLines(linked.ID)
		if err != nil {
			e.log.Warn().Err(err).Str("product_id", linked.ID).Msg("no se pudieron leer líneas del producto enlazado")
			childLines = nil
		}
		hasProducts, hasGroups := scanLines(childLines)
		lineQty := line.Quantity.Mul(qty)

		// Bundle puro de subproductos sin elecciones internas: se recorre y se
		// empalman sus propios componentes en lugar de la línea. Si la
		// recursión no produce nada, cae al caso de emitir el producto tal cual.
		if hasProducts && !hasGroups {
			if sub := e.flatten(linked.ID, sel, lineQty, depth+1, visited); len(sub) > 0 {
				out = append(out, sub...)
				continue
			}
		}

		name := linked.Name
		if hasGroups {
			name = e.displayNameWithChoices(linked, childLines, sel)
		}
		out = append(out, Component{ProductID: linked.ID, Name: name, Quantity: lineQty})
	}
	return out
}

// scanLines reporta si las líneas contienen subproductos y si alguna usa grupo XOR.
func scanLines(lines []*entity.RecipeLine) (hasProducts, hasGroups bool) {
	for _, l := range lines {
		if l.ItemType == entity.RecipeItemProduct {
			hasProducts = true
		}
		if l.SelectionGroup != "" {
			hasGroups = true
		}
	}
	return hasProducts, hasGroups
}

// displayNameWithChoices antepone al nombre del producto los nombres de los
// productos elegidos dentro de cada uno de sus grupos XOR, en el orden de la
// receta ("Caliente" + "Americano" → "Caliente Americano").
func (e *Engine) displayNameWithChoices(product *entity.Product, lines []*entity.RecipeLine, sel Selection) string {
	var prefixes []string
	seen := map[string]bool{}
	for _, l := range lines {
		if l.SelectionGroup == "" || seen[l.SelectionGroup] {
			continue
		}
		seen[l.SelectionGroup] = true
		chosen := sel.ChosenFor(product.ID, l.SelectionGroup)
		if chosen == "" {
			continue
		}
		name := chosenName(lines, l.SelectionGroup, chosen)
		if name == "" {
			if p, err := e.catalog.GetProductByID(chosen); err == nil && p != nil {
				name = p.Name
			}
		}
		if name != "" {
			prefixes = append(prefixes, name)
		}
	}
	if len(prefixes) == 0 {
		return product.Name
	}
	return strings.Join(prefixes, " ") + " " + product.Name
}

func chosenName(lines []*entity.RecipeLine, group, chosenID string) string {
	for _, l := range lines {
		if l.SelectionGroup == group && l.LinkedProductID == chosenID {
			return l.LinkedProductName
		}
	}
	return ""
}

// ── Agregación de precio ──────────────────────────────────────────────────────

// PriceOf calcula el precio total de venta. Un override de precio de combo
// cortocircuita todo: precio fijo × cantidad, haya o no selección, porque el
// precio de un combo no cambia con las elecciones del cliente. Sin override,
// parte del precio base y suma por cada línea sobreviviente de tipo producto
// su ajuste de precio más el precio recursivo del producto enlazado. La
// recursión anidada siempre baja con selección vacía: solo las elecciones
// directas de la raíz aplican.
func (e *Engine) PriceOf(rootProductID string, sel Selection, qty decimal.Decimal) decimal.Decimal {
	return e.price(rootProductID, sel, qty, 0, map[string]bool{})
}

func (e *Engine) price(productID string, sel Selection, qty decimal.Decimal, depth int, visited map[string]bool) decimal.Decimal {
	if !e.guard("price", productID, depth, visited) {
		return decimal.Zero
	}
	product, err := e.catalog.GetProductByID(productID)
	if err != nil || product == nil {
		e.log.Warn().Err(err).Str("product_id", productID).Msg("producto no encontrado; precio 0")
		return decimal.Zero
	}
	if product.HasBundlePrice() {
		return product.BundlePrice.Mul(qty)
	}

	total := product.BasePrice.Mul(qty)

	lines, err := e.catalog.GetRecipeLines(productID)
	if err != nil {
		e.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudieron leer líneas de receta")
		return total
	}

	visited[productID] = true
	defer delete(visited, productID)

	for _, line := range lines {
		if !Include(line, sel, productID) {
			continue
		}
		// Las líneas de material no aportan al precio: los ajustes de precio
		// viven solo en líneas de tipo producto.
		if line.ItemType != entity.RecipeItemProduct {
			continue
		}
		total = total.Add(line.PriceDelta().Mul(qty))
		total = total.Add(e.price(line.LinkedProductID, Selection{}, line.Quantity.Mul(qty), depth+1, visited))
	}
	return total
}

// ── Agregación de costo (COGS) ────────────────────────────────────────────────

// CogsOf calcula el costo de la mercancía vendida con desglose completo.
// Parte del costo de proveedor del producto raíz (un producto comprado hecho,
// como un muffin, tiene costo aun sin receta) y recorre la receta con las
// mismas reglas de inclusión que Flatten y PriceOf. Las líneas de producto
// aportan una fila de desglose con costo 0 (trazabilidad) y el costo real
// fluye únicamente de la llamada recursiva: así no se cuenta dos veces.
// El override de precio de combo NO afecta al costo: precio y costo son
// independientes una vez existe el override.
func (e *Engine) CogsOf(rootProductID string, sel Selection, qty decimal.Decimal) CostBreakdown {
	bd := CostBreakdown{Total: decimal.Zero}
	e.cogs(rootProductID, sel, qty, 0, "", map[string]bool{}, &bd)
	return bd
}

func (e *Engine) cogs(productID string, sel Selection, qty decimal.Decimal, depth int, chain string, visited map[string]bool, bd *CostBreakdown) {
	if !e.guard("cogs", productID, depth, visited) {
		return
	}
	product, err := e.catalog.GetProductByID(productID)
	if err != nil || product == nil {
		e.log.Warn().Err(err).Str("product_id", productID).Msg("producto no encontrado; costo 0")
		return
	}
	chain = extendChain(chain, product.Name)

	if product.SupplierCost.GreaterThan(decimal.Zero) {
		cost := product.SupplierCost.Mul(qty)
		bd.Lines = append(bd.Lines, CostLine{
			RefType:  CostRefSupplier,
			RefID:    product.ID,
			Name:     product.Name,
			Chain:    chain,
			Quantity: qty,
			UnitCost: product.SupplierCost,
			Cost:     cost,
			Depth:    depth,
		})
		bd.Total = bd.Total.Add(cost)
	}

	lines, err := e.catalog.GetRecipeLines(productID)
	if err != nil {
		e.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudieron leer líneas de receta")
		return
	}

	visited[productID] = true
	defer delete(visited, productID)

	for _, line := range lines {
		if !Include(line, sel, productID) {
			continue
		}
		switch line.ItemType {
		case entity.RecipeItemMaterial:
			mat, err := e.catalog.GetMaterialByID(line.MaterialID)
			if err != nil || mat == nil {
				e.log.Warn().Err(err).
					Str("material_id", line.MaterialID).
					Msg("material no encontrado; contribuye 0 al costo")
				continue
			}
			cost := line.Quantity.Mul(mat.CostPerUnit).Mul(qty)
			bd.Lines = append(bd.Lines, CostLine{
				RefType:  CostRefMaterial,
				RefID:    mat.ID,
				Name:     mat.Name,
				Chain:    chain,
				Quantity: line.Quantity.Mul(qty),
				UnitCost: mat.CostPerUnit,
				Cost:     cost,
				Depth:    depth,
			})
			bd.Total = bd.Total.Add(cost)
		case entity.RecipeItemProduct:
			name := line.LinkedProductName
			if name == "" {
				if p, err := e.catalog.GetProductByID(line.LinkedProductID); err == nil && p != nil {
					name = p.Name
				}
			}
			bd.Lines = append(bd.Lines, CostLine{
				RefType:  CostRefProduct,
				RefID:    line.LinkedProductID,
				Name:     name,
				Chain:    chain,
				Quantity: line.Quantity.Mul(qty),
				UnitCost: decimal.Zero,
				Cost:     decimal.Zero,
				Depth:    depth,
			})
			e.cogs(line.LinkedProductID, Selection{}, line.Quantity.Mul(qty), depth+1, chain, visited, bd)
		}
	}
}

func extendChain(chain, name string) string {
	if chain == "" {
		return name
	}
	return chain + " > " + name
}
