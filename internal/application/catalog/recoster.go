package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
	"github.com/jhoicas/cafe-pos-api/pkg/logger"
)

// Recoster propaga cambios de costo por el grafo de recetas: al cambiar el
// precio de compra de un material se recalculan el calculated_cost de cada
// línea que lo referencia, el unit_cost cacheado de cada producto dueño de una
// de esas líneas y, transitivamente, el de cualquier producto cuya receta
// enlace a uno de esos productos. La cascada es transitiva con conjunto de
// visitados: un ciclo en el grafo no la vuelve infinita.
type Recoster struct {
	materialRepo repository.MaterialRepository
	productRepo  repository.ProductRepository
	recipeRepo   repository.RecipeRepository
	log          *logger.Logger
}

// NewRecoster construye el servicio de recosteo.
func NewRecoster(
	materialRepo repository.MaterialRepository,
	productRepo repository.ProductRepository,
	recipeRepo repository.RecipeRepository,
	log *logger.Logger,
) *Recoster {
	return &Recoster{
		materialRepo: materialRepo,
		productRepo:  productRepo,
		recipeRepo:   recipeRepo,
		log:          log.Component("recoster"),
	}
}

// LineCost calcula el costo derivado de una línea: cantidad × costo unitario
// del ítem referenciado. Para líneas de producto el costo unitario del
// enlazado es su unit_cost cacheado más su costo de proveedor.
func (rc *Recoster) LineCost(line *entity.RecipeLine) (decimal.Decimal, error) {
	switch line.ItemType {
	case entity.RecipeItemMaterial:
		mat, err := rc.materialRepo.GetByID(line.MaterialID)
		if err != nil {
			return decimal.Zero, err
		}
		if mat == nil {
			rc.log.Warn().Str("material_id", line.MaterialID).Msg("material no encontrado al costear línea; costo 0")
			return decimal.Zero, nil
		}
		return line.Quantity.Mul(mat.CostPerUnit), nil
	case entity.RecipeItemProduct:
		linked, err := rc.productRepo.GetByID(line.LinkedProductID)
		if err != nil {
			return decimal.Zero, err
		}
		if linked == nil {
			rc.log.Warn().Str("linked_product_id", line.LinkedProductID).Msg("producto enlazado no encontrado al costear línea; costo 0")
			return decimal.Zero, nil
		}
		return line.Quantity.Mul(linked.UnitCost.Add(linked.SupplierCost)), nil
	}
	return decimal.Zero, nil
}

// RecostMaterial recalcula en cascada todo lo afectado por un cambio de costo
// del material dado. El material debe tener ya su CostPerUnit recalculado.
func (rc *Recoster) RecostMaterial(materialID string) error {
	mat, err := rc.materialRepo.GetByID(materialID)
	if err != nil {
		return err
	}
	if mat == nil {
		return nil
	}
	lines, err := rc.recipeRepo.ListByMaterial(materialID)
	if err != nil {
		return err
	}
	// Primero todas las líneas, luego los productos dueños: un producto con
	// dos líneas del mismo material debe sumar ambas ya actualizadas.
	var owners []string
	seen := map[string]bool{}
	for _, line := range lines {
		newCost := line.Quantity.Mul(mat.CostPerUnit)
		if err := rc.recipeRepo.UpdateCalculatedCost(line.ID, newCost); err != nil {
			return err
		}
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			owners = append(owners, line.ProductID)
		}
	}
	visited := map[string]bool{}
	for _, productID := range owners {
		if err := rc.RecostProduct(productID, visited); err != nil {
			return err
		}
	}
	return nil
}

// RecostProduct recalcula el unit_cost cacheado del producto (suma de
// calculated_cost de sus líneas no opcionales) y sube por los productos que lo
// enlazan. visited evita repetir trabajo y corta ciclos; pasar un mapa vacío
// en la llamada raíz.
func (rc *Recoster) RecostProduct(productID string, visited map[string]bool) error {
	if visited[productID] {
		return nil
	}
	visited[productID] = true

	lines, err := rc.recipeRepo.ListByProduct(productID)
	if err != nil {
		return err
	}
	unitCost := decimal.Zero
	for _, line := range lines {
		if line.IsOptional {
			continue
		}
		unitCost = unitCost.Add(line.CalculatedCost)
	}
	if err := rc.productRepo.UpdateUnitCost(productID, unitCost); err != nil {
		return err
	}

	// Las líneas de productos padre que enlazan a este producto cachean
	// cantidad × (unit_cost + supplier_cost); hay que refrescarlas antes de
	// subir un nivel.
	product, err := rc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return nil
	}
	parentLines, err := rc.recipeRepo.ListByLinkedProduct(productID)
	if err != nil {
		return err
	}
	for _, parent := range parentLines {
		newCost := parent.Quantity.Mul(unitCost.Add(product.SupplierCost))
		if err := rc.recipeRepo.UpdateCalculatedCost(parent.ID, newCost); err != nil {
			return err
		}
		if err := rc.RecostProduct(parent.ProductID, visited); err != nil {
			return err
		}
	}
	return nil
}
