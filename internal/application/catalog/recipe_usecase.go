package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/domain"
	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
)

// RecipeUseCase mantiene las líneas de receta de un producto. Toda mutación
// recalcula sincrónicamente el calculated_cost de la línea y el unit_cost
// cacheado del producto dueño, y propaga hacia arriba por la cascada.
//
// Reglas de integridad aplicadas en escritura (precondición del motor de
// expansión, que asume líneas bien formadas):
//   - ItemType material exige MaterialID y prohíbe LinkedProductID; viceversa
//     para ItemType product.
//   - Una línea no puede ser opcional y pertenecer a un grupo de selección.
//   - Los grupos de selección solo aplican a líneas de tipo product.
type RecipeUseCase struct {
	recipeRepo   repository.RecipeRepository
	productRepo  repository.ProductRepository
	materialRepo repository.MaterialRepository
	recoster     *Recoster
}

// NewRecipeUseCase construye el caso de uso.
func NewRecipeUseCase(
	recipeRepo repository.RecipeRepository,
	productRepo repository.ProductRepository,
	materialRepo repository.MaterialRepository,
	recoster *Recoster,
) *RecipeUseCase {
	return &RecipeUseCase{
		recipeRepo:   recipeRepo,
		productRepo:  productRepo,
		materialRepo: materialRepo,
		recoster:     recoster,
	}
}

func (uc *RecipeUseCase) validateLineShape(itemType, materialID, linkedProductID string, isOptional bool, selectionGroup string) error {
	switch itemType {
	case entity.RecipeItemMaterial:
		if materialID == "" || linkedProductID != "" {
			return domain.ErrInvalidInput
		}
		if selectionGroup != "" {
			return domain.ErrInvalidInput
		}
	case entity.RecipeItemProduct:
		if linkedProductID == "" || materialID != "" {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	if isOptional && selectionGroup != "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// AddLine agrega una línea al final de la receta del producto.
func (uc *RecipeUseCase) AddLine(productID string, in dto.CreateRecipeLineRequest) (*dto.RecipeLineResponse, error) {
	if err := uc.validateLineShape(in.ItemType, in.MaterialID, in.LinkedProductID, in.IsOptional, in.SelectionGroup); err != nil {
		return nil, err
	}
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	// La referencia debe resolver al escribir; el motor tolera huecos en
	// lectura, pero no se aceptan huecos nuevos.
	switch in.ItemType {
	case entity.RecipeItemMaterial:
		mat, err := uc.materialRepo.GetByID(in.MaterialID)
		if err != nil {
			return nil, err
		}
		if mat == nil {
			return nil, domain.ErrNotFound
		}
	case entity.RecipeItemProduct:
		if in.LinkedProductID == productID {
			return nil, domain.ErrCycleDetected
		}
		linked, err := uc.productRepo.GetByID(in.LinkedProductID)
		if err != nil {
			return nil, err
		}
		if linked == nil {
			return nil, domain.ErrNotFound
		}
	}

	existing, err := uc.recipeRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	line := &entity.RecipeLine{
		ID:              uuid.New().String(),
		ProductID:       productID,
		ItemType:        in.ItemType,
		MaterialID:      in.MaterialID,
		LinkedProductID: in.LinkedProductID,
		Quantity:        in.Quantity,
		Unit:            in.Unit,
		PriceAdjustment: in.PriceAdjustment,
		IsOptional:      in.IsOptional,
		SelectionGroup:  in.SelectionGroup,
		SortOrder:       len(existing),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	cost, err := uc.recoster.LineCost(line)
	if err != nil {
		return nil, err
	}
	line.CalculatedCost = cost
	if err := uc.recipeRepo.CreateLine(line); err != nil {
		return nil, err
	}
	if err := uc.recoster.RecostProduct(productID, map[string]bool{}); err != nil {
		return nil, err
	}
	return toRecipeLineResponse(line), nil
}

// UpdateLine modifica una línea existente y recalcula costos.
func (uc *RecipeUseCase) UpdateLine(lineID string, in dto.UpdateRecipeLineRequest) (*dto.RecipeLineResponse, error) {
	line, err := uc.recipeRepo.GetLineByID(lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, nil
	}
	if in.Quantity != nil {
		if in.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		line.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		line.Unit = *in.Unit
	}
	if in.PriceAdjustment != nil {
		line.PriceAdjustment = in.PriceAdjustment
	}
	if in.IsOptional != nil {
		line.IsOptional = *in.IsOptional
	}
	if in.SelectionGroup != nil {
		line.SelectionGroup = *in.SelectionGroup
	}
	if err := uc.validateLineShape(line.ItemType, line.MaterialID, line.LinkedProductID, line.IsOptional, line.SelectionGroup); err != nil {
		return nil, err
	}
	cost, err := uc.recoster.LineCost(line)
	if err != nil {
		return nil, err
	}
	line.CalculatedCost = cost
	line.UpdatedAt = time.Now()
	if err := uc.recipeRepo.UpdateLine(line); err != nil {
		return nil, err
	}
	if err := uc.recoster.RecostProduct(line.ProductID, map[string]bool{}); err != nil {
		return nil, err
	}
	return toRecipeLineResponse(line), nil
}

// DeleteLine elimina una línea y recalcula el producto dueño.
func (uc *RecipeUseCase) DeleteLine(lineID string) error {
	line, err := uc.recipeRepo.GetLineByID(lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}
	if err := uc.recipeRepo.DeleteLine(lineID); err != nil {
		return err
	}
	return uc.recoster.RecostProduct(line.ProductID, map[string]bool{})
}

// Reorder fija el orden completo de las líneas de un producto. El orden es
// significativo para el aplanado de componentes.
func (uc *RecipeUseCase) Reorder(productID string, in dto.ReorderRecipeRequest) error {
	lines, err := uc.recipeRepo.ListByProduct(productID)
	if err != nil {
		return err
	}
	if len(in.LineIDs) != len(lines) {
		return domain.ErrInvalidInput
	}
	known := map[string]bool{}
	for _, l := range lines {
		known[l.ID] = true
	}
	for _, id := range in.LineIDs {
		if !known[id] {
			return domain.ErrInvalidInput
		}
	}
	return uc.recipeRepo.ReorderLines(productID, in.LineIDs)
}

// GetRecipe devuelve la receta completa de un producto con su unit_cost cacheado.
func (uc *RecipeUseCase) GetRecipe(productID string) (*dto.RecipeResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	lines, err := uc.recipeRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	out := &dto.RecipeResponse{
		ProductID: productID,
		UnitCost:  product.UnitCost,
		Lines:     make([]dto.RecipeLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, *toRecipeLineResponse(l))
	}
	return out, nil
}

func toRecipeLineResponse(l *entity.RecipeLine) *dto.RecipeLineResponse {
	if l == nil {
		return nil
	}
	return &dto.RecipeLineResponse{
		ID:                l.ID,
		ProductID:         l.ProductID,
		ItemType:          l.ItemType,
		MaterialID:        l.MaterialID,
		MaterialName:      l.MaterialName,
		LinkedProductID:   l.LinkedProductID,
		LinkedProductName: l.LinkedProductName,
		Quantity:          l.Quantity,
		Unit:              l.Unit,
		CalculatedCost:    l.CalculatedCost,
		PriceAdjustment:   l.PriceAdjustment,
		IsOptional:        l.IsOptional,
		SelectionGroup:    l.SelectionGroup,
		SortOrder:         l.SortOrder,
	}
}
