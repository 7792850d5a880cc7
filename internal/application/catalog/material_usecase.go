package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/domain"
	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
	"github.com/jhoicas/cafe-pos-api/pkg/logger"
)

// MaterialUseCase casos de uso CRUD para materias primas. CostPerUnit es
// siempre derivado; cambiar la compra dispara el recosteo en cascada.
type MaterialUseCase struct {
	repo     repository.MaterialRepository
	recoster *Recoster
	log      *logger.Logger
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository, recoster *Recoster, log *logger.Logger) *MaterialUseCase {
	return &MaterialUseCase{repo: repo, recoster: recoster, log: log.Component("materials")}
}

func validCategory(c string) bool {
	switch c {
	case entity.MaterialCategoryIngredient, entity.MaterialCategoryPackaging, entity.MaterialCategoryConsumable:
		return true
	}
	return false
}

// Create crea una materia prima y deriva su costo unitario.
func (uc *MaterialUseCase) Create(in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if !validCategory(in.Category) {
		return nil, domain.ErrInvalidInput
	}
	if in.PurchaseQty.LessThanOrEqual(decimal.Zero) || in.PurchaseCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	material := &entity.Material{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Category:          in.Category,
		PurchaseUnit:      in.PurchaseUnit,
		PurchaseQty:       in.PurchaseQty,
		PurchaseCost:      in.PurchaseCost,
		StockQty:          in.StockQty,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	material.RecalculateCostPerUnit()
	if err := uc.repo.Create(material); err != nil {
		return nil, err
	}
	return toMaterialResponse(material), nil
}

// GetByID obtiene una materia prima por ID.
func (uc *MaterialUseCase) GetByID(id string) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}
	return toMaterialResponse(material), nil
}

// List lista materias primas con paginación.
func (uc *MaterialUseCase) List(limit, offset int) (*dto.MaterialListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMaterialResponse(m))
	}
	return &dto.MaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update actualiza una materia prima. Si cambia PurchaseQty o PurchaseCost se
// recalcula CostPerUnit y se dispara sincrónicamente la cascada de recosteo de
// recetas (líneas → unit_cost de productos → productos que los enlazan).
func (uc *MaterialUseCase) Update(id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}
	priceChanged := false
	if in.Name != nil {
		material.Name = *in.Name
	}
	if in.Category != nil {
		if !validCategory(*in.Category) {
			return nil, domain.ErrInvalidInput
		}
		material.Category = *in.Category
	}
	if in.PurchaseUnit != nil {
		material.PurchaseUnit = *in.PurchaseUnit
	}
	if in.PurchaseQty != nil {
		if in.PurchaseQty.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		material.PurchaseQty = *in.PurchaseQty
		priceChanged = true
	}
	if in.PurchaseCost != nil {
		if in.PurchaseCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		material.PurchaseCost = *in.PurchaseCost
		priceChanged = true
	}
	if in.LowStockThreshold != nil {
		material.LowStockThreshold = *in.LowStockThreshold
	}
	material.RecalculateCostPerUnit()
	material.UpdatedAt = time.Now()
	if err := uc.repo.Update(material); err != nil {
		return nil, err
	}
	if priceChanged {
		if err := uc.recoster.RecostMaterial(material.ID); err != nil {
			return nil, err
		}
		uc.log.Info().
			Str("material_id", material.ID).
			Str("cost_per_unit", material.CostPerUnit.String()).
			Msg("cambio de costo de material propagado a recetas")
	}
	return toMaterialResponse(material), nil
}

// AdjustStock aplica un delta manual de stock (recepción de compra o merma).
// El stock resultante puede quedar negativo: backorder, se loguea con warning.
func (uc *MaterialUseCase) AdjustStock(id string, in dto.AdjustStockRequest) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}
	newQty, err := uc.repo.AdjustStock(id, in.Delta)
	if err != nil {
		return nil, err
	}
	if newQty.LessThan(decimal.Zero) {
		uc.log.Warn().
			Str("material_id", id).
			Str("stock", newQty.String()).
			Str("reason", in.Reason).
			Msg("stock negativo tras ajuste manual (backorder)")
	}
	material.StockQty = newQty
	material.UpdatedAt = time.Now()
	return toMaterialResponse(material), nil
}

// ListLowStock lista los materiales en o por debajo de su umbral.
func (uc *MaterialUseCase) ListLowStock() ([]dto.MaterialResponse, error) {
	list, err := uc.repo.ListLowStock()
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMaterialResponse(m))
	}
	return items, nil
}

// Delete elimina una materia prima por ID.
func (uc *MaterialUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	if m == nil {
		return nil
	}
	return &dto.MaterialResponse{
		ID:                m.ID,
		Name:              m.Name,
		Category:          m.Category,
		PurchaseUnit:      m.PurchaseUnit,
		PurchaseQty:       m.PurchaseQty,
		PurchaseCost:      m.PurchaseCost,
		CostPerUnit:       m.CostPerUnit,
		StockQty:          m.StockQty,
		LowStockThreshold: m.LowStockThreshold,
		LowStock:          m.IsLowStock(),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
