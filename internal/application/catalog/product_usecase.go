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

// ProductUseCase casos de uso CRUD para productos vendibles. UnitCost no es
// editable: es un cache que mantienen la receta y la cascada de recosteo.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto. UnitCost inicia en 0 (sin receta todavía).
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.ExternalID != nil {
		byExt, _ := uc.repo.GetByExternalID(*in.ExternalID)
		if byExt != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if in.BasePrice.LessThan(decimal.Zero) || in.SupplierCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.BundlePrice != nil && in.BundlePrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		ExternalID:   in.ExternalID,
		SKU:          in.SKU,
		Name:         in.Name,
		Category:     in.Category,
		BasePrice:    in.BasePrice,
		SupplierCost: in.SupplierCost,
		UnitCost:     decimal.Zero,
		BundlePrice:  in.BundlePrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update actualiza un producto. ClearBundlePrice quita el override de combo;
// si viene BundlePrice se fija (el precio fijo manda sobre la receta).
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.ExternalID != nil {
		byExt, _ := uc.repo.GetByExternalID(*in.ExternalID)
		if byExt != nil && byExt.ID != product.ID {
			return nil, domain.ErrDuplicate
		}
		product.ExternalID = in.ExternalID
	}
	if in.BasePrice != nil {
		if in.BasePrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.BasePrice = *in.BasePrice
	}
	if in.SupplierCost != nil {
		if in.SupplierCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.SupplierCost = *in.SupplierCost
	}
	if in.ClearBundlePrice {
		product.BundlePrice = nil
	} else if in.BundlePrice != nil {
		if in.BundlePrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.BundlePrice = in.BundlePrice
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		ExternalID:   p.ExternalID,
		SKU:          p.SKU,
		Name:         p.Name,
		Category:     p.Category,
		BasePrice:    p.BasePrice,
		SupplierCost: p.SupplierCost,
		UnitCost:     p.UnitCost,
		BundlePrice:  p.BundlePrice,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
