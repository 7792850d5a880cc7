package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	GetByExternalID(externalID int64) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateUnitCost actualiza solo el cache de costo unitario (lo usa el recálculo en cascada).
	UpdateUnitCost(productID string, unitCost decimal.Decimal) error
	Delete(id string) error
}
