package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para Material (DIP).
type MaterialRepository interface {
	Create(material *entity.Material) error
	GetByID(id string) (*entity.Material, error)
	List(limit, offset int) ([]*entity.Material, error)
	ListLowStock() ([]*entity.Material, error)
	Update(material *entity.Material) error
	// AdjustStock suma delta (negativo = descuento) al stock y devuelve la
	// cantidad resultante. No rechaza stock negativo: el modelo es backorder.
	AdjustStock(materialID string, delta decimal.Decimal) (decimal.Decimal, error)
	Delete(id string) error
}
