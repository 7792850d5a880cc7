package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
)

// RecipeRepository define el puerto de persistencia para las líneas de receta.
// ListByProduct devuelve las líneas ordenadas por sort_order: el orden es
// significativo para el aplanado de componentes (orden de impresión).
type RecipeRepository interface {
	CreateLine(line *entity.RecipeLine) error
	GetLineByID(id string) (*entity.RecipeLine, error)
	ListByProduct(productID string) ([]*entity.RecipeLine, error)
	// ListByMaterial / ListByLinkedProduct alimentan la cascada de recosteo.
	ListByMaterial(materialID string) ([]*entity.RecipeLine, error)
	ListByLinkedProduct(linkedProductID string) ([]*entity.RecipeLine, error)
	UpdateLine(line *entity.RecipeLine) error
	UpdateCalculatedCost(lineID string, cost decimal.Decimal) error
	ReorderLines(productID string, lineIDs []string) error
	DeleteLine(id string) error
}
