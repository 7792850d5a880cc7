package sales

import (
	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
	"github.com/jhoicas/cafe-pos-api/internal/domain/expansion"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
)

var _ expansion.Catalog = (*RepoCatalog)(nil)

// RepoCatalog adapta los repositorios de persistencia al puerto de lectura del
// motor de expansión. Sin caché: cada llamada del motor re-consulta datos
// frescos.
type RepoCatalog struct {
	materialRepo repository.MaterialRepository
	productRepo  repository.ProductRepository
	recipeRepo   repository.RecipeRepository
}

// NewRepoCatalog construye el adaptador.
func NewRepoCatalog(
	materialRepo repository.MaterialRepository,
	productRepo repository.ProductRepository,
	recipeRepo repository.RecipeRepository,
) *RepoCatalog {
	return &RepoCatalog{materialRepo: materialRepo, productRepo: productRepo, recipeRepo: recipeRepo}
}

func (c *RepoCatalog) GetMaterialByID(id string) (*entity.Material, error) {
	return c.materialRepo.GetByID(id)
}

func (c *RepoCatalog) GetProductByID(id string) (*entity.Product, error) {
	return c.productRepo.GetByID(id)
}

func (c *RepoCatalog) GetRecipeLines(productID string) ([]*entity.RecipeLine, error) {
	return c.recipeRepo.ListByProduct(productID)
}

// toSelection convierte la representación de frontera a la del dominio.
func toSelection(in dto.SelectionDTO) expansion.Selection {
	return expansion.Selection{
		Mandatory: in.SelectedMandatory,
		Optional:  in.SelectedOptional,
	}
}
