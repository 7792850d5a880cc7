package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/internal/domain"
	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// selectRecipeLine trae la línea con los nombres del material y del producto
// enlazado ya resueltos (presentación y desglose de costos los necesitan).
const selectRecipeLine = `
	SELECT rl.id, rl.product_id, rl.item_type, rl.material_id, rl.linked_product_id,
	       rl.quantity, rl.unit, rl.calculated_cost, rl.price_adjustment,
	       rl.is_optional, rl.selection_group, rl.sort_order, rl.created_at, rl.updated_at,
	       COALESCE(m.name, ''), COALESCE(p.name, '')
	FROM recipe_lines rl
	LEFT JOIN materials m ON m.id = rl.material_id
	LEFT JOIN products p ON p.id = rl.linked_product_id`

// RecipeRepo implementación del puerto RecipeRepository sobre PostgreSQL (usable con pool o tx).
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador de persistencia para líneas de receta.
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// CreateLine persiste una nueva línea de receta.
func (r *RecipeRepo) CreateLine(line *entity.RecipeLine) error {
	query := `
		INSERT INTO recipe_lines (id, product_id, item_type, material_id, linked_product_id,
			quantity, unit, calculated_cost, price_adjustment, is_optional, selection_group,
			sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ProductID, line.ItemType, line.MaterialID, line.LinkedProductID,
		line.Quantity, line.Unit, line.CalculatedCost, line.PriceAdjustment,
		line.IsOptional, line.SelectionGroup, line.SortOrder, line.CreatedAt, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recipe line: %w", err)
	}
	return nil
}

// GetLineByID obtiene una línea por ID. Devuelve (nil, nil) si no existe.
func (r *RecipeRepo) GetLineByID(id string) (*entity.RecipeLine, error) {
	query := selectRecipeLine + ` WHERE rl.id = $1`
	l, err := scanRecipeLine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe line: %w", err)
	}
	return l, nil
}

// ListByProduct devuelve las líneas del producto en orden de receta.
// El orden importa: es el orden de impresión del aplanado de componentes.
func (r *RecipeRepo) ListByProduct(productID string) ([]*entity.RecipeLine, error) {
	query := selectRecipeLine + ` WHERE rl.product_id = $1 ORDER BY rl.sort_order, rl.created_at`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list recipe lines: %w", err)
	}
	defer rows.Close()
	return collectRecipeLines(rows)
}

// ListByMaterial devuelve todas las líneas que referencian un material (cascada de recosteo).
func (r *RecipeRepo) ListByMaterial(materialID string) ([]*entity.RecipeLine, error) {
	query := selectRecipeLine + ` WHERE rl.material_id = $1 ORDER BY rl.product_id, rl.sort_order`
	rows, err := r.q.Query(context.Background(), query, materialID)
	if err != nil {
		return nil, fmt.Errorf("list recipe lines by material: %w", err)
	}
	defer rows.Close()
	return collectRecipeLines(rows)
}

// ListByLinkedProduct devuelve las líneas que enlazan un producto (cascada hacia arriba).
func (r *RecipeRepo) ListByLinkedProduct(linkedProductID string) ([]*entity.RecipeLine, error) {
	query := selectRecipeLine + ` WHERE rl.linked_product_id = $1 ORDER BY rl.product_id, rl.sort_order`
	rows, err := r.q.Query(context.Background(), query, linkedProductID)
	if err != nil {
		return nil, fmt.Errorf("list recipe lines by linked product: %w", err)
	}
	defer rows.Close()
	return collectRecipeLines(rows)
}

// UpdateLine actualiza una línea existente.
func (r *RecipeRepo) UpdateLine(line *entity.RecipeLine) error {
	query := `
		UPDATE recipe_lines
		SET item_type = $2, material_id = NULLIF($3, ''), linked_product_id = NULLIF($4, ''),
		    quantity = $5, unit = $6, calculated_cost = $7, price_adjustment = $8,
		    is_optional = $9, selection_group = $10, sort_order = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		line.ID, line.ItemType, line.MaterialID, line.LinkedProductID,
		line.Quantity, line.Unit, line.CalculatedCost, line.PriceAdjustment,
		line.IsOptional, line.SelectionGroup, line.SortOrder, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update recipe line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCalculatedCost actualiza solo el costo cacheado de una línea (recosteo).
func (r *RecipeRepo) UpdateCalculatedCost(lineID string, cost decimal.Decimal) error {
	query := `UPDATE recipe_lines SET calculated_cost = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, lineID, cost)
	if err != nil {
		return fmt.Errorf("update calculated cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReorderLines reasigna sort_order según la posición de cada id en lineIDs.
func (r *RecipeRepo) ReorderLines(productID string, lineIDs []string) error {
	query := `UPDATE recipe_lines SET sort_order = $3, updated_at = now() WHERE product_id = $1 AND id = $2`
	for i, lineID := range lineIDs {
		cmd, err := r.q.Exec(context.Background(), query, productID, lineID, i)
		if err != nil {
			return fmt.Errorf("reorder recipe lines: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	}
	return nil
}

// DeleteLine elimina una línea de receta.
func (r *RecipeRepo) DeleteLine(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM recipe_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recipe line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanRecipeLine(row pgx.Row) (*entity.RecipeLine, error) {
	var l entity.RecipeLine
	var materialID, linkedProductID *string
	err := row.Scan(
		&l.ID, &l.ProductID, &l.ItemType, &materialID, &linkedProductID,
		&l.Quantity, &l.Unit, &l.CalculatedCost, &l.PriceAdjustment,
		&l.IsOptional, &l.SelectionGroup, &l.SortOrder, &l.CreatedAt, &l.UpdatedAt,
		&l.MaterialName, &l.LinkedProductName,
	)
	if err != nil {
		return nil, err
	}
	if materialID != nil {
		l.MaterialID = *materialID
	}
	if linkedProductID != nil {
		l.LinkedProductID = *linkedProductID
	}
	return &l, nil
}

func collectRecipeLines(rows pgx.Rows) ([]*entity.RecipeLine, error) {
	var out []*entity.RecipeLine
	for rows.Next() {
		l, err := scanRecipeLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
