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

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, name, category, purchase_unit, purchase_qty, purchase_cost, cost_per_unit, stock_qty, low_stock_threshold, created_at, updated_at`

// MaterialRepo implementación del puerto MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador de persistencia para materiales. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create persiste una nueva materia prima.
func (r *MaterialRepo) Create(material *entity.Material) error {
	query := `
		INSERT INTO materials (` + materialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		material.ID, material.Name, material.Category, material.PurchaseUnit,
		material.PurchaseQty, material.PurchaseCost, material.CostPerUnit,
		material.StockQty, material.LowStockThreshold, material.CreatedAt, material.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material por ID. Devuelve (nil, nil) si no existe.
func (r *MaterialRepo) GetByID(id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	m, err := scanMaterial(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// List devuelve materiales paginados, ordenados por nombre.
func (r *MaterialRepo) List(limit, offset int) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	return collectMaterials(rows)
}

// ListLowStock devuelve los materiales en o por debajo de su umbral de stock.
func (r *MaterialRepo) ListLowStock() ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE stock_qty <= low_stock_threshold ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return collectMaterials(rows)
}

// Update actualiza un material completo, incluido el cost_per_unit derivado.
func (r *MaterialRepo) Update(material *entity.Material) error {
	query := `
		UPDATE materials
		SET name = $2, category = $3, purchase_unit = $4, purchase_qty = $5,
		    purchase_cost = $6, cost_per_unit = $7, stock_qty = $8,
		    low_stock_threshold = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		material.ID, material.Name, material.Category, material.PurchaseUnit,
		material.PurchaseQty, material.PurchaseCost, material.CostPerUnit,
		material.StockQty, material.LowStockThreshold, material.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock suma delta al stock de forma atómica y devuelve la cantidad
// resultante. No impone stock mínimo: el modelo es backorder.
func (r *MaterialRepo) AdjustStock(materialID string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE materials
		SET stock_qty = stock_qty + $2, updated_at = now()
		WHERE id = $1
		RETURNING stock_qty`
	var remaining decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, materialID, delta).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("adjust stock: %w", err)
	}
	return remaining, nil
}

// Delete elimina un material. Devuelve ErrConflict si alguna receta lo referencia.
func (r *MaterialRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete material: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(
		&m.ID, &m.Name, &m.Category, &m.PurchaseUnit, &m.PurchaseQty,
		&m.PurchaseCost, &m.CostPerUnit, &m.StockQty, &m.LowStockThreshold,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMaterials(rows pgx.Rows) ([]*entity.Material, error) {
	var out []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
