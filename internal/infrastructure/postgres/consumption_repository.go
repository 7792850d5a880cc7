package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

const consumptionColumns = `id, order_id, order_item_id, product_id, product_name, recipe_line_id, record_type, material_id, linked_product_id, description, qty_consumed, unit_cost, total_cost, depth, created_at`

// ConsumptionRepo implementación del puerto ConsumptionRepository sobre PostgreSQL.
// La bitácora es append-only: no hay Update ni Delete.
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador de persistencia para registros de consumo.
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

// Create persiste un registro de consumo.
func (r *ConsumptionRepo) Create(record *entity.ConsumptionRecord) error {
	query := `
		INSERT INTO consumption_records (` + consumptionColumns + `)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.OrderID, record.OrderItemID, record.ProductID, record.ProductName,
		record.RecipeLineID, record.RecordType, record.MaterialID, record.LinkedProductID,
		record.Description, record.QtyConsumed, record.UnitCost, record.TotalCost,
		record.Depth, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert consumption record: %w", err)
	}
	return nil
}

// ListByOrder devuelve los registros de una orden en orden de inserción.
func (r *ConsumptionRepo) ListByOrder(orderID string) ([]*entity.ConsumptionRecord, error) {
	query := `
		SELECT ` + consumptionColumnsCoalesced + `
		FROM consumption_records WHERE order_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list consumption records: %w", err)
	}
	defer rows.Close()

	var out []*entity.ConsumptionRecord
	for rows.Next() {
		rec, err := scanConsumptionRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consumption record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

const consumptionColumnsCoalesced = `id, order_id, COALESCE(order_item_id, ''), product_id, product_name, COALESCE(recipe_line_id, ''), record_type, COALESCE(material_id, ''), COALESCE(linked_product_id, ''), description, qty_consumed, unit_cost, total_cost, depth, created_at`

func scanConsumptionRecord(row pgx.Row) (*entity.ConsumptionRecord, error) {
	var rec entity.ConsumptionRecord
	err := row.Scan(
		&rec.ID, &rec.OrderID, &rec.OrderItemID, &rec.ProductID, &rec.ProductName,
		&rec.RecipeLineID, &rec.RecordType, &rec.MaterialID, &rec.LinkedProductID,
		&rec.Description, &rec.QtyConsumed, &rec.UnitCost, &rec.TotalCost,
		&rec.Depth, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
