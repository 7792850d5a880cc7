package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para el histórico de ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste una fila histórica de venta.
func (r *SaleRepo) Create(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, order_id, order_item_id, product_id, product_name,
			quantity, unit_price, total_price, total_cogs, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.OrderItemID, item.ProductID, item.ProductName,
		item.Quantity, item.UnitPrice, item.TotalPrice, item.TotalCOGS, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// ListByOrder devuelve las filas históricas de una orden.
func (r *SaleRepo) ListByOrder(orderID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, order_id, COALESCE(order_item_id, ''), product_id, product_name,
		       quantity, unit_price, total_price, total_cogs, created_at
		FROM sale_items WHERE order_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var out []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.OrderItemID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.TotalCOGS, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}
