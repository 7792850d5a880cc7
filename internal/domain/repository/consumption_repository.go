package repository

import "github.com/jhoicas/cafe-pos-api/internal/domain/entity"

// ConsumptionRepository define el puerto para los registros de consumo.
// Solo append y lectura: la bitácora nunca se muta. La idempotencia por
// (order_id, recipe_line_id) es responsabilidad del caller.
type ConsumptionRepository interface {
	Create(record *entity.ConsumptionRecord) error
	ListByOrder(orderID string) ([]*entity.ConsumptionRecord, error)
}
