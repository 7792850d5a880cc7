package repository

import "github.com/jhoicas/cafe-pos-api/internal/domain/entity"

// SaleRepository define el puerto para el histórico de ventas por ítem.
type SaleRepository interface {
	Create(item *entity.SaleItem) error
	ListByOrder(orderID string) ([]*entity.SaleItem, error)
}
