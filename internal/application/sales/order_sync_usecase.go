package sales

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/pkg/logger"
)

// StoreOrder orden de la tienda en línea vista desde la aplicación.
type StoreOrder struct {
	ID         int64
	Status     string
	CustomerID int64
	Total      decimal.Decimal
	LineItems  []StoreOrderLine
}

// StoreOrderLine un ítem de línea de la orden de la tienda.
type StoreOrderLine struct {
	ID        int64
	ProductID int64
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// StoreGateway puerto hacia la tienda en línea (WooCommerce).
type StoreGateway interface {
	FetchOrder(ctx context.Context, orderID int64) (*StoreOrder, error)
	MarkOrderCompleted(ctx context.Context, orderID int64) error
	GuestCustomerID(ctx context.Context) (int64, error)
}

// OrderSyncUseCase conecta las órdenes de la tienda con el registrador de
// consumo: trae la orden por su id, la traduce a ítems locales y registra el
// consumo. Es el destino de los webhooks "order completed" de la tienda.
type OrderSyncUseCase struct {
	store    StoreGateway
	recordUC *RecordSaleUseCase
	log      *logger.Logger
}

// NewOrderSyncUseCase construye el sincronizador de órdenes.
func NewOrderSyncUseCase(store StoreGateway, recordUC *RecordSaleUseCase, log *logger.Logger) *OrderSyncUseCase {
	return &OrderSyncUseCase{store: store, recordUC: recordUC, log: log.Component("order_sync")}
}

// RecordStoreOrder trae la orden de la tienda y registra su consumo. Si la
// orden seguía en "processing" la marca como completada en la tienda; un fallo
// en esa marcación no revierte el registro local, solo se advierte.
func (uc *OrderSyncUseCase) RecordStoreOrder(ctx context.Context, storeOrderID int64) (*dto.RecordSaleResponse, error) {
	order, err := uc.store.FetchOrder(ctx, storeOrderID)
	if err != nil {
		return nil, fmt.Errorf("error consultando la orden %d en la tienda: %w", storeOrderID, err)
	}

	req := dto.RecordSaleRequest{OrderID: fmt.Sprintf("wc-%d", order.ID)}
	for _, line := range order.LineItems {
		price := line.UnitPrice
		req.Items = append(req.Items, dto.RecordSaleItem{
			ExternalProductID: line.ProductID,
			ProductName:       line.Name,
			Quantity:          line.Quantity,
			OrderItemID:       strconv.FormatInt(line.ID, 10),
			UnitPrice:         &price,
		})
	}

	resp, err := uc.recordUC.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	if order.Status == "processing" {
		if err := uc.store.MarkOrderCompleted(ctx, order.ID); err != nil {
			uc.log.Warn().Err(err).
				Int64("store_order_id", order.ID).
				Msg("el consumo quedó registrado pero la orden no se pudo marcar como completada")
		}
	}
	return resp, nil
}

// GuestCustomer devuelve el id del cliente genérico de mostrador en la tienda.
// El POS lo usa para crear órdenes de venta presencial sin registrar clientes.
func (uc *OrderSyncUseCase) GuestCustomer(ctx context.Context) (*dto.GuestCustomerResponse, error) {
	id, err := uc.store.GuestCustomerID(ctx)
	if err != nil {
		return nil, fmt.Errorf("error resolviendo el cliente de mostrador: %w", err)
	}
	return &dto.GuestCustomerResponse{CustomerID: id}, nil
}
