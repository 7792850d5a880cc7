package woocommerce

import (
	"context"

	"github.com/jhoicas/cafe-pos-api/internal/application/sales"
)

// Gateway adapta el cliente REST al puerto de tienda de la aplicación.
type Gateway struct {
	client *Client
}

var _ sales.StoreGateway = (*Gateway)(nil)

// NewGateway construye el adaptador sobre el cliente.
func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) FetchOrder(ctx context.Context, orderID int64) (*sales.StoreOrder, error) {
	order, err := g.client.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := &sales.StoreOrder{
		ID:         order.ID,
		Status:     order.Status,
		CustomerID: order.CustomerID,
		Total:      order.Total,
	}
	for _, li := range order.LineItems {
		out.LineItems = append(out.LineItems, sales.StoreOrderLine{
			ID:        li.ID,
			ProductID: li.ProductID,
			Name:      li.Name,
			Quantity:  li.Quantity,
			UnitPrice: li.Price,
		})
	}
	return out, nil
}

func (g *Gateway) MarkOrderCompleted(ctx context.Context, orderID int64) error {
	return g.client.UpdateOrderStatus(ctx, orderID, "completed")
}

func (g *Gateway) GuestCustomerID(ctx context.Context) (int64, error) {
	return g.client.GuestCustomerID(ctx)
}
