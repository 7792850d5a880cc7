package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
	"github.com/jhoicas/cafe-pos-api/pkg/logger"
)

type fakeStoreGateway struct {
	orders          map[int64]*StoreOrder
	completedOrders []int64
	guestID         int64
	completeErr     error
}

var _ StoreGateway = (*fakeStoreGateway)(nil)

func (g *fakeStoreGateway) FetchOrder(ctx context.Context, orderID int64) (*StoreOrder, error) {
	order, ok := g.orders[orderID]
	if !ok {
		return nil, errors.New("status 404: orden no existe")
	}
	return order, nil
}

func (g *fakeStoreGateway) MarkOrderCompleted(ctx context.Context, orderID int64) error {
	if g.completeErr != nil {
		return g.completeErr
	}
	g.completedOrders = append(g.completedOrders, orderID)
	return nil
}

func (g *fakeStoreGateway) GuestCustomerID(ctx context.Context) (int64, error) {
	if g.guestID == 0 {
		return 0, errors.New("cliente de mostrador no existe en la tienda")
	}
	return g.guestID, nil
}

func latteStoreOrder(status string) *StoreOrder {
	return &StoreOrder{
		ID:         9001,
		Status:     status,
		CustomerID: 7,
		Total:      dec("12.00"),
		LineItems: []StoreOrderLine{
			{ID: 1, ProductID: 101, Name: "Latte", Quantity: dec("1"), UnitPrice: dec("12.00")},
		},
	}
}

func TestOrderSync_RegistraOrdenDeLaTiendaYLaCompleta(t *testing.T) {
	f := buildLatteFixture()
	store := &fakeStoreGateway{orders: map[int64]*StoreOrder{9001: latteStoreOrder("processing")}}
	uc := NewOrderSyncUseCase(store, f.uc, logger.Nop())

	resp, err := uc.RecordStoreOrder(context.Background(), 9001)

	require.NoError(t, err)
	assert.Equal(t, "wc-9001", resp.OrderID, "el id local debe llevar el prefijo de la tienda")
	assert.Len(t, resp.Records, 3, "café, leche y vaso")
	assert.Equal(t, []int64{9001}, store.completedOrders, "la orden debe marcarse completada en la tienda")

	cafe, err := f.materials.GetByID("mat-cafe")
	require.NoError(t, err)
	assert.True(t, dec("488").Equal(cafe.StockQty), "el stock de café debe descontarse")

	items, err := f.sales.ListByOrder("wc-9001")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, dec("12.00").Equal(items[0].UnitPrice), "el precio viene de la orden de la tienda")
}

func TestOrderSync_OrdenYaCompletadaNoSeVuelveAMarcar(t *testing.T) {
	f := buildLatteFixture()
	store := &fakeStoreGateway{orders: map[int64]*StoreOrder{9001: latteStoreOrder("completed")}}
	uc := NewOrderSyncUseCase(store, f.uc, logger.Nop())

	_, err := uc.RecordStoreOrder(context.Background(), 9001)

	require.NoError(t, err)
	assert.Empty(t, store.completedOrders)
}

func TestOrderSync_FalloAlMarcarNoRevierteElRegistro(t *testing.T) {
	f := buildLatteFixture()
	store := &fakeStoreGateway{
		orders:      map[int64]*StoreOrder{9001: latteStoreOrder("processing")},
		completeErr: errors.New("status 500"),
	}
	uc := NewOrderSyncUseCase(store, f.uc, logger.Nop())

	resp, err := uc.RecordStoreOrder(context.Background(), 9001)

	require.NoError(t, err, "el registro local no depende de la tienda")
	assert.Len(t, resp.Records, 3)
	records, err := f.consumption.ListByOrder("wc-9001")
	require.NoError(t, err)
	assert.Equal(t, countRecords(records, entity.ConsumptionTypeMaterial), 3)
}

func TestOrderSync_OrdenInexistenteEnLaTienda(t *testing.T) {
	f := buildLatteFixture()
	store := &fakeStoreGateway{orders: map[int64]*StoreOrder{}}
	uc := NewOrderSyncUseCase(store, f.uc, logger.Nop())

	_, err := uc.RecordStoreOrder(context.Background(), 404)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOrderSync_ClienteDeMostrador(t *testing.T) {
	f := buildLatteFixture()
	store := &fakeStoreGateway{guestID: 42}
	uc := NewOrderSyncUseCase(store, f.uc, logger.Nop())

	resp, err := uc.GuestCustomer(context.Background())

	require.NoError(t, err)
	assert.EqualValues(t, 42, resp.CustomerID)
}

func countRecords(records []*entity.ConsumptionRecord, recordType string) int {
	n := 0
	for _, r := range records {
		if r.RecordType == recordType {
			n++
		}
	}
	return n
}
