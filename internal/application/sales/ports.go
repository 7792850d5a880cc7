package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que los registros de consumo y los
// descuentos de stock de una orden se apliquen todos o ninguno: el motor no
// expone frontera de transacción propia, esa es responsabilidad de este puerto.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		materialRepo repository.MaterialRepository,
		consumptionRepo repository.ConsumptionRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// TicketPDFGenerator genera el tiquete de cocina / recibo a partir del
// aplanado de componentes.
type TicketPDFGenerator interface {
	GenerateTicket(productName string, qty decimal.Decimal, price decimal.Decimal, components []dto.ComponentResponse) ([]byte, error)
}
