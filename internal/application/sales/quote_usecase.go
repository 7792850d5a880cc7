package sales

import (
	"fmt"

	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/domain"
	"github.com/jhoicas/cafe-pos-api/internal/domain/expansion"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
	"github.com/jhoicas/cafe-pos-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// QuoteUseCase expone las tres operaciones de expansión al borde HTTP y la
// generación del tiquete de cocina en PDF. No escribe nada: cotizar no
// descuenta inventario ni deja rastro.
type QuoteUseCase struct {
	engine      *expansion.Engine
	productRepo repository.ProductRepository
	ticketPDF   TicketPDFGenerator
	log         *logger.Logger
}

// NewQuoteUseCase construye el caso de uso de cotización.
func NewQuoteUseCase(
	engine *expansion.Engine,
	productRepo repository.ProductRepository,
	ticketPDF TicketPDFGenerator,
	log *logger.Logger,
) *QuoteUseCase {
	return &QuoteUseCase{
		engine:      engine,
		productRepo: productRepo,
		ticketPDF:   ticketPDF,
		log:         log.Component("quote"),
	}
}

// resolveRoot valida que el producto raíz exista y normaliza la cantidad
// (cantidad ausente o no positiva se cotiza como 1).
func (uc *QuoteUseCase) resolveRoot(req dto.QuoteRequest) (string, decimal.Decimal, error) {
	product, err := uc.productRepo.GetByID(req.ProductID)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("error consultando producto: %w", err)
	}
	if product == nil {
		return "", decimal.Zero, domain.ErrNotFound
	}
	qty := req.Quantity
	if qty.LessThanOrEqual(decimal.Zero) {
		qty = decimal.NewFromInt(1)
	}
	return product.ID, qty, nil
}

// Components devuelve la lista aplanada de componentes entregables.
func (uc *QuoteUseCase) Components(req dto.QuoteRequest) (*dto.ComponentListResponse, error) {
	rootID, qty, err := uc.resolveRoot(req)
	if err != nil {
		return nil, err
	}
	components := uc.engine.Flatten(rootID, toSelection(req.Selection), qty)
	resp := &dto.ComponentListResponse{ProductID: rootID, Components: make([]dto.ComponentResponse, 0, len(components))}
	for _, c := range components {
		resp.Components = append(resp.Components, dto.ComponentResponse{
			ProductID:   c.ProductID,
			ProductName: c.Name,
			Quantity:    c.Quantity,
		})
	}
	return resp, nil
}

// Price devuelve el precio total de venta para la selección dada.
func (uc *QuoteUseCase) Price(req dto.QuoteRequest) (*dto.PriceResponse, error) {
	rootID, qty, err := uc.resolveRoot(req)
	if err != nil {
		return nil, err
	}
	total := uc.engine.PriceOf(rootID, toSelection(req.Selection), qty)
	return &dto.PriceResponse{ProductID: rootID, Quantity: qty, Total: total}, nil
}

// Cogs devuelve el costo de la mercancía vendida con su desglose.
func (uc *QuoteUseCase) Cogs(req dto.QuoteRequest) (*dto.CogsResponse, error) {
	rootID, qty, err := uc.resolveRoot(req)
	if err != nil {
		return nil, err
	}
	bd := uc.engine.CogsOf(rootID, toSelection(req.Selection), qty)
	resp := &dto.CogsResponse{
		ProductID: rootID,
		Quantity:  qty,
		Total:     bd.Total,
		Breakdown: make([]dto.CostLineResponse, 0, len(bd.Lines)),
	}
	for _, l := range bd.Lines {
		resp.Breakdown = append(resp.Breakdown, dto.CostLineResponse{
			RefType:  l.RefType,
			RefID:    l.RefID,
			Name:     l.Name,
			Chain:    l.Chain,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
			Cost:     l.Cost,
			Depth:    l.Depth,
		})
	}
	return resp, nil
}

// Ticket genera el tiquete de cocina en PDF: producto raíz, cantidad, precio
// total y la lista aplanada de componentes con las elecciones resueltas.
func (uc *QuoteUseCase) Ticket(req dto.QuoteRequest) ([]byte, error) {
	rootID, qty, err := uc.resolveRoot(req)
	if err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(rootID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	sel := toSelection(req.Selection)
	price := uc.engine.PriceOf(rootID, sel, qty)
	components := uc.engine.Flatten(rootID, sel, qty)

	comps := make([]dto.ComponentResponse, 0, len(components))
	for _, c := range components {
		comps = append(comps, dto.ComponentResponse{
			ProductID:   c.ProductID,
			ProductName: c.Name,
			Quantity:    c.Quantity,
		})
	}
	pdf, err := uc.ticketPDF.GenerateTicket(product.Name, qty, price, comps)
	if err != nil {
		return nil, fmt.Errorf("error generando tiquete PDF: %w", err)
	}
	return pdf, nil
}
