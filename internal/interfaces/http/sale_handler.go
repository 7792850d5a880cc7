package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/application/sales"
	"github.com/jhoicas/cafe-pos-api/internal/domain"
)

// SaleHandler expone la cotización (componentes, precio, COGS, tiquete) y el
// registro de consumo de ventas completadas.
type SaleHandler struct {
	quoteUC     *sales.QuoteUseCase
	recordUC    *sales.RecordSaleUseCase
	orderSyncUC *sales.OrderSyncUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(quoteUC *sales.QuoteUseCase, recordUC *sales.RecordSaleUseCase, orderSyncUC *sales.OrderSyncUseCase) *SaleHandler {
	return &SaleHandler{quoteUC: quoteUC, recordUC: recordUC, orderSyncUC: orderSyncUC}
}

// parseQuote valida y extrae el cuerpo común de las operaciones de cotización.
func parseQuote(c *fiber.Ctx) (dto.QuoteRequest, error) {
	var in dto.QuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return in, errors.New("cuerpo inválido")
	}
	if in.ProductID == "" {
		return in, errors.New("product_id es requerido")
	}
	return in, nil
}

func quoteError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Components godoc
// @Summary      Componentes entregables de un producto
// @Description  Lista aplanada de lo que se entrega físicamente, con las elecciones del cliente resueltas. Los materiales no aparecen.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteRequest  true  "Producto, cantidad y selección"
// @Success      200   {object}  dto.ComponentListResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/components [post]
func (h *SaleHandler) Components(c *fiber.Ctx) error {
	in, err := parseQuote(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.quoteUC.Components(in)
	if err != nil {
		return quoteError(c, err)
	}
	return c.JSON(out)
}

// Price godoc
// @Summary      Precio total de venta
// @Description  Precio base más ajustes de las líneas sobrevivientes. Un override de combo fija el precio sin importar la selección.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteRequest  true  "Producto, cantidad y selección"
// @Success      200   {object}  dto.PriceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/price [post]
func (h *SaleHandler) Price(c *fiber.Ctx) error {
	in, err := parseQuote(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.quoteUC.Price(in)
	if err != nil {
		return quoteError(c, err)
	}
	return c.JSON(out)
}

// Cogs godoc
// @Summary      Costo de la mercancía vendida
// @Description  Total más desglose por línea (material, producto enlazado, costo de proveedor) con profundidad y cadena de nombres.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteRequest  true  "Producto, cantidad y selección"
// @Success      200   {object}  dto.CogsResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/cogs [post]
func (h *SaleHandler) Cogs(c *fiber.Ctx) error {
	in, err := parseQuote(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.quoteUC.Cogs(in)
	if err != nil {
		return quoteError(c, err)
	}
	return c.JSON(out)
}

// Ticket godoc
// @Summary      Tiquete de cocina en PDF
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.QuoteRequest  true  "Producto, cantidad y selección"
// @Success      200   {file}  byte
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/ticket [post]
func (h *SaleHandler) Ticket(c *fiber.Ctx) error {
	in, err := parseQuote(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	pdf, err := h.quoteUC.Ticket(in)
	if err != nil {
		return quoteError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="ticket.pdf"`)
	return c.Send(pdf)
}

// RecordSale godoc
// @Summary      Registrar consumo de una venta completada
// @Description  Descuenta stock y escribe la bitácora de consumo en una sola transacción. Repetir la misma orden devuelve los registros existentes sin descontar de nuevo.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordSaleRequest  true  "Orden e ítems vendidos"
// @Success      201   {object}  dto.RecordSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/record [post]
func (h *SaleHandler) RecordSale(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.recordUC.Execute(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "order_id e items son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ConsumptionByOrder godoc
// @Summary      Bitácora de consumo de una orden
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "ID de la orden"
// @Success      200      {object}  dto.RecordSaleResponse
// @Router       /api/sales/orders/{orderId}/consumption [get]
func (h *SaleHandler) ConsumptionByOrder(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	out, err := h.recordUC.ListByOrder(orderID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// RecordStoreOrder godoc
// @Summary      Registrar consumo de una orden de la tienda
// @Description  Trae la orden de WooCommerce por su id, registra el consumo de sus ítems y marca la orden como completada. Pensado para el webhook "order completed" de la tienda.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        storeOrderId  path  int  true  "ID de la orden en la tienda"
// @Success      201  {object}  dto.RecordSaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/store-orders/{storeOrderId}/record [post]
func (h *SaleHandler) RecordStoreOrder(c *fiber.Ctx) error {
	storeOrderID, err := c.ParamsInt("storeOrderId")
	if err != nil || storeOrderID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "storeOrderId debe ser un entero positivo"})
	}
	out, err := h.orderSyncUC.RecordStoreOrder(c.Context(), int64(storeOrderID))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la orden de la tienda no tiene ítems"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "STORE_ERROR", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GuestCustomer godoc
// @Summary      Cliente genérico de mostrador
// @Description  Id del cliente de la tienda usado para ventas presenciales sin registro. El resultado se cachea con TTL.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GuestCustomerResponse
// @Router       /api/sales/store/guest-customer [get]
func (h *SaleHandler) GuestCustomer(c *fiber.Ctx) error {
	out, err := h.orderSyncUC.GuestCustomer(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "STORE_ERROR", Message: err.Error()})
	}
	return c.JSON(out)
}
