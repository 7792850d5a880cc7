package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/cafe-pos-api/internal/application/analytics"
	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/domain"
)

// DashboardHandler maneja los endpoints de analítica del back-office.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// dateRangeParams lee from/to de query string (formato 2006-01-02).
// Fechas ausentes quedan en cero: el use case aplica el rango por defecto.
func dateRangeParams(c *fiber.Ctx) (from, to time.Time, err error) {
	if s := c.Query("from"); s != "" {
		from, err = time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, errors.New("from inválido; formato esperado 2006-01-02")
		}
	}
	if s := c.Query("to"); s != "" {
		to, err = time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, errors.New("to inválido; formato esperado 2006-01-02")
		}
		// El día "to" es inclusivo.
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}

// GetDashboard godoc
// @Summary      Tablero completo del back-office
// @Description  Márgenes por producto, tendencia diaria de costos, pares frecuentes y alertas de stock bajo. Rango por defecto: últimos 30 días.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to    query  string  false  "Fecha final (2006-01-02)"
// @Success      200   {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	from, to, err := dateRangeParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.GetDashboard(c.Context(), from, to)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetMargins godoc
// @Summary      Márgenes por producto
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to    query  string  false  "Fecha final (2006-01-02)"
// @Success      200   {array}  dto.ProductMarginRow
// @Router       /api/dashboard/margins [get]
func (h *DashboardHandler) GetMargins(c *fiber.Ctx) error {
	from, to, err := dateRangeParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.ProductMargins(c.Context(), from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetCostTrend godoc
// @Summary      Tendencia diaria de costo de insumos
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to    query  string  false  "Fecha final (2006-01-02)"
// @Success      200   {array}  dto.DailyCostRow
// @Router       /api/dashboard/cost-trend [get]
func (h *DashboardHandler) GetCostTrend(c *fiber.Ctx) error {
	from, to, err := dateRangeParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.DailyCostTrend(c.Context(), from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetFrequentPairs godoc
// @Summary      Pares de productos vendidos juntos
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to     query  string  false  "Fecha final (2006-01-02)"
// @Param        limit  query  int     false  "Tope de pares"  default(10)
// @Success      200    {array}  dto.ProductPairRow
// @Router       /api/dashboard/pairs [get]
func (h *DashboardHandler) GetFrequentPairs(c *fiber.Ctx) error {
	from, to, err := dateRangeParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	limit := c.QueryInt("limit", appanalytics.DefaultPairsLimit)
	out, err := h.uc.FrequentPairs(c.Context(), from, to, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
