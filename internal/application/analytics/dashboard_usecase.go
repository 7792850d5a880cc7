// Package analytics arma el tablero del back-office a partir del histórico de
// ventas y consumo. Solo lectura: todas las cifras de costo salen de lo que ya
// escribió el registrador de consumo, nunca se recalculan aquí.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/domain"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
	"github.com/jhoicas/cafe-pos-api/pkg/logger"
)

// DefaultPairsLimit tope por defecto de pares frecuentes en el tablero.
const DefaultPairsLimit = 10

// DashboardUseCase agrega márgenes, tendencia de costos, pares frecuentes y
// alertas de stock bajo en una sola respuesta.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	materialRepo  repository.MaterialRepository
	log           *logger.Logger
}

// NewDashboardUseCase construye el caso de uso del tablero.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	materialRepo repository.MaterialRepository,
	log *logger.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		materialRepo:  materialRepo,
		log:           log.Component("analytics"),
	}
}

// GetDashboard arma el rollup completo para el rango [from, to].
// Rango vacío = últimos 30 días.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, from, to time.Time) (*dto.DashboardResponse, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}

	margins, err := uc.ProductMargins(ctx, from, to)
	if err != nil {
		return nil, err
	}
	daily, err := uc.DailyCostTrend(ctx, from, to)
	if err != nil {
		return nil, err
	}
	pairs, err := uc.FrequentPairs(ctx, from, to, DefaultPairsLimit)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.LowStockAlerts()
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		From:          from,
		To:            to,
		Margins:       margins,
		DailyCosts:    daily,
		FrequentPairs: pairs,
		LowStock:      lowStock,
	}, nil
}

// ProductMargins devuelve ingresos, COGS y margen por producto.
func (uc *DashboardUseCase) ProductMargins(ctx context.Context, from, to time.Time) ([]dto.ProductMarginRow, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	results, err := uc.analyticsRepo.GetProductMargins(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("error consultando márgenes: %w", err)
	}
	rows := make([]dto.ProductMarginRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, dto.ProductMarginRow{
			ProductID: r.ProductID,
			SKU:       r.SKU,
			Name:      r.Name,
			UnitsSold: r.UnitsSold,
			Revenue:   r.Revenue,
			TotalCOGS: r.TotalCOGS,
			Margin:    r.Margin,
			MarginPct: r.MarginPct,
		})
	}
	return rows, nil
}

// DailyCostTrend devuelve el costo de insumos consumidos por día.
func (uc *DashboardUseCase) DailyCostTrend(ctx context.Context, from, to time.Time) ([]dto.DailyCostRow, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	results, err := uc.analyticsRepo.GetDailyCostTrend(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("error consultando tendencia de costos: %w", err)
	}
	rows := make([]dto.DailyCostRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, dto.DailyCostRow{Day: r.Day, OrderCnt: r.OrderCnt, TotalCost: r.TotalCost})
	}
	return rows, nil
}

// FrequentPairs devuelve los pares de productos más vendidos juntos.
func (uc *DashboardUseCase) FrequentPairs(ctx context.Context, from, to time.Time, limit int) ([]dto.ProductPairRow, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPairsLimit
	}
	results, err := uc.analyticsRepo.GetFrequentPairs(ctx, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("error consultando pares frecuentes: %w", err)
	}
	rows := make([]dto.ProductPairRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, dto.ProductPairRow{
			ProductAID:   r.ProductAID,
			ProductAName: r.ProductAName,
			ProductBID:   r.ProductBID,
			ProductBName: r.ProductBName,
			TimesPaired:  r.TimesPaired,
		})
	}
	return rows, nil
}

// LowStockAlerts devuelve los materiales en o por debajo de su umbral.
func (uc *DashboardUseCase) LowStockAlerts() ([]dto.MaterialResponse, error) {
	materials, err := uc.materialRepo.ListLowStock()
	if err != nil {
		return nil, fmt.Errorf("error consultando stock bajo: %w", err)
	}
	rows := make([]dto.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		rows = append(rows, dto.MaterialResponse{
			ID:                m.ID,
			Name:              m.Name,
			Category:          m.Category,
			PurchaseUnit:      m.PurchaseUnit,
			PurchaseQty:       m.PurchaseQty,
			PurchaseCost:      m.PurchaseCost,
			CostPerUnit:       m.CostPerUnit,
			StockQty:          m.StockQty,
			LowStockThreshold: m.LowStockThreshold,
			LowStock:          m.IsLowStock(),
			CreatedAt:         m.CreatedAt,
			UpdatedAt:         m.UpdatedAt,
		})
	}
	return rows, nil
}

// normalizeRange aplica el rango por defecto y valida orden.
func normalizeRange(from, to time.Time) (time.Time, time.Time, error) {
	if from.IsZero() && to.IsZero() {
		to = time.Now()
		from = to.AddDate(0, 0, -30)
		return from, to, nil
	}
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if from.After(to) {
		return from, to, domain.ErrInvalidInput
	}
	return from, to, nil
}
