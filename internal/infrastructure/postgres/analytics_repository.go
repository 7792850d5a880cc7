package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre el histórico de ventas y
// consumo. Agrega lo que ya calculó el registrador de consumo; aquí no se
// expande ninguna receta.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetProductMargins agrupa unidades, ingresos, COGS y margen por producto.
// El porcentaje de margen se protege contra división por cero (revenue = 0).
func (r *AnalyticsRepo) GetProductMargins(
	ctx context.Context,
	startDate, endDate time.Time,
) ([]repository.ProductMarginResult, error) {
	const query = `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    COALESCE(SUM(si.quantity),    0) AS units_sold,
	    COALESCE(SUM(si.total_price), 0) AS revenue,
	    COALESCE(SUM(si.total_cogs),  0) AS total_cogs,
	    COALESCE(SUM(si.total_price) - SUM(si.total_cogs), 0) AS margin,
	    CASE
	        WHEN COALESCE(SUM(si.total_price), 0) = 0 THEN 0
	        ELSE (SUM(si.total_price) - SUM(si.total_cogs)) / SUM(si.total_price) * 100
	    END AS margin_pct
	FROM sale_items si
	JOIN products p ON p.id = si.product_id
	WHERE si.created_at BETWEEN $1 AND $2
	GROUP BY p.id, p.sku, p.name
	ORDER BY margin DESC`

	rows, err := r.pool.Query(ctx, query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetProductMargins: %w", err)
	}
	defer rows.Close()

	var results []repository.ProductMarginResult
	for rows.Next() {
		var row repository.ProductMarginResult
		if err := rows.Scan(
			&row.ProductID,
			&row.SKU,
			&row.Name,
			&row.UnitsSold,
			&row.Revenue,
			&row.TotalCOGS,
			&row.Margin,
			&row.MarginPct,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetProductMargins scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetDailyCostTrend devuelve el costo de insumos consumidos por día.
// Suma sobre la bitácora de consumo, no sobre el histórico de ventas: incluye
// el costo de proveedor y excluye las filas de visibilidad (costo 0 no afecta).
func (r *AnalyticsRepo) GetDailyCostTrend(
	ctx context.Context,
	startDate, endDate time.Time,
) ([]repository.DailyCostResult, error) {
	const query = `
	SELECT
	    date_trunc('day', cr.created_at)  AS day,
	    COUNT(DISTINCT cr.order_id)       AS order_cnt,
	    COALESCE(SUM(cr.total_cost), 0)   AS total_cost
	FROM consumption_records cr
	WHERE cr.created_at BETWEEN $1 AND $2
	GROUP BY date_trunc('day', cr.created_at)
	ORDER BY day`

	rows, err := r.pool.Query(ctx, query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetDailyCostTrend: %w", err)
	}
	defer rows.Close()

	var results []repository.DailyCostResult
	for rows.Next() {
		var row repository.DailyCostResult
		if err := rows.Scan(&row.Day, &row.OrderCnt, &row.TotalCost); err != nil {
			return nil, fmt.Errorf("analytics.GetDailyCostTrend scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetFrequentPairs devuelve los pares de productos que más veces aparecen en
// la misma orden. El self-join con a.product_id < b.product_id evita contar
// cada par dos veces y excluye el par producto-consigo-mismo.
func (r *AnalyticsRepo) GetFrequentPairs(
	ctx context.Context,
	startDate, endDate time.Time,
	limit int,
) ([]repository.ProductPairResult, error) {
	const query = `
	SELECT
	    a.product_id,
	    pa.name,
	    b.product_id,
	    pb.name,
	    COUNT(*) AS times_paired
	FROM sale_items a
	JOIN sale_items b
	    ON a.order_id = b.order_id
	   AND a.product_id < b.product_id
	JOIN products pa ON pa.id = a.product_id
	JOIN products pb ON pb.id = b.product_id
	WHERE a.created_at BETWEEN $1 AND $2
	GROUP BY a.product_id, pa.name, b.product_id, pb.name
	ORDER BY times_paired DESC
	LIMIT $3`

	rows, err := r.pool.Query(ctx, query, startDate, endDate, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetFrequentPairs: %w", err)
	}
	defer rows.Close()

	var results []repository.ProductPairResult
	for rows.Next() {
		var row repository.ProductPairResult
		if err := rows.Scan(
			&row.ProductAID,
			&row.ProductAName,
			&row.ProductBID,
			&row.ProductBName,
			&row.TimesPaired,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetFrequentPairs scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
