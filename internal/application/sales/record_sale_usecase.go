package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/domain"
	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
	"github.com/jhoicas/cafe-pos-api/internal/domain/expansion"
	"github.com/jhoicas/cafe-pos-api/internal/domain/repository"
	"github.com/jhoicas/cafe-pos-api/pkg/logger"
)

// RecordSaleUseCase registra el consumo de una venta completada: por cada ítem
// de la orden recorre la receta con las mismas reglas de inclusión y guardas
// que el motor de expansión, descuenta stock de materiales y escribe la
// bitácora de consumo más la fila histórica de venta. Todo el procesamiento de
// una orden ocurre dentro de una sola transacción: o se registra completa o no
// se registra nada.
//
// Idempotencia: si la orden ya tiene registros de consumo, la llamada devuelve
// esos registros sin volver a descontar (los webhooks de la tienda reintentan).
type RecordSaleUseCase struct {
	productRepo     repository.ProductRepository
	recipeRepo      repository.RecipeRepository
	materialRepo    repository.MaterialRepository
	consumptionRepo repository.ConsumptionRepository
	engine          *expansion.Engine
	txRunner        TxRunner
	log             *logger.Logger
}

// NewRecordSaleUseCase construye el registrador de consumo.
func NewRecordSaleUseCase(
	productRepo repository.ProductRepository,
	recipeRepo repository.RecipeRepository,
	materialRepo repository.MaterialRepository,
	consumptionRepo repository.ConsumptionRepository,
	engine *expansion.Engine,
	txRunner TxRunner,
	log *logger.Logger,
) *RecordSaleUseCase {
	return &RecordSaleUseCase{
		productRepo:     productRepo,
		recipeRepo:      recipeRepo,
		materialRepo:    materialRepo,
		consumptionRepo: consumptionRepo,
		engine:          engine,
		txRunner:        txRunner,
		log:             log.Component("record_sale"),
	}
}

// Execute procesa todos los ítems de la orden en una sola transacción.
func (uc *RecordSaleUseCase) Execute(ctx context.Context, req dto.RecordSaleRequest) (*dto.RecordSaleResponse, error) {
	if req.OrderID == "" || len(req.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.consumptionRepo.ListByOrder(req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("error consultando registros de la orden: %w", err)
	}
	if len(existing) > 0 {
		uc.log.Warn().
			Str("order_id", req.OrderID).
			Int("records", len(existing)).
			Msg("orden ya registrada; se devuelven los registros existentes")
		return uc.toResponse(req.OrderID, existing), nil
	}

	var written []*entity.ConsumptionRecord
	err = uc.txRunner.Run(ctx, func(
		materialRepo repository.MaterialRepository,
		consumptionRepo repository.ConsumptionRepository,
		saleRepo repository.SaleRepository,
	) error {
		for _, item := range req.Items {
			records, err := uc.recordItem(req.OrderID, item, materialRepo, consumptionRepo, saleRepo)
			if err != nil {
				return err
			}
			written = append(written, records...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error registrando venta: %w", err)
	}
	return uc.toResponse(req.OrderID, written), nil
}

// recordItem procesa un ítem: resuelve el producto local por el id externo de
// la tienda, recorre su receta con efectos y escribe la fila histórica.
func (uc *RecordSaleUseCase) recordItem(
	orderID string,
	item dto.RecordSaleItem,
	materialRepo repository.MaterialRepository,
	consumptionRepo repository.ConsumptionRepository,
	saleRepo repository.SaleRepository,
) ([]*entity.ConsumptionRecord, error) {
	product, err := uc.productRepo.GetByExternalID(item.ExternalProductID)
	if err != nil {
		return nil, fmt.Errorf("error resolviendo producto externo %d: %w", item.ExternalProductID, err)
	}
	if product == nil {
		// Producto vendido en la tienda pero no mapeado localmente: no es un
		// error de la orden, pero el stock queda sin descontar.
		uc.log.Warn().
			Str("order_id", orderID).
			Int64("external_product_id", item.ExternalProductID).
			Str("product_name", item.ProductName).
			Msg("producto externo sin mapeo local; ítem sin registros de consumo")
		return nil, nil
	}

	qty := item.Quantity
	if qty.LessThanOrEqual(decimal.Zero) {
		qty = decimal.NewFromInt(1)
	}
	sel := toSelection(item.Selection)

	var records []*entity.ConsumptionRecord
	uc.consume(orderID, item.OrderItemID, product, product.ID, sel, qty, 0, map[string]bool{}, materialRepo, &records)

	totalCOGS := decimal.Zero
	for _, r := range records {
		totalCOGS = totalCOGS.Add(r.TotalCost)
		if err := consumptionRepo.Create(r); err != nil {
			return nil, fmt.Errorf("error guardando registro de consumo: %w", err)
		}
	}

	unitPrice := decimal.Zero
	if item.UnitPrice != nil {
		unitPrice = *item.UnitPrice
	} else {
		unitPrice = uc.engine.PriceOf(product.ID, sel, decimal.NewFromInt(1))
	}
	saleItem := &entity.SaleItem{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		OrderItemID: item.OrderItemID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		TotalPrice:  unitPrice.Mul(qty),
		TotalCOGS:   totalCOGS,
		CreatedAt:   time.Now(),
	}
	if err := saleRepo.Create(saleItem); err != nil {
		return nil, fmt.Errorf("error guardando ítem de venta: %w", err)
	}
	return records, nil
}

// consume es el recorrido con efectos. Refleja la agregación de costos del
// motor: mismas reglas de inclusión, mismo tope de profundidad, misma
// detección de ciclos por camino. La selección solo aplica en la raíz; la
// recursión baja con selección vacía.
func (uc *RecordSaleUseCase) consume(
	orderID, orderItemID string,
	root *entity.Product,
	productID string,
	sel expansion.Selection,
	qty decimal.Decimal,
	depth int,
	visited map[string]bool,
	materialRepo repository.MaterialRepository,
	acc *[]*entity.ConsumptionRecord,
) {
	if depth >= expansion.MaxDepth {
		uc.log.Error().
			Str("order_id", orderID).
			Str("product_id", productID).
			Int("depth", depth).
			Msg("profundidad máxima excedida registrando consumo; rama descartada")
		return
	}
	if visited[productID] {
		uc.log.Error().
			Str("order_id", orderID).
			Str("product_id", productID).
			Msg("ciclo detectado registrando consumo; rama descartada")
		return
	}

	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		uc.log.Warn().Err(err).
			Str("product_id", productID).
			Msg("producto no encontrado registrando consumo; rama descartada")
		return
	}

	if product.SupplierCost.GreaterThan(decimal.Zero) {
		cost := product.SupplierCost.Mul(qty)
		*acc = append(*acc, &entity.ConsumptionRecord{
			ID:          uuid.NewString(),
			OrderID:     orderID,
			OrderItemID: orderItemID,
			ProductID:   root.ID,
			ProductName: root.Name,
			RecordType:  entity.ConsumptionTypeSupplierCost,
			Description: product.Name,
			QtyConsumed: qty,
			UnitCost:    product.SupplierCost,
			TotalCost:   cost,
			Depth:       depth,
			CreatedAt:   time.Now(),
		})
	}

	lines, err := uc.recipeRepo.ListByProduct(productID)
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudieron leer líneas de receta")
		return
	}

	visited[productID] = true
	defer delete(visited, productID)

	for _, line := range lines {
		if !expansion.Include(line, sel, productID) {
			continue
		}
		switch line.ItemType {
		case entity.RecipeItemMaterial:
			mat, err := uc.materialRepo.GetByID(line.MaterialID)
			if err != nil || mat == nil {
				uc.log.Warn().Err(err).
					Str("material_id", line.MaterialID).
					Str("recipe_line_id", line.ID).
					Msg("material no encontrado; línea sin descuento de stock")
				continue
			}
			consumed := line.Quantity.Mul(qty)
			remaining, err := materialRepo.AdjustStock(mat.ID, consumed.Neg())
			if err != nil {
				uc.log.Warn().Err(err).
					Str("material_id", mat.ID).
					Msg("error descontando stock; línea omitida")
				continue
			}
			if remaining.LessThan(decimal.Zero) {
				uc.log.Warn().
					Str("material_id", mat.ID).
					Str("material", mat.Name).
					Str("stock", remaining.String()).
					Msg("stock negativo tras descuento (backorder)")
			}
			*acc = append(*acc, &entity.ConsumptionRecord{
				ID:           uuid.NewString(),
				OrderID:      orderID,
				OrderItemID:  orderItemID,
				ProductID:    root.ID,
				ProductName:  root.Name,
				RecipeLineID: line.ID,
				RecordType:   entity.ConsumptionTypeMaterial,
				MaterialID:   mat.ID,
				Description:  mat.Name,
				QtyConsumed:  consumed,
				UnitCost:     mat.CostPerUnit,
				TotalCost:    consumed.Mul(mat.CostPerUnit),
				Depth:        depth,
				CreatedAt:    time.Now(),
			})
		case entity.RecipeItemProduct:
			name := line.LinkedProductName
			if name == "" {
				if p, err := uc.productRepo.GetByID(line.LinkedProductID); err == nil && p != nil {
					name = p.Name
				}
			}
			*acc = append(*acc, &entity.ConsumptionRecord{
				ID:              uuid.NewString(),
				OrderID:         orderID,
				OrderItemID:     orderItemID,
				ProductID:       root.ID,
				ProductName:     root.Name,
				RecipeLineID:    line.ID,
				RecordType:      entity.ConsumptionTypeLinkedProduct,
				LinkedProductID: line.LinkedProductID,
				Description:     name,
				QtyConsumed:     line.Quantity.Mul(qty),
				UnitCost:        decimal.Zero,
				TotalCost:       decimal.Zero,
				Depth:           depth,
				CreatedAt:       time.Now(),
			})
			uc.consume(orderID, orderItemID, root, line.LinkedProductID, expansion.Selection{}, line.Quantity.Mul(qty), depth+1, visited, materialRepo, acc)
		}
	}
}

// ListByOrder devuelve la bitácora de consumo de una orden.
func (uc *RecordSaleUseCase) ListByOrder(orderID string) (*dto.RecordSaleResponse, error) {
	records, err := uc.consumptionRepo.ListByOrder(orderID)
	if err != nil {
		return nil, fmt.Errorf("error consultando registros de la orden: %w", err)
	}
	return uc.toResponse(orderID, records), nil
}

func (uc *RecordSaleUseCase) toResponse(orderID string, records []*entity.ConsumptionRecord) *dto.RecordSaleResponse {
	resp := &dto.RecordSaleResponse{OrderID: orderID, Records: make([]dto.ConsumptionRecordResponse, 0, len(records))}
	for _, r := range records {
		resp.Records = append(resp.Records, dto.ConsumptionRecordResponse{
			ID:              r.ID,
			OrderID:         r.OrderID,
			OrderItemID:     r.OrderItemID,
			ProductID:       r.ProductID,
			ProductName:     r.ProductName,
			RecipeLineID:    r.RecipeLineID,
			RecordType:      r.RecordType,
			MaterialID:      r.MaterialID,
			LinkedProductID: r.LinkedProductID,
			Description:     r.Description,
			QtyConsumed:     r.QtyConsumed,
			UnitCost:        r.UnitCost,
			TotalCost:       r.TotalCost,
			Depth:           r.Depth,
			CreatedAt:       r.CreatedAt,
		})
	}
	return resp
}
