package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-pos-api/internal/application/catalog"
	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/domain"
)

// RecipeHandler maneja la edición de recetas (protegido).
// Cada mutación dispara el recosteo sincrónico del producto dueño.
type RecipeHandler struct {
	uc *catalog.RecipeUseCase
}

// NewRecipeHandler construye el handler.
func NewRecipeHandler(uc *catalog.RecipeUseCase) *RecipeHandler {
	return &RecipeHandler{uc: uc}
}

// GetRecipe godoc
// @Summary      Receta completa de un producto
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/recipe [get]
func (h *RecipeHandler) GetRecipe(c *fiber.Ctx) error {
	productID := c.Params("id")
	out, err := h.uc.GetRecipe(productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// AddLine godoc
// @Summary      Agregar línea a la receta
// @Description  Exactamente uno de material_id / linked_product_id según item_type. Una línea no puede ser opcional y de grupo a la vez.
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.CreateRecipeLineRequest  true  "Línea"
// @Success      201   {object}  dto.RecipeLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/recipe [post]
func (h *RecipeHandler) AddLine(c *fiber.Ctx) error {
	productID := c.Params("id")
	var in dto.CreateRecipeLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddLine(productID, in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto, material o producto enlazado no encontrado"})
		case errors.Is(err, domain.ErrCycleDetected):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CYCLE", Message: "la línea crearía un ciclo en el grafo de recetas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLine godoc
// @Summary      Modificar línea de receta
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        lineId  path  string  true  "ID de la línea"
// @Param        body    body  dto.UpdateRecipeLineRequest  true  "Cambios"
// @Success      200     {object}  dto.RecipeLineResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/recipe-lines/{lineId} [put]
func (h *RecipeHandler) UpdateLine(c *fiber.Ctx) error {
	lineID := c.Params("lineId")
	var in dto.UpdateRecipeLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateLine(lineID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "línea no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "línea no encontrada"})
	}
	return c.JSON(out)
}

// DeleteLine godoc
// @Summary      Eliminar línea de receta
// @Tags         recipes
// @Security     Bearer
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipe-lines/{lineId} [delete]
func (h *RecipeHandler) DeleteLine(c *fiber.Ctx) error {
	lineID := c.Params("lineId")
	if err := h.uc.DeleteLine(lineID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "línea no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reorder godoc
// @Summary      Reordenar las líneas de una receta
// @Description  line_ids debe contener exactamente los ids actuales de la receta, en el nuevo orden.
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.ReorderRecipeRequest  true  "Nuevo orden"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/recipe/reorder [post]
func (h *RecipeHandler) Reorder(c *fiber.Ctx) error {
	productID := c.Params("id")
	var in dto.ReorderRecipeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Reorder(productID, in); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
