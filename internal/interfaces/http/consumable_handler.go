package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tallerpro/taller-api/internal/application/dto"
	"github.com/tallerpro/taller-api/internal/application/usecase"
)

// ConsumableHandler maneja las peticiones HTTP para insumos del taller.
type ConsumableHandler struct {
	uc *usecase.ConsumableUseCase
}

// NewConsumableHandler construye el handler.
func NewConsumableHandler(uc *usecase.ConsumableUseCase) *ConsumableHandler {
	return &ConsumableHandler{uc: uc}
}

// Create godoc
// @Summary      Crear insumo
// @Tags         consumables
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateConsumableRequest  true  "Datos del insumo"
// @Success      201   {object}  dto.ConsumableResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/consumables [post]
func (h *ConsumableHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateConsumableRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener insumo por ID
// @Tags         consumables
// @Produce      json
// @Param        id   path  int  true  "ID del insumo"
// @Success      200  {object}  dto.ConsumableResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/consumables/{id} [get]
func (h *ConsumableHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "insumo no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar insumos
// @Tags         consumables
// @Produce      json
// @Param        q       query  string  false  "Texto de búsqueda"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.ConsumableListResponse
// @Router       /api/consumables [get]
func (h *ConsumableHandler) List(c *fiber.Ctx) error {
	limit, offset := pageQuery(c)
	out, err := h.uc.List(c.Query("q"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar insumo
// @Tags         consumables
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del insumo"
// @Param        body  body  dto.UpdateConsumableRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ConsumableResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/consumables/{id} [put]
func (h *ConsumableHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateConsumableRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(id, in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "insumo no encontrado"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar insumo
// @Tags         consumables
// @Param        id  path  int  true  "ID del insumo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/consumables/{id} [delete]
func (h *ConsumableHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
