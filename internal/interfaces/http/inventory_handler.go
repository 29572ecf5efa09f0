package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tallerpro/taller-api/internal/application/dto"
	"github.com/tallerpro/taller-api/internal/application/inventory"
	"github.com/tallerpro/taller-api/internal/domain/entity"
	"github.com/tallerpro/taller-api/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP de movimientos y stock.
type InventoryHandler struct {
	reconcile *inventory.ReconcileUseCase
	history   *inventory.HistoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(reconcile *inventory.ReconcileUseCase, history *inventory.HistoryUseCase) *InventoryHandler {
	return &InventoryHandler{reconcile: reconcile, history: history}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Registra una entrada o salida de stock de forma atómica. Si la
//
//	salida excede el stock disponible, el movimiento se registra con
//	la cantidad completa, el stock se limita a 0 y la respuesta trae
//	warning. Repetir el mismo intent_id no vuelve a aplicar el delta.
//
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Intención de movimiento"
// @Success      201   {object}  dto.ReconcileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	res, err := h.reconcile.Reconcile(c.Context(), inventory.MovementInput{
		IntentID:  in.IntentID,
		ItemID:    in.ItemID,
		ItemKind:  in.ItemKind,
		Direction: in.Direction,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ReconcileResponse{
		MovementID: res.MovementID,
		IntentID:   res.IntentID,
		NewStock:   res.NewStock,
		Replayed:   res.Replayed,
	}
	if res.Clamped {
		out.Warning = "stock insuficiente: la salida dejó el stock en 0"
	}
	status := fiber.StatusCreated
	if res.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(out)
}

// CheckAvailability godoc
// @Summary      Pre-chequeo de disponibilidad
// @Description  Consulta sin bloqueo si hay stock suficiente. Es consultivo:
//
//	la verdad definitiva la da el registro del movimiento.
//
// @Tags         inventory
// @Produce      json
// @Param        item_kind  query  string  true  "product | consumable"
// @Param        item_id    query  int     true  "ID del ítem"
// @Param        quantity   query  int     true  "Cantidad deseada"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/availability [get]
func (h *InventoryHandler) CheckAvailability(c *fiber.Ctx) error {
	kind := c.Query("item_kind")
	itemID := int64(c.QueryInt("item_id"))
	quantity := int64(c.QueryInt("quantity"))
	available, err := h.reconcile.CheckAvailability(c.Context(), kind, itemID, quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{
		ItemID:    itemID,
		Quantity:  quantity,
		Available: available,
	})
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Description  Vista de auditoría del libro, del más reciente al más antiguo.
// @Tags         inventory
// @Produce      json
// @Param        item_kind  query  string  false  "product | consumable"
// @Param        item_id    query  int     false  "ID del ítem"
// @Param        direction  query  string  false  "entrada | salida"
// @Param        from       query  string  false  "Desde (RFC3339)"
// @Param        to         query  string  false  "Hasta (RFC3339)"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit, offset := pageQuery(c)
	filter := repository.MovementFilter{
		ItemKind:  c.Query("item_kind"),
		ItemID:    int64(c.QueryInt("item_id")),
		Direction: c.Query("direction"),
		Limit:     limit,
		Offset:    offset,
	}
	var badDate bool
	filter.From, badDate = parseDateQuery(c, "from")
	if badDate {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	filter.To, badDate = parseDateQuery(c, "to")
	if badDate {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}

	movements, err := h.history.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementList(movements, limit, offset))
}

// ItemHistory godoc
// @Summary      Historial de un ítem
// @Tags         inventory
// @Produce      json
// @Param        kind    path   string  true   "product | consumable"
// @Param        id      path   int     true   "ID del ítem"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/{kind}/{id} [get]
func (h *InventoryHandler) ItemHistory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	limit, offset := pageQuery(c)
	movements, err := h.history.ListByItem(c.Context(), c.Params("kind"), id, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementList(movements, limit, offset))
}

func parseDateQuery(c *fiber.Ctx, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, true
	}
	return &t, false
}

func toMovementList(movements []*entity.Movement, limit, offset int) dto.MovementListResponse {
	out := dto.MovementListResponse{
		Movements: make([]dto.MovementResponse, 0, len(movements)),
		Page:      dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, m := range movements {
		out.Movements = append(out.Movements, dto.MovementResponse{
			ID:             m.ID,
			IntentID:       m.IntentID,
			ItemID:         m.ItemID,
			ItemKind:       m.ItemKind,
			Direction:      m.Direction,
			Quantity:       m.Quantity,
			Reason:         m.Reason,
			PreviousStock:  m.PreviousStock,
			ResultingStock: m.ResultingStock,
			Date:           m.Date,
		})
	}
	return out
}
