package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tallerpro/taller-api/internal/application/dto"
	"github.com/tallerpro/taller-api/internal/application/sales"
	"github.com/tallerpro/taller-api/internal/domain/entity"
)

// SaleHandler maneja las peticiones HTTP del punto de venta.
type SaleHandler struct {
	uc *sales.CheckoutUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.CheckoutUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Checkout godoc
// @Summary      Registrar venta
// @Description  Valida el carrito, persiste la venta y descuenta stock por cada
//
//	línea de producto. El total lo recalcula siempre el servidor. Si
//	el descuento de stock falla, la venta queda en estado fallida con
//	el stock intacto.
//
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Carrito"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.CheckoutResponse  "Venta registrada pero fallida"
// @Router       /api/sales [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	input := sales.CheckoutInput{
		CustomerID:    in.CustomerID,
		PaymentMethod: in.PaymentMethod,
		Total:         in.Total,
		Items:         make([]sales.CheckoutLine, 0, len(in.Items)),
	}
	for _, line := range in.Items {
		input.Items = append(input.Items, sales.CheckoutLine{
			Kind:      line.Kind,
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	res, err := h.uc.Checkout(c.Context(), input)
	if err != nil {
		if res.SaleID == 0 {
			// La venta ni siquiera se registró.
			return respondError(c, err)
		}
		// Venta registrada pero fallida: se informa el id para seguimiento.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(toCheckoutResponse(res))
	}
	return c.Status(fiber.StatusCreated).JSON(toCheckoutResponse(res))
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	sale, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if sale == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	}
	return c.JSON(toSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	limit, offset := pageQuery(c)
	salesList, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.SaleListResponse{
		Sales: make([]dto.SaleResponse, 0, len(salesList)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, s := range salesList {
		out.Sales = append(out.Sales, toSaleResponse(s))
	}
	return c.JSON(out)
}

func toCheckoutResponse(res sales.SaleResult) dto.CheckoutResponse {
	out := dto.CheckoutResponse{
		SaleID: res.SaleID,
		Status: res.Status,
		Total:  res.Total,
	}
	for _, w := range res.Warnings {
		out.Warnings = append(out.Warnings, dto.SaleLineWarning{
			LineIndex: w.LineIndex,
			ItemID:    w.ItemID,
			Requested: w.Requested,
			NewStock:  w.NewStock,
		})
	}
	return out
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		Date:          s.Date,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
	}
	for _, item := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:        item.ID,
			Kind:      item.Kind,
			ItemID:    item.ItemID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return out
}
