package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProductionHandler ciclo de vida de órdenes de producción y vales.
type ProductionHandler struct {
	uc *production.UseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.UseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

func orderIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de orden inválido"})
	}
	return id, nil
}

// Create godoc
// @Summary      Crear orden de producción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Orden"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/production-orders [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	order, err := h.uc.CreateOrder(c.UserContext(), production.CreateOrderInput{
		ProductCode: in.ProductCode,
		Quantity:    in.Quantity,
		OperatorID:  in.OperatorID,
		EquipoID:    in.EquipoID,
		WarehouseID: in.WarehouseID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes de producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/production-orders [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	orders, err := h.uc.ListOrders(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, toOrderResponse(o))
	}
	return c.JSON(dto.OrderListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetByID godoc
// @Summary      Obtener orden de producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id} [get]
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if id == 0 {
		return err
	}
	order, err := h.uc.GetOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Complete godoc
// @Summary      Completar orden: consume materiales e ingresa producto terminado
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID de la orden"
// @Param        body  body  dto.CompleteOrderRequest  true  "Cantidad producida"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id}/complete [post]
func (h *ProductionHandler) Complete(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if id == 0 {
		return err
	}
	var in dto.CompleteOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	order, err := h.uc.CompleteOrder(c.UserContext(), production.CompleteOrderInput{
		OrderID:     id,
		RealQty:     in.QuantityProduced,
		WarehouseID: in.WarehouseID,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Reopen godoc
// @Summary      Reabrir orden completada revirtiendo inventario
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id}/reopen [post]
func (h *ProductionHandler) Reopen(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if id == 0 {
		return err
	}
	order, err := h.uc.ReopenOrder(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Delete godoc
// @Summary      Eliminar orden pendiente sin movimientos
// @Tags         production
// @Security     Bearer
// @Param        id  path  int  true  "ID de la orden"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id} [delete]
func (h *ProductionHandler) Delete(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if id == 0 {
		return err
	}
	if err := h.uc.DeleteOrder(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ApplyVale godoc
// @Summary      Registrar vale de salida o devolución
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "ID de la orden"
// @Param        body  body  dto.ApplyValeRequest  true  "Vale"
// @Success      201   {object}  dto.ValeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id}/vales [post]
func (h *ProductionHandler) ApplyVale(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if id == 0 {
		return err
	}
	var in dto.ApplyValeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	lines := make([]production.ValeLine, 0, len(in.Materials))
	for _, m := range in.Materials {
		lines = append(lines, production.ValeLine{MaterialCode: m.MaterialCode, Quantity: m.Quantity})
	}
	vale, err := h.uc.ApplyVale(c.UserContext(), production.ApplyValeInput{
		OrderID:     id,
		Type:        in.Type,
		WarehouseID: in.WarehouseID,
		Materials:   lines,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toValeResponse(vale))
}

// ListVales godoc
// @Summary      Listar vales de una orden
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la orden"
// @Success      200  {array}  dto.ValeResponse
// @Router       /api/production-orders/{id}/vales [get]
func (h *ProductionHandler) ListVales(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if id == 0 {
		return err
	}
	vales, err := h.uc.ListVales(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ValeResponse, 0, len(vales))
	for _, v := range vales {
		out = append(out, toValeResponse(v))
	}
	return c.JSON(out)
}

func toOrderResponse(o *entity.ProductionOrder) dto.OrderResponse {
	return dto.OrderResponse{
		OrderID:             o.OrderID,
		ProductCode:         o.ProductCode,
		Quantity:            o.Quantity,
		QuantityProduced:    o.QuantityProduced,
		OperatorID:          o.OperatorID,
		EquipoID:            o.EquipoID,
		AlmacenID:           o.AlmacenID,
		AlmacenProduccionID: o.AlmacenProduccionID,
		CostStandardUnit:    o.CostStandardUnit,
		CostStandard:        o.CostStandard,
		CostExtra:           o.CostExtra,
		CostReal:            o.CostReal,
		Overcost:            o.Overcost,
		Status:              o.Status,
		MaterialsUsed:       toLineDTOs(o.MaterialsUsed),
		MaterialsConsumed:   toLineDTOs(o.MaterialsConsumed),
		CreatedAt:           o.CreatedAt,
		CompletedAt:         o.CompletedAt,
	}
}

func toLineDTOs(lines []entity.MaterialLine) []dto.MaterialLineDTO {
	if lines == nil {
		return nil
	}
	out := make([]dto.MaterialLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.MaterialLineDTO{MaterialCode: l.MaterialCode, Quantity: l.Quantity, Type: l.Type})
	}
	return out
}

func toValeResponse(v *entity.Vale) dto.ValeResponse {
	out := dto.ValeResponse{
		ValeID:    v.ValeID,
		OrderID:   v.OrderID,
		Seq:       v.Seq,
		Type:      v.Type,
		AlmacenID: v.AlmacenID,
		Materials: make([]dto.ValeMaterialDTO, 0, len(v.Materials)),
		Cost:      v.Cost,
		CreatedAt: v.CreatedAt,
		CreatedBy: v.CreatedBy,
	}
	for _, m := range v.Materials {
		out.Materials = append(out.Materials, dto.ValeMaterialDTO{MaterialCode: m.MaterialCode, Quantity: m.Quantity, CostAtTime: m.CostAtTime})
	}
	return out
}
