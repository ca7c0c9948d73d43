package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/planning"
	"github.com/shopspring/decimal"
)

// PlanningHandler expone la corrida de MRP.
type PlanningHandler struct {
	uc *planning.UseCase
}

// NewPlanningHandler construye el handler.
func NewPlanningHandler(uc *planning.UseCase) *PlanningHandler {
	return &PlanningHandler{uc: uc}
}

// Plan godoc
// @Summary      Planificar requerimientos a partir de un pronóstico
// @Tags         planning
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlanRequest  true  "Pronóstico"
// @Success      200   {object}  dto.PlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/planning [post]
func (h *PlanningHandler) Plan(c *fiber.Ctx) error {
	var in dto.PlanRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	forecast := make([]planning.Demand, 0, len(in.Forecast))
	for _, d := range in.Forecast {
		forecast = append(forecast, planning.Demand{ProductCode: d.ProductCode, Quantity: d.Quantity})
	}
	plan, err := h.uc.Plan(c.UserContext(), forecast, in.WarehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPlanResponse(plan))
}

func toPlanResponse(p *planning.Plan) dto.PlanResponse {
	out := dto.PlanResponse{
		WarehouseID:  p.WarehouseID,
		Gross:        make(map[string]decimal.Decimal, len(p.Gross)),
		Net:          make([]dto.NetRequirementDTO, 0, len(p.Net)),
		Suggestions:  make([]dto.SuggestedOrderDTO, 0, len(p.Suggestions)),
		RawMaterials: make([]dto.MaterialBalanceDTO, 0, len(p.RawMaterials)),
		Shortages:    make([]dto.MaterialBalanceDTO, 0, len(p.Shortages)),
	}
	for _, g := range p.Gross {
		out.Gross[g.Code] = g.Quantity
	}
	for _, n := range p.Net {
		out.Net = append(out.Net, dto.NetRequirementDTO{ProductCode: n.ProductCode, Gross: n.Gross, Stock: n.Stock, Net: n.Net})
	}
	for _, s := range p.Suggestions {
		out.Suggestions = append(out.Suggestions, dto.SuggestedOrderDTO{ProductCode: s.ProductCode, Quantity: s.Quantity, EstimatedCost: s.EstimatedCost})
	}
	for _, b := range p.RawMaterials {
		out.RawMaterials = append(out.RawMaterials, toBalanceDTO(b))
	}
	for _, b := range p.Shortages {
		out.Shortages = append(out.Shortages, toBalanceDTO(b))
	}
	return out
}

func toBalanceDTO(b planning.MaterialBalance) dto.MaterialBalanceDTO {
	return dto.MaterialBalanceDTO{
		MaterialCode: b.MaterialCode,
		Required:     b.Required,
		Stock:        b.Stock,
		Balance:      b.Balance,
		Shortfall:    b.Shortfall(),
	}
}
