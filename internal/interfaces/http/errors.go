package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/pkg/validator"
	"github.com/rs/zerolog/log"
)

// respondError traduce un error de dominio a status y código HTTP.
func respondError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	msg := err.Error()
	var details []string

	var insufficient *domain.InsufficientStockError
	var cyclic *domain.CyclicRecipeError
	switch {
	case errors.As(err, &insufficient):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
		details = []string{
			"material_code=" + insufficient.MaterialCode,
			"warehouse_id=" + insufficient.WarehouseID,
			"shortfall=" + insufficient.Shortfall().String(),
		}
	case errors.As(err, &cyclic):
		status, code = fiber.StatusUnprocessableEntity, "CYCLIC_RECIPE"
		details = cyclic.Path
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrNoRecipe):
		status, code = fiber.StatusUnprocessableEntity, "NO_RECIPE"
	case errors.Is(err, domain.ErrMissingWarehouse):
		status, code = fiber.StatusConflict, "MISSING_WAREHOUSE"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg, Details: details})
}

// parseBody decodifica el cuerpo y valida sus tags. Devuelve false si ya respondió con 400.
func parseBody(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(out); len(errs) > 0 {
		details := make([]string, len(errs))
		for i, e := range errs {
			details[i] = e.String()
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: validator.Join(errs),
			Details: details,
		})
	}
	return true, nil
}
