package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("código duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNoRecipe          = errors.New("el producto no tiene receta")
	ErrCyclicRecipe      = errors.New("receta cíclica")
	ErrMissingWarehouse  = errors.New("la orden no tiene almacén de producción")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// NotFoundError indica que una orden, producto, material o almacén no existe.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NoRecipeError se devuelve al intentar fabricar un producto sin receta.
type NoRecipeError struct {
	ProductCode string
}

func (e *NoRecipeError) Error() string {
	return fmt.Sprintf("el producto %q no tiene receta y no puede fabricarse", e.ProductCode)
}

func (e *NoRecipeError) Is(target error) bool { return target == ErrNoRecipe }

// CyclicRecipeError describe el camino de productos que se contiene a sí mismo.
type CyclicRecipeError struct {
	Path []string
}

func (e *CyclicRecipeError) Error() string {
	return fmt.Sprintf("receta cíclica: %s", strings.Join(e.Path, " -> "))
}

func (e *CyclicRecipeError) Is(target error) bool { return target == ErrCyclicRecipe }

// InsufficientStockError nombra el material, el almacén y el faltante.
type InsufficientStockError struct {
	MaterialCode string
	WarehouseID  string
	Available    decimal.Decimal
	Required     decimal.Decimal
}

// Shortfall devuelve cuánto falta para cubrir lo requerido.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %q en almacén %q: disponible %s, requerido %s, faltan %s",
		e.MaterialCode, e.WarehouseID, e.Available.String(), e.Required.String(), e.Shortfall().String())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// MissingWarehouseError se devuelve al reabrir una orden sin almacén de producción.
type MissingWarehouseError struct {
	OrderID int64
}

func (e *MissingWarehouseError) Error() string {
	return fmt.Sprintf("la orden %d no tiene almacén de producción registrado", e.OrderID)
}

func (e *MissingWarehouseError) Is(target error) bool { return target == ErrMissingWarehouse }

// DuplicateCodeError colisión de códigos entre productos y materiales.
type DuplicateCodeError struct {
	Entity string
	Code   string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("el código %q ya está en uso por un %s", e.Code, e.Entity)
}

func (e *DuplicateCodeError) Is(target error) bool { return target == ErrDuplicate }

// ValidationError cantidad no positiva, receta vacía o campo obligatorio faltante.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "datos inválidos: " + e.Reason
	}
	return fmt.Sprintf("campo %q inválido: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// InvalidTransitionError acción no permitida para el estado actual de la orden.
type InvalidTransitionError struct {
	OrderID int64
	From    string
	Action  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("no se puede %s la orden %d en estado %s", e.Action, e.OrderID, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrConflict }

// Invalid atajo para construir un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFound atajo para construir un NotFoundError.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}
