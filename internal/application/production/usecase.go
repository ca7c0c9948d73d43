// Package production implementa el ciclo de vida de las órdenes de producción
// (crear → completar → reabrir) y los vales de almacén. Cada operación es una única
// transacción: validación de stock, mutaciones del libro y actualización de la orden se
// confirman juntas o no se confirma nada.
package production

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/catalog"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/event"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Config parámetros del ciclo de vida.
type Config struct {
	// DefaultWarehouseID almacén de respaldo cuando ni la solicitud, ni la orden, ni el catálogo indican uno.
	DefaultWarehouseID string
}

// UseCase casos de uso de órdenes de producción y vales.
type UseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	events   event.Publisher
	log      zerolog.Logger
	cfg      Config
	now      func() time.Time
}

// NewUseCase construye el caso de uso. repos se usa solo para lecturas fuera de transacción.
func NewUseCase(
	txRunner repository.TxRunner,
	repos repository.Repos,
	events event.Publisher,
	log zerolog.Logger,
	cfg Config,
) *UseCase {
	if events == nil {
		events = event.Nop{}
	}
	return &UseCase{
		txRunner: txRunner,
		repos:    repos,
		events:   events,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// GetOrder obtiene una orden por ID.
func (uc *UseCase) GetOrder(ctx context.Context, orderID int64) (*entity.ProductionOrder, error) {
	order, err := uc.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, orderNotFound(orderID)
	}
	return order, nil
}

// ListOrders lista órdenes con paginación.
func (uc *UseCase) ListOrders(ctx context.Context, limit, offset int) ([]*entity.ProductionOrder, error) {
	return uc.repos.Orders.List(ctx, limit, offset)
}

// ListVales lista los vales de una orden en orden de secuencia.
func (uc *UseCase) ListVales(ctx context.Context, orderID int64) ([]*entity.Vale, error) {
	if _, err := uc.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.repos.Vales.ListByOrder(ctx, orderID)
}

func sources(repos repository.Repos) catalog.Sources {
	return catalog.Sources{
		Products:   repos.Products,
		Materials:  repos.Materials,
		Recipes:    repos.Recipes,
		Warehouses: repos.Warehouses,
	}
}

// resolveWarehouse elige el almacén: explícito → planificado en la orden → predeterminado del
// catálogo → configuración. Debe existir en el catálogo.
func (uc *UseCase) resolveWarehouse(cat *catalog.Catalog, candidates ...string) (string, error) {
	id := ""
	for _, c := range candidates {
		if c != "" {
			id = c
			break
		}
	}
	if id == "" {
		if w, ok := cat.DefaultWarehouse(); ok {
			id = w.ID
		} else {
			id = uc.cfg.DefaultWarehouseID
		}
	}
	if id == "" {
		return "", domain.Invalid("warehouse_id", "no hay almacén indicado ni predeterminado")
	}
	if _, ok := cat.Warehouse(id); !ok {
		return "", domain.NotFound("almacén", id)
	}
	return id, nil
}

func orderNotFound(orderID int64) error {
	return &domain.NotFoundError{Entity: "orden", ID: formatID(orderID)}
}
