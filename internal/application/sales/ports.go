package sales

import (
	"context"
	"time"

	"github.com/tallerpro/taller-api/internal/application/inventory"
	"github.com/tallerpro/taller-api/internal/domain/repository"
)

// SaleTxRunner ejecuta callbacks con repositorios de venta e inventario atados
// a una misma transacción. El checkout lo usa dos veces: para dejar la venta
// pendiente con sus líneas, y para descontar stock y completarla como unidad.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// Reconciler es la porción del motor de inventario que necesita el checkout:
// descontar stock línea por línea dentro de la transacción de la venta.
type Reconciler interface {
	ReconcileInTx(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		input inventory.MovementInput,
		now time.Time,
	) (inventory.ReconcileResult, error)
}
