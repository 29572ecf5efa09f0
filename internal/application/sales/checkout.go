package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallerpro/taller-api/internal/application/inventory"
	"github.com/tallerpro/taller-api/internal/domain"
	"github.com/tallerpro/taller-api/internal/domain/entity"
	"github.com/tallerpro/taller-api/internal/domain/repository"
)

// Reintentos del descuento de stock ante fallas transitorias. Los intent ids
// derivados de la venta hacen el reintento idempotente.
const (
	maxAttempts  = 3
	retryBackoff = 100 * time.Millisecond
)

// CheckoutUseCase persiste una venta multilínea y dispara exactamente una
// conciliación de salida por cada línea de producto, como una unidad lógica.
//
// La venta se crea pendiente en su propia transacción; el descuento de stock y
// el paso a completada comparten una segunda transacción. Si esa transacción
// falla, el rollback garantiza que no queda ningún descuento parcial ni
// movimiento huérfano, y la venta se marca fallida para seguimiento manual.
type CheckoutUseCase struct {
	txRunner     SaleTxRunner
	reconciler   Reconciler
	productRepo  repository.ProductRepository
	serviceRepo  repository.ServiceRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository // fuera de tx: marcar fallida, consultas
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(
	txRunner SaleTxRunner,
	reconciler Reconciler,
	productRepo repository.ProductRepository,
	serviceRepo repository.ServiceRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		txRunner:     txRunner,
		reconciler:   reconciler,
		productRepo:  productRepo,
		serviceRepo:  serviceRepo,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
	}
}

// CheckoutLine es una línea del carrito: producto (descuenta stock) o servicio.
// UnitPrice en cero toma el precio de catálogo.
type CheckoutLine struct {
	Kind      string
	ItemID    int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// CheckoutInput es la venta que emite la pantalla de punto de venta.
// Total es opcional: el total siempre se recalcula en el servidor y un total
// del cliente que no cuadre se rechaza.
type CheckoutInput struct {
	CustomerID    *int64
	PaymentMethod string
	Total         decimal.Decimal
	Items         []CheckoutLine
}

// LineWarning reporta cumplimiento parcial de una línea de producto
// (la salida se limitó a stock 0).
type LineWarning struct {
	LineIndex int
	ItemID    int64
	Requested int64
	NewStock  int64
}

// SaleResult es el resultado del checkout.
type SaleResult struct {
	SaleID   int64
	Status   string
	Total    decimal.Decimal
	Warnings []LineWarning
}

// Checkout valida, persiste la venta y descuenta stock.
// Estados posibles del resultado: completada (con o sin warnings) o fallida.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, in CheckoutInput) (SaleResult, error) {
	total, err := uc.validate(&in)
	if err != nil {
		return SaleResult{}, err
	}

	// Primera transacción: cabecera pendiente + líneas. Queda confirmada antes
	// de tocar stock, así una venta fallida se conserva para seguimiento.
	sale := &entity.Sale{
		CustomerID:    in.CustomerID,
		Total:         total,
		PaymentMethod: in.PaymentMethod,
		Status:        entity.SaleStatusPending,
		Date:          time.Now(),
	}
	err = uc.txRunner.RunSale(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockRepository,
		saleRepo repository.SaleRepository,
	) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, line := range in.Items {
			item := &entity.SaleItem{
				SaleID:    sale.ID,
				Kind:      line.Kind,
				ItemID:    line.ItemID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			}
			if err := saleRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SaleResult{}, err
	}

	// Segunda transacción: una salida por línea de producto + venta completada,
	// todo o nada. Reintento acotado ante fallas transitorias.
	warnings, err := uc.deductAndComplete(ctx, sale.ID, in.Items)
	if err != nil {
		// Rollback ya garantizó stock intacto y libro sin huérfanos;
		// la venta queda fallida, nunca a medio aplicar.
		if stErr := uc.saleRepo.UpdateStatus(sale.ID, entity.SaleStatusPending, entity.SaleStatusFailed); stErr != nil {
			return SaleResult{SaleID: sale.ID}, errors.Join(err, stErr)
		}
		return SaleResult{SaleID: sale.ID, Status: entity.SaleStatusFailed, Total: total}, err
	}

	return SaleResult{
		SaleID:   sale.ID,
		Status:   entity.SaleStatusCompleted,
		Total:    total,
		Warnings: warnings,
	}, nil
}

// validate resuelve referencias, aplica precios de catálogo y recalcula el
// total. Nunca se confía en el total enviado por el cliente.
func (uc *CheckoutUseCase) validate(in *CheckoutInput) (decimal.Decimal, error) {
	if in.PaymentMethod == "" || len(in.Items) == 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if in.CustomerID != nil {
		customer, err := uc.customerRepo.GetByID(*in.CustomerID)
		if err != nil {
			return decimal.Zero, err
		}
		if customer == nil {
			return decimal.Zero, domain.ErrNotFound
		}
	}

	total := decimal.Zero
	for i := range in.Items {
		line := &in.Items[i]
		if line.Quantity <= 0 || line.UnitPrice.IsNegative() {
			return decimal.Zero, domain.ErrInvalidInput
		}
		switch line.Kind {
		case entity.SaleLineProduct:
			product, err := uc.productRepo.GetByID(line.ItemID)
			if err != nil {
				return decimal.Zero, err
			}
			if product == nil {
				return decimal.Zero, domain.ErrNotFound
			}
			if line.UnitPrice.IsZero() {
				line.UnitPrice = product.Price
			}
		case entity.SaleLineService:
			service, err := uc.serviceRepo.GetByID(line.ItemID)
			if err != nil {
				return decimal.Zero, err
			}
			if service == nil {
				return decimal.Zero, domain.ErrNotFound
			}
			if line.UnitPrice.IsZero() {
				line.UnitPrice = service.Price
			}
		default:
			return decimal.Zero, domain.ErrInvalidInput
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
	}

	if !in.Total.IsZero() && !in.Total.Equal(total) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return total, nil
}

// deductAndComplete ejecuta la transacción de descuento: una conciliación de
// salida por línea de producto y el paso pendiente → completada. Los warnings
// de cumplimiento parcial no la abortan; cualquier error duro la revierte.
func (uc *CheckoutUseCase) deductAndComplete(ctx context.Context, saleID int64, lines []CheckoutLine) ([]LineWarning, error) {
	var warnings []LineWarning
	for attempt := 1; ; attempt++ {
		warnings = warnings[:0]
		err := uc.txRunner.RunSale(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockRepository,
			saleRepo repository.SaleRepository,
		) error {
			now := time.Now()
			for i, line := range lines {
				if line.Kind != entity.SaleLineProduct {
					continue
				}
				res, err := uc.reconciler.ReconcileInTx(movRepo, stockRepo, inventory.MovementInput{
					// Intent determinista por venta y línea: un reintento de la
					// transacción no duplica descuentos.
					IntentID:  fmt.Sprintf("venta-%d-linea-%d", saleID, i),
					ItemID:    line.ItemID,
					ItemKind:  entity.ItemKindProduct,
					Direction: entity.DirectionExit,
					Quantity:  line.Quantity,
					Reason:    fmt.Sprintf("Venta #%d", saleID),
				}, now)
				if err != nil {
					return err
				}
				if res.Clamped {
					warnings = append(warnings, LineWarning{
						LineIndex: i,
						ItemID:    line.ItemID,
						Requested: line.Quantity,
						NewStock:  res.NewStock,
					})
				}
			}
			return saleRepo.UpdateStatus(saleID, entity.SaleStatusPending, entity.SaleStatusCompleted)
		})
		if err == nil {
			return warnings, nil
		}
		if errors.Is(err, domain.ErrSaleNotPending) {
			// El commit de un intento anterior pudo confirmarse aunque el
			// cliente viera una falla transitoria (confirmación perdida). Si
			// la venta ya quedó completada, este intento fue un replay: el
			// descuento se aplicó exactamente una vez y el resultado es éxito.
			sale, getErr := uc.saleRepo.GetByID(saleID)
			if getErr == nil && sale != nil && sale.Status == entity.SaleStatusCompleted {
				return warnings, nil
			}
			return nil, err
		}
		if !errors.Is(err, domain.ErrTransientStore) {
			return nil, err
		}
		if attempt >= maxAttempts {
			return nil, fmt.Errorf("%w tras %d intentos: %w", domain.ErrReconciliationFailed, attempt, err)
		}
		select {
		case <-time.After(retryBackoff * time.Duration(attempt)):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", domain.ErrReconciliationFailed, ctx.Err())
		}
	}
}

// GetByID devuelve una venta con sus líneas.
func (uc *CheckoutUseCase) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	return uc.saleRepo.GetByID(id)
}

// List devuelve ventas recientes.
func (uc *CheckoutUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return uc.saleRepo.List(limit, offset)
}
