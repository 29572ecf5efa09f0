package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tallerpro/taller-api/internal/domain"
	"github.com/tallerpro/taller-api/internal/domain/entity"
	"github.com/tallerpro/taller-api/internal/domain/repository"
)

// Reintentos ante fallas transitorias del almacén. La transacción completa se
// repite como unidad; la clave de idempotencia evita aplicar dos veces.
const (
	maxAttempts  = 3
	retryBackoff = 100 * time.Millisecond
)

// ReconcileUseCase es la única autoridad que convierte una intención de
// movimiento en un par (stock, movimiento) consistente. Toda mutación de stock
// pasa por aquí, serializada por ítem con bloqueo de fila (SELECT FOR UPDATE)
// y Commit/Rollback.
type ReconcileUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository // lecturas consultivas fuera de tx
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(txRunner TxRunner, stockRepo repository.StockRepository) *ReconcileUseCase {
	return &ReconcileUseCase{txRunner: txRunner, stockRepo: stockRepo}
}

// MovementInput es la intención de movimiento que emite el caller
// (pantalla de ajuste manual o checkout de venta).
// IntentID es opcional: si viene vacío se genera uno nuevo; repetir el mismo
// IntentID después de un éxito confirmado no vuelve a aplicar el delta.
type MovementInput struct {
	IntentID  string
	ItemID    int64
	ItemKind  string
	Direction string
	Quantity  int64
	Reason    string
}

// ReconcileResult es el resultado de una conciliación.
// Clamped marca cumplimiento parcial: la salida habría dejado stock negativo,
// el movimiento se registró con la cantidad solicitada completa y el stock se
// limitó a 0 (política clamp-and-report). No es un error.
// Replayed indica que la intención ya estaba aplicada y se devuelve el
// resultado original sin tocar el stock.
type ReconcileResult struct {
	MovementID int64
	IntentID   string
	NewStock   int64
	Clamped    bool
	Replayed   bool
}

func validateInput(input *MovementInput) error {
	if input.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if !entity.ValidItemKind(input.ItemKind) || !entity.ValidDirection(input.Direction) {
		return domain.ErrInvalidInput
	}
	if input.Reason == "" {
		return domain.ErrInvalidInput
	}
	if input.IntentID == "" {
		input.IntentID = uuid.New().String()
	}
	return nil
}

// Reconcile valida la intención y la aplica en una transacción: bloquea la
// fila del ítem, registra el movimiento en el libro y escribe el stock
// resultante. Ante una falla transitoria la transacción completa se reintenta
// hasta maxAttempts; agotados los reintentos retorna ErrReconciliationFailed.
//
// Una conciliación en curso no es cancelable a mitad de transacción: si el
// caller abandona, la tx en vuelo confirma o revierte completa. El contexto
// solo se consulta entre reintentos, cuando no hay estado parcial.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, input MovementInput) (ReconcileResult, error) {
	if err := validateInput(&input); err != nil {
		return ReconcileResult{}, err
	}

	var res ReconcileResult
	for attempt := 1; ; attempt++ {
		err := uc.txRunner.Run(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockRepository,
		) error {
			r, err := uc.ReconcileInTx(movRepo, stockRepo, input, time.Now())
			if err != nil {
				return err
			}
			res = r
			return nil
		})
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, domain.ErrTransientStore) {
			return ReconcileResult{}, err
		}
		if attempt >= maxAttempts {
			return ReconcileResult{}, fmt.Errorf("%w tras %d intentos: %w", domain.ErrReconciliationFailed, attempt, err)
		}
		select {
		case <-time.After(retryBackoff * time.Duration(attempt)):
		case <-ctx.Done():
			return ReconcileResult{}, fmt.Errorf("%w: %w", domain.ErrReconciliationFailed, ctx.Err())
		}
	}
}

// ReconcileInTx aplica una intención usando los repositorios proporcionados
// (misma transacción del caller). Lo usa Reconcile y también el checkout de
// ventas para descontar stock línea por línea dentro de su propia transacción.
//
// La intención se valida aquí también porque el checkout entra directo.
func (uc *ReconcileUseCase) ReconcileInTx(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	input MovementInput,
	now time.Time,
) (ReconcileResult, error) {
	if err := validateInput(&input); err != nil {
		return ReconcileResult{}, err
	}

	// Idempotencia: una intención ya aplicada devuelve su resultado original.
	prev, err := movRepo.GetByIntentID(input.IntentID)
	if err != nil {
		return ReconcileResult{}, err
	}
	if prev != nil {
		return replayResult(prev), nil
	}

	// Bloquea la fila del ítem: todas las mutaciones de stock de un ítem
	// quedan linearizadas por este lock.
	stock, err := stockRepo.GetForUpdate(input.ItemKind, input.ItemID)
	if err != nil {
		return ReconcileResult{}, err
	}
	if stock == nil {
		return ReconcileResult{}, domain.ErrNotFound
	}

	newStock := stock.Stock
	clamped := false
	if input.Direction == entity.DirectionEntry {
		newStock += input.Quantity
	} else {
		newStock -= input.Quantity
		if newStock < 0 {
			// clamp-and-report: el movimiento conserva la cantidad solicitada
			// para fidelidad de auditoría; el stock se limita a 0.
			newStock = 0
			clamped = true
		}
	}

	mov := &entity.Movement{
		IntentID:       input.IntentID,
		ItemID:         input.ItemID,
		ItemKind:       input.ItemKind,
		Direction:      input.Direction,
		Quantity:       input.Quantity,
		Reason:         input.Reason,
		PreviousStock:  stock.Stock,
		ResultingStock: newStock,
		Date:           now,
	}
	if err := movRepo.Create(mov); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Otra transacción ganó la carrera con la misma intención:
			// devolver lo que quedó aplicado.
			prev, err2 := movRepo.GetByIntentID(input.IntentID)
			if err2 == nil && prev != nil {
				return replayResult(prev), nil
			}
			return ReconcileResult{}, err
		}
		return ReconcileResult{}, err
	}
	if err := stockRepo.SetStock(input.ItemKind, input.ItemID, newStock); err != nil {
		return ReconcileResult{}, err
	}

	return ReconcileResult{
		MovementID: mov.ID,
		IntentID:   input.IntentID,
		NewStock:   newStock,
		Clamped:    clamped,
	}, nil
}

// replayResult arma el resultado de una intención ya aplicada a partir del
// movimiento registrado: el registro guarda stock anterior y resultante, así
// que el clamp se reconstruye sin ambigüedad.
func replayResult(m *entity.Movement) ReconcileResult {
	return ReconcileResult{
		MovementID: m.ID,
		IntentID:   m.IntentID,
		NewStock:   m.ResultingStock,
		Clamped:    m.Direction == entity.DirectionExit && m.PreviousStock < m.Quantity,
		Replayed:   true,
	}
}

// CheckAvailability es el pre-chequeo consultivo de la UI: stock(id) >= qty.
// Nunca es la compuerta real de un descuento; esa es ReconcileInTx bajo lock.
func (uc *ReconcileUseCase) CheckAvailability(ctx context.Context, kind string, itemID, quantity int64) (bool, error) {
	if quantity <= 0 || !entity.ValidItemKind(kind) {
		return false, domain.ErrInvalidInput
	}
	stock, err := uc.stockRepo.Get(kind, itemID)
	if err != nil {
		return false, err
	}
	if stock == nil {
		return false, domain.ErrNotFound
	}
	return stock.Stock >= quantity, nil
}
