package inventory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallerpro/taller-api/internal/application/inventory"
	"github.com/tallerpro/taller-api/internal/domain"
	"github.com/tallerpro/taller-api/internal/domain/entity"
	"github.com/tallerpro/taller-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional
// ──────────────────────────────────────────────────────────────────────────────

// memStore simula el almacén: estado confirmado + transacciones con snapshot
// que solo se publican en commit. El mutex hace de lock de fila: las
// transacciones sobre el almacén quedan serializadas, igual que con
// SELECT FOR UPDATE sobre un ítem.
type memStore struct {
	mu        sync.Mutex
	stocks    map[string]int64
	movements []*entity.Movement
	nextID    int64

	// failSetStock inyecta fallas transitorias en SetStock: cada llamada
	// decrementa el contador y falla mientras sea > 0. Simula una caída de
	// conexión entre el append al libro y la escritura del stock.
	failSetStock int
}

func newMemStore() *memStore {
	return &memStore{stocks: make(map[string]int64)}
}

func key(kind string, itemID int64) string {
	return fmt.Sprintf("%s:%d", kind, itemID)
}

func (s *memStore) seed(kind string, itemID, stock int64) {
	s.stocks[key(kind, itemID)] = stock
}

// txState cambios pendientes de una transacción en vuelo.
type txState struct {
	store     *memStore
	movements []*entity.Movement
	stocks    map[string]int64
}

// Run implementa inventory.TxRunner con commit/rollback reales: los cambios
// del callback solo se publican si retorna nil.
func (s *memStore) Run(_ context.Context, fn func(repository.MovementRepository, repository.StockRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txState{store: s, stocks: make(map[string]int64)}
	if err := fn(&txMovementRepo{tx: tx}, &txStockRepo{tx: tx}); err != nil {
		return err
	}
	s.movements = append(s.movements, tx.movements...)
	for k, v := range tx.stocks {
		s.stocks[k] = v
	}
	return nil
}

type txMovementRepo struct {
	tx *txState
}

func (r *txMovementRepo) Create(m *entity.Movement) error {
	for _, prev := range append(r.tx.store.movements, r.tx.movements...) {
		if prev.IntentID == m.IntentID {
			return domain.ErrDuplicate
		}
	}
	r.tx.store.nextID++
	m.ID = r.tx.store.nextID
	cp := *m
	r.tx.movements = append(r.tx.movements, &cp)
	return nil
}

func (r *txMovementRepo) GetByID(id int64) (*entity.Movement, error) {
	for _, m := range append(r.tx.store.movements, r.tx.movements...) {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *txMovementRepo) GetByIntentID(intentID string) (*entity.Movement, error) {
	for _, m := range append(r.tx.store.movements, r.tx.movements...) {
		if m.IntentID == intentID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *txMovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	all := append(append([]*entity.Movement{}, r.tx.store.movements...), r.tx.movements...)
	var out []*entity.Movement
	// Inserción en orden cronológico: recorrer al revés da el más reciente primero.
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if filter.ItemKind != "" && m.ItemKind != filter.ItemKind {
			continue
		}
		if filter.ItemID != 0 && m.ItemID != filter.ItemID {
			continue
		}
		if filter.Direction != "" && m.Direction != filter.Direction {
			continue
		}
		out = append(out, m)
	}
	if filter.Offset < len(out) {
		out = out[filter.Offset:]
	} else {
		out = nil
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

type txStockRepo struct {
	tx *txState
}

func (r *txStockRepo) Get(kind string, itemID int64) (*entity.ItemStock, error) {
	k := key(kind, itemID)
	if stock, ok := r.tx.stocks[k]; ok {
		return &entity.ItemStock{ItemID: itemID, ItemKind: kind, Stock: stock}, nil
	}
	if stock, ok := r.tx.store.stocks[k]; ok {
		return &entity.ItemStock{ItemID: itemID, ItemKind: kind, Stock: stock}, nil
	}
	return nil, nil
}

func (r *txStockRepo) GetForUpdate(kind string, itemID int64) (*entity.ItemStock, error) {
	return r.Get(kind, itemID)
}

func (r *txStockRepo) SetStock(kind string, itemID int64, stock int64) error {
	if r.tx.store.failSetStock > 0 {
		r.tx.store.failSetStock--
		return fmt.Errorf("%w: conexión perdida", domain.ErrTransientStore)
	}
	r.tx.stocks[key(kind, itemID)] = stock
	return nil
}

// plainStockRepo lecturas consultivas fuera de transacción (CheckAvailability).
type plainStockRepo struct {
	store *memStore
}

func (r *plainStockRepo) Get(kind string, itemID int64) (*entity.ItemStock, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if stock, ok := r.store.stocks[key(kind, itemID)]; ok {
		return &entity.ItemStock{ItemID: itemID, ItemKind: kind, Stock: stock}, nil
	}
	return nil, nil
}

func (r *plainStockRepo) GetForUpdate(kind string, itemID int64) (*entity.ItemStock, error) {
	return r.Get(kind, itemID)
}

func (r *plainStockRepo) SetStock(kind string, itemID int64, stock int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.stocks[key(kind, itemID)] = stock
	return nil
}

func newUseCase(store *memStore) *inventory.ReconcileUseCase {
	return inventory.NewReconcileUseCase(store, &plainStockRepo{store: store})
}

func entrada(itemID, qty int64) inventory.MovementInput {
	return inventory.MovementInput{
		ItemID:    itemID,
		ItemKind:  entity.ItemKindProduct,
		Direction: entity.DirectionEntry,
		Quantity:  qty,
		Reason:    "Compra proveedor",
	}
}

func salida(itemID, qty int64) inventory.MovementInput {
	return inventory.MovementInput{
		ItemID:    itemID,
		ItemKind:  entity.ItemKindProduct,
		Direction: entity.DirectionExit,
		Quantity:  qty,
		Reason:    "Ajuste manual",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Conciliación básica
// ──────────────────────────────────────────────────────────────────────────────

// Una secuencia de entradas y salidas debe dejar el stock igual a la suma de
// los deltas, y cada movimiento debe encadenar stock anterior → resultante.
func TestReconcile_SecuenciaConservaElStock(t *testing.T) {
	store := newMemStore()
	store.seed(entity.ItemKindProduct, 1, 0)
	uc := newUseCase(store)
	ctx := context.Background()

	res, err := uc.Reconcile(ctx, entrada(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.NewStock)
	assert.False(t, res.Clamped)
	assert.NotEmpty(t, res.IntentID, "debe generarse intent id cuando no viene")

	res, err = uc.Reconcile(ctx, salida(1, 4))
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.NewStock)
	assert.False(t, res.Clamped)

	res, err = uc.Reconcile(ctx, entrada(1, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(11), res.NewStock)

	assert.Equal(t, int64(11), store.stocks[key(entity.ItemKindProduct, 1)])
	require.Len(t, store.movements, 3)
	for i, m := range store.movements {
		if i > 0 {
			assert.Equal(t, store.movements[i-1].ResultingStock, m.PreviousStock,
				"cada movimiento parte del stock resultante del anterior")
		}
	}
}

// Una salida mayor al stock disponible se registra con la cantidad solicitada
// completa y el stock queda limitado a 0 con warning, nunca negativo.
func TestReconcile_SalidaMayorQueStock_LimitaACeroYReporta(t *testing.T) {
	store := newMemStore()
	store.seed(entity.ItemKindProduct, 1, 3)
	uc := newUseCase(store)

	res, err := uc.Reconcile(context.Background(), salida(1, 5))
	require.NoError(t, err, "el cumplimiento parcial no es un error")
	assert.True(t, res.Clamped)
	assert.Equal(t, int64(0), res.NewStock)

	require.Len(t, store.movements, 1)
	m := store.movements[0]
	assert.Equal(t, int64(5), m.Quantity, "el libro conserva la cantidad solicitada")
	assert.Equal(t, int64(3), m.PreviousStock)
	assert.Equal(t, int64(0), m.ResultingStock)
	assert.Equal(t, int64(0), store.stocks[key(entity.ItemKindProduct, 1)])
}

func TestReconcile_ItemInexistente(t *testing.T) {
	store := newMemStore()
	uc := newUseCase(store)

	_, err := uc.Reconcile(context.Background(), salida(99, 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.movements)
}

func TestReconcile_EntradasInvalidas(t *testing.T) {
	store := newMemStore()
	store.seed(entity.ItemKindProduct, 1, 5)
	uc := newUseCase(store)
	ctx := context.Background()

	casos := []inventory.MovementInput{
		{ItemID: 1, ItemKind: entity.ItemKindProduct, Direction: entity.DirectionEntry, Quantity: 0, Reason: "x"},
		{ItemID: 1, ItemKind: entity.ItemKindProduct, Direction: entity.DirectionEntry, Quantity: -3, Reason: "x"},
		{ItemID: 1, ItemKind: "repuesto", Direction: entity.DirectionEntry, Quantity: 1, Reason: "x"},
		{ItemID: 1, ItemKind: entity.ItemKindProduct, Direction: "transferencia", Quantity: 1, Reason: "x"},
		{ItemID: 1, ItemKind: entity.ItemKindProduct, Direction: entity.DirectionEntry, Quantity: 1, Reason: ""},
	}
	for _, in := range casos {
		_, err := uc.Reconcile(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, store.movements, "ninguna intención inválida debe tocar el libro")
	assert.Equal(t, int64(5), store.stocks[key(entity.ItemKindProduct, 1)])
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia
// ──────────────────────────────────────────────────────────────────────────────

// Repetir una intención confirmada devuelve el resultado original sin volver a
// aplicar el delta.
func TestReconcile_IntencionRepetida_NoReaplica(t *testing.T) {
	store := newMemStore()
	store.seed(entity.ItemKindProduct, 1, 10)
	uc := newUseCase(store)
	ctx := context.Background()

	in := salida(1, 4)
	in.IntentID = "ajuste-001"

	primera, err := uc.Reconcile(ctx, in)
	require.NoError(t, err)
	assert.False(t, primera.Replayed)
	assert.Equal(t, int64(6), primera.NewStock)

	segunda, err := uc.Reconcile(ctx, in)
	require.NoError(t, err)
	assert.True(t, segunda.Replayed)
	assert.Equal(t, primera.MovementID, segunda.MovementID)
	assert.Equal(t, primera.NewStock, segunda.NewStock)
	assert.False(t, segunda.Clamped)

	assert.Equal(t, int64(6), store.stocks[key(entity.ItemKindProduct, 1)], "el stock no cambia en el replay")
	assert.Len(t, store.movements, 1, "una intención, un movimiento")
}

// El replay de una salida que fue limitada debe reconstruir el warning a
// partir del stock anterior registrado, incluso cuando el stock quedó
// exactamente en 0 por un drenaje sin clamp.
func TestReconcile_ReplayReconstruyeElClamp(t *testing.T) {
	store := newMemStore()
	store.seed(entity.ItemKindProduct, 1, 3)
	uc := newUseCase(store)
	ctx := context.Background()

	clampeada := salida(1, 5)
	clampeada.IntentID = "salida-clampeada"
	_, err := uc.Reconcile(ctx, clampeada)
	require.NoError(t, err)

	res, err := uc.Reconcile(ctx, clampeada)
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.True(t, res.Clamped)

	// Drenaje exacto: 3-3=0 sin clamp. Su replay no debe reportar warning.
	store2 := newMemStore()
	store2.seed(entity.ItemKindProduct, 1, 3)
	uc2 := newUseCase(store2)

	exacta := salida(1, 3)
	exacta.IntentID = "salida-exacta"
	_, err = uc2.Reconcile(ctx, exacta)
	require.NoError(t, err)

	res, err = uc2.Reconcile(ctx, exacta)
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.False(t, res.Clamped, "stock en 0 por drenaje exacto no es cumplimiento parcial")
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad y reintentos
// ──────────────────────────────────────────────────────────────────────────────

// Una falla transitoria entre el append al libro y la escritura del stock
// revierte la transacción completa; el reintento la aplica una sola vez.
func TestReconcile_ReintentaAnteFallaTransitoria(t *testing.T) {
	store := newMemStore()
	store.seed(entity.ItemKindProduct, 1, 10)
	store.failSetStock = 2
	uc := newUseCase(store)

	res, err := uc.Reconcile(context.Background(), salida(1, 4))
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.NewStock)
	assert.Equal(t, int64(6), store.stocks[key(entity.ItemKindProduct, 1)])
	assert.Len(t, store.movements, 1, "los intentos revertidos no dejan movimientos huérfanos")
}

// Agotados los reintentos, el error distingue la falla irrecuperable y el
// almacén queda intacto: ni stock movido ni movimiento registrado.
func TestReconcile_AgotaReintentosSinEfectosParciales(t *testing.T) {
	store := newMemStore()
	store.seed(entity.ItemKindProduct, 1, 10)
	store.failSetStock = 10
	uc := newUseCase(store)

	_, err := uc.Reconcile(context.Background(), salida(1, 4))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReconciliationFailed)
	assert.ErrorIs(t, err, domain.ErrTransientStore)

	assert.Equal(t, int64(10), store.stocks[key(entity.ItemKindProduct, 1)])
	assert.Empty(t, store.movements)
}

// Dos salidas concurrentes sobre el mismo ítem se linearizan por el lock: el
// stock nunca queda negativo y la que llega tarde queda limitada.
func TestReconcile_DobleSalidaConcurrente(t *testing.T) {
	store := newMemStore()
	store.seed(entity.ItemKindProduct, 1, 1)
	uc := newUseCase(store)

	var wg sync.WaitGroup
	results := make([]inventory.ReconcileResult, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := salida(1, 1)
			in.IntentID = fmt.Sprintf("concurrente-%d", i)
			results[i], errs[i] = uc.Reconcile(context.Background(), in)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int64(0), store.stocks[key(entity.ItemKindProduct, 1)])
	require.Len(t, store.movements, 2)

	clamped := 0
	for _, r := range results {
		if r.Clamped {
			clamped++
		}
	}
	assert.Equal(t, 1, clamped, "exactamente una de las dos salidas debe quedar limitada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Disponibilidad consultiva
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckAvailability(t *testing.T) {
	store := newMemStore()
	store.seed(entity.ItemKindProduct, 1, 5)
	uc := newUseCase(store)
	ctx := context.Background()

	ok, err := uc.CheckAvailability(ctx, entity.ItemKindProduct, 1, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.CheckAvailability(ctx, entity.ItemKindProduct, 1, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = uc.CheckAvailability(ctx, entity.ItemKindProduct, 99, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.CheckAvailability(ctx, entity.ItemKindProduct, 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
