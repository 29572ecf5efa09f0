package sales_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallerpro/taller-api/internal/application/inventory"
	"github.com/tallerpro/taller-api/internal/application/sales"
	"github.com/tallerpro/taller-api/internal/domain"
	"github.com/tallerpro/taller-api/internal/domain/entity"
	"github.com/tallerpro/taller-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria para el checkout
// ──────────────────────────────────────────────────────────────────────────────

// saleStore simula el almacén completo que toca una venta: catálogo, stock,
// libro de movimientos y ventas. RunSale publica los cambios solo en commit.
type saleStore struct {
	mu        sync.Mutex
	products  map[int64]*entity.Product
	services  map[int64]*entity.Service
	customers map[int64]*entity.Customer
	stocks    map[int64]int64
	movements []*entity.Movement
	sales     map[int64]*entity.Sale
	saleItems []entity.SaleItem

	nextMovID  int64
	nextSaleID int64
	nextItemID int64

	// Inyección de fallas: transitoria en SetStock, dura (una vez) en el paso
	// a completada, y confirmación de commit perdida (una vez) en la
	// transacción de descuento: el commit se aplica pero el llamador ve una
	// falla transitoria.
	failSetStock     int
	failCompleteOnce bool
	loseCommitAck    bool
}

func newSaleStore() *saleStore {
	return &saleStore{
		products:  make(map[int64]*entity.Product),
		services:  make(map[int64]*entity.Service),
		customers: make(map[int64]*entity.Customer),
		stocks:    make(map[int64]int64),
		sales:     make(map[int64]*entity.Sale),
	}
}

func (s *saleStore) addProduct(id int64, price string, stock int64) {
	s.products[id] = &entity.Product{ID: id, Name: fmt.Sprintf("Producto %d", id), Price: decimal.RequireFromString(price)}
	s.stocks[id] = stock
}

func (s *saleStore) addService(id int64, price string) {
	s.services[id] = &entity.Service{ID: id, Name: fmt.Sprintf("Servicio %d", id), Price: decimal.RequireFromString(price)}
}

func (s *saleStore) addCustomer(id int64) {
	s.customers[id] = &entity.Customer{ID: id, Name: fmt.Sprintf("Cliente %d", id)}
}

// saleTx cambios pendientes de una transacción de venta.
type saleTx struct {
	store       *saleStore
	movements   []*entity.Movement
	stocks      map[int64]int64
	newSales    []*entity.Sale
	newItems    []entity.SaleItem
	statusMoves map[int64]string
}

// RunSale implementa sales.SaleTxRunner con commit/rollback.
func (s *saleStore) RunSale(_ context.Context, fn func(
	repository.MovementRepository,
	repository.StockRepository,
	repository.SaleRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &saleTx{store: s, stocks: make(map[int64]int64), statusMoves: make(map[int64]string)}
	err := fn(&saleTxMovRepo{tx: tx}, &saleTxStockRepo{tx: tx}, &saleTxSaleRepo{tx: tx})
	if err != nil {
		return err
	}
	s.movements = append(s.movements, tx.movements...)
	for id, stock := range tx.stocks {
		s.stocks[id] = stock
	}
	for _, sale := range tx.newSales {
		cp := *sale
		s.sales[sale.ID] = &cp
	}
	s.saleItems = append(s.saleItems, tx.newItems...)
	for id, status := range tx.statusMoves {
		s.sales[id].Status = status
	}
	if s.loseCommitAck && len(tx.statusMoves) > 0 {
		s.loseCommitAck = false
		return fmt.Errorf("%w: confirmación del commit perdida", domain.ErrTransientStore)
	}
	return nil
}

type saleTxMovRepo struct {
	tx *saleTx
}

func (r *saleTxMovRepo) Create(m *entity.Movement) error {
	for _, prev := range append(r.tx.store.movements, r.tx.movements...) {
		if prev.IntentID == m.IntentID {
			return domain.ErrDuplicate
		}
	}
	r.tx.store.nextMovID++
	m.ID = r.tx.store.nextMovID
	cp := *m
	r.tx.movements = append(r.tx.movements, &cp)
	return nil
}

func (r *saleTxMovRepo) GetByID(id int64) (*entity.Movement, error) { return nil, nil }

func (r *saleTxMovRepo) GetByIntentID(intentID string) (*entity.Movement, error) {
	for _, m := range append(r.tx.store.movements, r.tx.movements...) {
		if m.IntentID == intentID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *saleTxMovRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	return nil, nil
}

type saleTxStockRepo struct {
	tx *saleTx
}

func (r *saleTxStockRepo) Get(kind string, itemID int64) (*entity.ItemStock, error) {
	if stock, ok := r.tx.stocks[itemID]; ok {
		return &entity.ItemStock{ItemID: itemID, ItemKind: kind, Stock: stock}, nil
	}
	if stock, ok := r.tx.store.stocks[itemID]; ok {
		return &entity.ItemStock{ItemID: itemID, ItemKind: kind, Stock: stock}, nil
	}
	return nil, nil
}

func (r *saleTxStockRepo) GetForUpdate(kind string, itemID int64) (*entity.ItemStock, error) {
	return r.Get(kind, itemID)
}

func (r *saleTxStockRepo) SetStock(kind string, itemID int64, stock int64) error {
	if r.tx.store.failSetStock > 0 {
		r.tx.store.failSetStock--
		return fmt.Errorf("%w: conexión perdida", domain.ErrTransientStore)
	}
	r.tx.stocks[itemID] = stock
	return nil
}

type saleTxSaleRepo struct {
	tx *saleTx
}

func (r *saleTxSaleRepo) Create(sale *entity.Sale) error {
	r.tx.store.nextSaleID++
	sale.ID = r.tx.store.nextSaleID
	cp := *sale
	r.tx.newSales = append(r.tx.newSales, &cp)
	return nil
}

func (r *saleTxSaleRepo) CreateItem(it *entity.SaleItem) error {
	r.tx.store.nextItemID++
	it.ID = r.tx.store.nextItemID
	r.tx.newItems = append(r.tx.newItems, *it)
	return nil
}

func (r *saleTxSaleRepo) GetByID(id int64) (*entity.Sale, error) {
	if sale, ok := r.tx.store.sales[id]; ok {
		cp := *sale
		return &cp, nil
	}
	return nil, nil
}

func (r *saleTxSaleRepo) List(limit, offset int) ([]*entity.Sale, error) { return nil, nil }

func (r *saleTxSaleRepo) UpdateStatus(id int64, from, to string) error {
	if to == entity.SaleStatusCompleted && r.tx.store.failCompleteOnce {
		r.tx.store.failCompleteOnce = false
		return errors.New("disco lleno")
	}
	sale, ok := r.tx.store.sales[id]
	if !ok {
		// La venta pudo crearse en esta misma transacción.
		for _, staged := range r.tx.newSales {
			if staged.ID == id {
				sale = staged
				ok = true
				break
			}
		}
	}
	if !ok {
		return domain.ErrNotFound
	}
	if sale.Status != from {
		return domain.ErrSaleNotPending
	}
	r.tx.statusMoves[id] = to
	return nil
}

// plainSaleRepo acceso fuera de transacción: marcar fallida y consultas.
type plainSaleRepo struct {
	store *saleStore
}

func (r *plainSaleRepo) Create(sale *entity.Sale) error { return errors.New("solo en tx") }

func (r *plainSaleRepo) CreateItem(it *entity.SaleItem) error { return errors.New("solo en tx") }

func (r *plainSaleRepo) GetByID(id int64) (*entity.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sale, ok := r.store.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	for _, it := range r.store.saleItems {
		if it.SaleID == id {
			cp.Items = append(cp.Items, it)
		}
	}
	return &cp, nil
}

func (r *plainSaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Sale
	for id := r.store.nextSaleID; id > 0 && len(out) < limit; id-- {
		if sale, ok := r.store.sales[id]; ok {
			cp := *sale
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *plainSaleRepo) UpdateStatus(id int64, from, to string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sale, ok := r.store.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	if sale.Status != from {
		return domain.ErrSaleNotPending
	}
	sale.Status = to
	return nil
}

// Repos de catálogo de solo lectura para el checkout.
type catalogRepos struct {
	store *saleStore
}

func (r *catalogRepos) Create(p *entity.Product) error { return errors.New("no implementado") }

func (r *catalogRepos) GetByID(id int64) (*entity.Product, error) {
	if p, ok := r.store.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *catalogRepos) GetByBarcode(code string) (*entity.Product, error) { return nil, nil }

func (r *catalogRepos) List(q string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *catalogRepos) Update(p *entity.Product) error { return errors.New("no implementado") }
func (r *catalogRepos) Delete(id int64) error          { return errors.New("no implementado") }

type serviceRepoFake struct {
	store *saleStore
}

func (r *serviceRepoFake) Create(s *entity.Service) error { return errors.New("no implementado") }

func (r *serviceRepoFake) GetByID(id int64) (*entity.Service, error) {
	if s, ok := r.store.services[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *serviceRepoFake) List(q string, limit, offset int) ([]*entity.Service, error) {
	return nil, nil
}

func (r *serviceRepoFake) Update(s *entity.Service) error { return errors.New("no implementado") }
func (r *serviceRepoFake) Delete(id int64) error          { return errors.New("no implementado") }

type customerRepoFake struct {
	store *saleStore
}

func (r *customerRepoFake) Create(c *entity.Customer) error { return errors.New("no implementado") }

func (r *customerRepoFake) GetByID(id int64) (*entity.Customer, error) {
	if c, ok := r.store.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *customerRepoFake) List(q string, limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}

func (r *customerRepoFake) Update(c *entity.Customer) error { return errors.New("no implementado") }
func (r *customerRepoFake) Delete(id int64) error           { return errors.New("no implementado") }

func newCheckout(store *saleStore) *sales.CheckoutUseCase {
	// El reconciliador real: dentro del checkout solo se usa ReconcileInTx,
	// que opera sobre los repos de la transacción.
	reconciler := inventory.NewReconcileUseCase(nil, nil)
	return sales.NewCheckoutUseCase(
		store,
		reconciler,
		&catalogRepos{store: store},
		&serviceRepoFake{store: store},
		&customerRepoFake{store: store},
		&plainSaleRepo{store: store},
	)
}

func productLine(id, qty int64) sales.CheckoutLine {
	return sales.CheckoutLine{Kind: entity.SaleLineProduct, ItemID: id, Quantity: qty}
}

func serviceLine(id, qty int64) sales.CheckoutLine {
	return sales.CheckoutLine{Kind: entity.SaleLineService, ItemID: id, Quantity: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout feliz
// ──────────────────────────────────────────────────────────────────────────────

// Una venta multilínea descuenta cada línea de producto exactamente una vez,
// no toca stock por los servicios y termina completada.
func TestCheckout_VentaMultilinea(t *testing.T) {
	store := newSaleStore()
	store.addProduct(1, "10.00", 5)
	store.addProduct(2, "4.50", 5)
	store.addService(7, "20.00")
	store.addCustomer(3)
	uc := newCheckout(store)

	customerID := int64(3)
	res, err := uc.Checkout(context.Background(), sales.CheckoutInput{
		CustomerID:    &customerID,
		PaymentMethod: "efectivo",
		Items: []sales.CheckoutLine{
			productLine(1, 2),
			productLine(2, 1),
			serviceLine(7, 1),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, res.Status)
	assert.True(t, res.Total.Equal(decimal.RequireFromString("44.50")), "total recalculado: 20+4.50+20, got %s", res.Total)
	assert.Empty(t, res.Warnings)

	assert.Equal(t, int64(3), store.stocks[1])
	assert.Equal(t, int64(4), store.stocks[2])

	require.Len(t, store.movements, 2, "solo las líneas de producto generan movimientos")
	for _, m := range store.movements {
		assert.Equal(t, entity.DirectionExit, m.Direction)
		assert.Equal(t, fmt.Sprintf("Venta #%d", res.SaleID), m.Reason)
	}

	sale, err := uc.GetByID(context.Background(), res.SaleID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)
	assert.Len(t, sale.Items, 3)
}

// Las líneas sin precio toman el del catálogo.
func TestCheckout_PrecioDeCatalogo(t *testing.T) {
	store := newSaleStore()
	store.addProduct(1, "12.30", 10)
	uc := newCheckout(store)

	res, err := uc.Checkout(context.Background(), sales.CheckoutInput{
		PaymentMethod: "tarjeta",
		Items:         []sales.CheckoutLine{productLine(1, 3)},
	})
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(decimal.RequireFromString("36.90")))

	sale, err := uc.GetByID(context.Background(), res.SaleID)
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.30")))
}

// Un descuento que excede el stock no aborta la venta: la línea queda limitada
// y reportada.
func TestCheckout_CumplimientoParcial(t *testing.T) {
	store := newSaleStore()
	store.addProduct(1, "5.00", 1)
	uc := newCheckout(store)

	res, err := uc.Checkout(context.Background(), sales.CheckoutInput{
		PaymentMethod: "efectivo",
		Items:         []sales.CheckoutLine{productLine(1, 3)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, res.Status)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 0, res.Warnings[0].LineIndex)
	assert.Equal(t, int64(3), res.Warnings[0].Requested)
	assert.Equal(t, int64(0), res.Warnings[0].NewStock)

	assert.Equal(t, int64(0), store.stocks[1])
	require.Len(t, store.movements, 1)
	assert.Equal(t, int64(3), store.movements[0].Quantity, "el libro conserva la cantidad vendida")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

// Un total del cliente que no cuadra con el recalculado se rechaza antes de
// persistir nada.
func TestCheckout_TotalQueNoCuadra(t *testing.T) {
	store := newSaleStore()
	store.addProduct(1, "10.00", 5)
	uc := newCheckout(store)

	_, err := uc.Checkout(context.Background(), sales.CheckoutInput{
		PaymentMethod: "efectivo",
		Total:         decimal.RequireFromString("999.00"),
		Items:         []sales.CheckoutLine{productLine(1, 2)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.sales)
	assert.Equal(t, int64(5), store.stocks[1])
}

func TestCheckout_ReferenciasInexistentes(t *testing.T) {
	store := newSaleStore()
	store.addProduct(1, "10.00", 5)
	uc := newCheckout(store)
	ctx := context.Background()

	_, err := uc.Checkout(ctx, sales.CheckoutInput{
		PaymentMethod: "efectivo",
		Items:         []sales.CheckoutLine{productLine(99, 1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	clienteFantasma := int64(42)
	_, err = uc.Checkout(ctx, sales.CheckoutInput{
		CustomerID:    &clienteFantasma,
		PaymentMethod: "efectivo",
		Items:         []sales.CheckoutLine{productLine(1, 1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Checkout(ctx, sales.CheckoutInput{
		PaymentMethod: "efectivo",
		Items:         []sales.CheckoutLine{{Kind: "propina", ItemID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Checkout(ctx, sales.CheckoutInput{PaymentMethod: "efectivo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, store.sales, "nada debe persistirse cuando la validación falla")
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallas durante el descuento
// ──────────────────────────────────────────────────────────────────────────────

// Una falla dura en la transacción de descuento deja la venta fallida para
// seguimiento, con el stock intacto y sin movimientos huérfanos.
func TestCheckout_FallaDura_MarcaVentaFallida(t *testing.T) {
	store := newSaleStore()
	store.addProduct(1, "10.00", 5)
	store.failCompleteOnce = true
	uc := newCheckout(store)

	res, err := uc.Checkout(context.Background(), sales.CheckoutInput{
		PaymentMethod: "efectivo",
		Items:         []sales.CheckoutLine{productLine(1, 2)},
	})
	require.Error(t, err)
	assert.Equal(t, entity.SaleStatusFailed, res.Status)
	require.NotZero(t, res.SaleID)

	sale, getErr := uc.GetByID(context.Background(), res.SaleID)
	require.NoError(t, getErr)
	require.NotNil(t, sale, "la venta fallida se conserva")
	assert.Equal(t, entity.SaleStatusFailed, sale.Status)

	assert.Equal(t, int64(5), store.stocks[1], "el rollback dejó el stock intacto")
	assert.Empty(t, store.movements, "sin movimientos huérfanos")
}

// Las fallas transitorias se reintentan; los intent ids deterministas evitan
// descontar dos veces la misma línea.
func TestCheckout_ReintentaFallaTransitoria(t *testing.T) {
	store := newSaleStore()
	store.addProduct(1, "10.00", 5)
	store.failSetStock = 2
	uc := newCheckout(store)

	res, err := uc.Checkout(context.Background(), sales.CheckoutInput{
		PaymentMethod: "efectivo",
		Items:         []sales.CheckoutLine{productLine(1, 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, res.Status)
	assert.Equal(t, int64(3), store.stocks[1], "el descuento se aplicó exactamente una vez")
	assert.Len(t, store.movements, 1)
}

// Si el commit del descuento se confirma pero el llamador observa una falla
// transitoria, el reintento hace replay de los movimientos y encuentra la
// venta ya completada: el checkout responde éxito, nunca fallida, con los
// warnings de cumplimiento parcial reconstruidos.
func TestCheckout_CommitConfirmadoConAckPerdido(t *testing.T) {
	store := newSaleStore()
	store.addProduct(1, "10.00", 5)
	store.addProduct(2, "4.00", 1)
	store.loseCommitAck = true
	uc := newCheckout(store)

	res, err := uc.Checkout(context.Background(), sales.CheckoutInput{
		PaymentMethod: "efectivo",
		Items: []sales.CheckoutLine{
			productLine(1, 2),
			productLine(2, 3),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, res.Status)
	require.Len(t, res.Warnings, 1, "el replay reconstruye el cumplimiento parcial")
	assert.Equal(t, 1, res.Warnings[0].LineIndex)
	assert.Equal(t, int64(3), res.Warnings[0].Requested)

	assert.Equal(t, int64(3), store.stocks[1], "el descuento se aplicó exactamente una vez")
	assert.Equal(t, int64(0), store.stocks[2])
	assert.Len(t, store.movements, 2)

	sale, getErr := uc.GetByID(context.Background(), res.SaleID)
	require.NoError(t, getErr)
	require.NotNil(t, sale)
	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)
}

// Los estados terminales no son re-enterables.
func TestCheckout_EstadoTerminalNoReenterable(t *testing.T) {
	store := newSaleStore()
	store.addProduct(1, "10.00", 5)
	uc := newCheckout(store)

	res, err := uc.Checkout(context.Background(), sales.CheckoutInput{
		PaymentMethod: "efectivo",
		Items:         []sales.CheckoutLine{productLine(1, 1)},
	})
	require.NoError(t, err)

	repo := &plainSaleRepo{store: store}
	err = repo.UpdateStatus(res.SaleID, entity.SaleStatusPending, entity.SaleStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrSaleNotPending)
}
