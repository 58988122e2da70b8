package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/inventory"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// fakeStore guarda productos y bitácora; fakeTxRunner emula la transacción
// tomando un snapshot antes de ejecutar y restaurándolo si la función falla,
// igual que un ROLLBACK.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu       sync.Mutex
	products map[string]entity.Product
	logs     []*entity.StockLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: make(map[string]entity.Product)}
}

func (s *fakeStore) put(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *fakeStore) get(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *fakeStore) logCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

func (s *fakeStore) logsFor(productID string) []*entity.StockLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.StockLog
	for _, l := range s.logs {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out
}

func (s *fakeStore) snapshot() (map[string]entity.Product, []*entity.StockLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make(map[string]entity.Product, len(s.products))
	for k, v := range s.products {
		products[k] = v
	}
	logs := make([]*entity.StockLog, len(s.logs))
	copy(logs, s.logs)
	return products, logs
}

func (s *fakeStore) restore(products map[string]entity.Product, logs []*entity.StockLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.logs = logs
}

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.store.put(*p)
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.get(id)
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	existing, ok := r.store.get(p.ID)
	if !ok {
		return domain.ErrNotFound
	}
	// Update nunca toca stock
	stock := existing.StockQuantity
	cp := *p
	cp.StockQuantity = stock
	r.store.put(cp)
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID string, newStock int64) error {
	p, ok := r.store.get(productID)
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = newStock
	r.store.put(p)
	return nil
}

func (r *fakeProductRepo) UpdateRestockInfo(productID string, buying, selling decimal.Decimal, restockedAt time.Time) error {
	p, ok := r.store.get(productID)
	if !ok {
		return domain.ErrNotFound
	}
	p.BuyingPrice = buying
	p.SellingPrice = selling
	t := restockedAt
	p.LastRestocked = &t
	r.store.put(p)
	return nil
}

func (r *fakeProductRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.BusinessID == businessID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListLowStock(businessID string) ([]*entity.Product, error) {
	all, _ := r.ListByBusiness(businessID, 0, 0)
	var out []*entity.Product
	for _, p := range all {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ExistsByCategory(categoryID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.products, id)
	return nil
}

type fakeStockLogRepo struct{ store *fakeStore }

func (r *fakeStockLogRepo) Create(l *entity.StockLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *l
	r.store.logs = append(r.store.logs, &cp)
	return nil
}

func (r *fakeStockLogRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLog, error) {
	return r.store.logsFor(productID), nil
}

func (r *fakeStockLogRepo) ListByBusiness(businessID, action string, from, to *time.Time, limit, offset int) ([]*entity.StockLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.StockLog, len(r.store.logs))
	copy(out, r.store.logs)
	return out, nil
}

type fakeBusinessRepo struct {
	mu         sync.Mutex
	businesses map[string]entity.Business
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{businesses: make(map[string]entity.Business)}
}

func (r *fakeBusinessRepo) put(b entity.Business) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.businesses[b.ID] = b
}

func (r *fakeBusinessRepo) Create(b *entity.Business) error {
	r.put(*b)
	return nil
}

func (r *fakeBusinessRepo) GetByID(id string) (*entity.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.businesses[id]
	if !ok {
		return nil, nil
	}
	cp := b
	return &cp, nil
}

func (r *fakeBusinessRepo) GetForUpdate(id string) (*entity.Business, error) {
	return r.GetByID(id)
}

func (r *fakeBusinessRepo) List(limit, offset int) ([]*entity.Business, error) {
	return nil, nil
}

// fakeTxRunner restaura el snapshot si fn falla, emulando el ROLLBACK real.
// beforeTx simula escrituras de otra conexión confirmadas justo antes de que
// esta transacción abra.
type fakeTxRunner struct {
	store    *fakeStore
	beforeTx func()
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	logRepo repository.StockLogRepository,
	productRepo repository.ProductRepository,
) error) error {
	if t.beforeTx != nil {
		t.beforeTx()
	}
	products, logs := t.store.snapshot()
	err := fn(&fakeStockLogRepo{store: t.store}, &fakeProductRepo{store: t.store})
	if err != nil {
		t.store.restore(products, logs)
		return err
	}
	return nil
}

// fakeNotifier entrega las alertas por canal para que el test pueda esperar a
// la goroutine de despacho.
type fakeNotifier struct {
	alerts chan string // IDs de producto notificados
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{alerts: make(chan string, 16)}
}

func (n *fakeNotifier) NotifyLowStock(business *entity.Business, product *entity.Product) {
	n.alerts <- product.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const (
	bizID   = "biz-1"
	actorID = "user-1"
)

func seedProduct(store *fakeStore, stock, threshold int64) string {
	id := uuid.New().String()
	store.put(entity.Product{
		ID:                id,
		BusinessID:        bizID,
		CategoryID:        "cat-1",
		Name:              "Arroz 1kg",
		Unit:              entity.UnitPieces,
		StockQuantity:     stock,
		InitialStock:      stock, // sembrado directo, sin bitácora previa
		BuyingPrice:       decimal.NewFromFloat(1.20),
		SellingPrice:      decimal.NewFromFloat(2.00),
		LowStockThreshold: threshold,
		CreatedAt:         time.Now(),
	})
	return id
}

func newStockUseCase(store *fakeStore, notifier inventory.Notifier) *inventory.StockUseCase {
	return inventory.NewStockUseCase(
		&fakeTxRunner{store: store},
		&fakeProductRepo{store: store},
		newFakeBusinessRepo(),
		notifier,
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del mutador
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyChange_DescuentaYRegistraBitacora(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 10, 2)
	uc := newStockUseCase(store, nil)

	logEntry, err := uc.ApplyChange(context.Background(), inventory.ChangeInput{
		BusinessID: bizID,
		ActorID:    actorID,
		ProductID:  productID,
		Action:     entity.ActionAdjustment,
		Delta:      -3,
		Note:       "merma",
	})
	require.NoError(t, err)
	require.NotNil(t, logEntry)

	// Stock actualizado y entrada de bitácora con antes/después coherentes
	p, _ := store.get(productID)
	assert.Equal(t, int64(7), p.StockQuantity)
	assert.Equal(t, int64(-3), logEntry.QuantityChange)
	assert.Equal(t, int64(10), logEntry.PreviousStock)
	assert.Equal(t, int64(7), logEntry.NewStock)
	assert.Equal(t, entity.ActionAdjustment, logEntry.Action)
	assert.Equal(t, actorID, logEntry.CreatedBy)
	assert.Equal(t, 1, store.logCount())
}

func TestApplyChange_StockInsuficiente_NoPersisteNada(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 5, 2)
	uc := newStockUseCase(store, nil)

	_, err := uc.ApplyChange(context.Background(), inventory.ChangeInput{
		BusinessID: bizID,
		ActorID:    actorID,
		ProductID:  productID,
		Action:     entity.ActionAdjustment,
		Delta:      -6,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni el stock ni la bitácora cambiaron
	p, _ := store.get(productID)
	assert.Equal(t, int64(5), p.StockQuantity)
	assert.Equal(t, 0, store.logCount())
}

func TestApplyChange_DeltaCero_Rechazado(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 5, 2)
	uc := newStockUseCase(store, nil)

	_, err := uc.ApplyChange(context.Background(), inventory.ChangeInput{
		BusinessID: bizID,
		ActorID:    actorID,
		ProductID:  productID,
		Action:     entity.ActionAdjustment,
		Delta:      0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestApplyChange_ProductoDeOtroNegocio_NotFound(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 5, 2)
	uc := newStockUseCase(store, nil)

	_, err := uc.ApplyChange(context.Background(), inventory.ChangeInput{
		BusinessID: "otro-negocio",
		ActorID:    actorID,
		ProductID:  productID,
		Action:     entity.ActionAdjustment,
		Delta:      1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyChange_BajarAExactamenteCero_Permitido(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 4, 2)
	uc := newStockUseCase(store, nil)

	logEntry, err := uc.ApplyChange(context.Background(), inventory.ChangeInput{
		BusinessID: bizID,
		ActorID:    actorID,
		ProductID:  productID,
		Action:     entity.ActionAdjustment,
		Delta:      -4,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), logEntry.NewStock)

	p, _ := store.get(productID)
	assert.Equal(t, int64(0), p.StockQuantity)
}

// La bitácora debe poder reproducir el stock: para cada producto, la suma de
// QuantityChange de todas sus entradas es igual a StockQuantity - InitialStock.
func TestBitacora_ReproduceElStock(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 20, 2)
	uc := newStockUseCase(store, nil)
	ctx := context.Background()

	deltas := []int64{-5, 10, -3, -7, 2}
	for _, d := range deltas {
		_, err := uc.ApplyChange(ctx, inventory.ChangeInput{
			BusinessID: bizID,
			ActorID:    actorID,
			ProductID:  productID,
			Action:     entity.ActionAdjustment,
			Delta:      d,
		})
		require.NoError(t, err)
	}
	// Un intento fallido no deja rastro en la suma
	_, err := uc.ApplyChange(ctx, inventory.ChangeInput{
		BusinessID: bizID,
		ActorID:    actorID,
		ProductID:  productID,
		Action:     entity.ActionAdjustment,
		Delta:      -1000,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := store.get(productID)
	var sum int64
	for _, l := range store.logsFor(productID) {
		sum += l.QuantityChange
		assert.Equal(t, l.PreviousStock+l.QuantityChange, l.NewStock)
	}
	assert.Equal(t, p.StockQuantity-p.InitialStock, sum,
		"la suma de cambios de la bitácora debe explicar el stock actual")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de reposición y ajuste
// ──────────────────────────────────────────────────────────────────────────────

func TestRestock_SumaStockYActualizaPrecios(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 3, 2)
	uc := newStockUseCase(store, nil)

	newBuying := decimal.NewFromFloat(1.50)
	newSelling := decimal.NewFromFloat(2.50)
	logEntry, err := uc.Restock(context.Background(), bizID, actorID, dto.RestockRequest{
		ProductID:    productID,
		Quantity:     12,
		BuyingPrice:  &newBuying,
		SellingPrice: &newSelling,
		Supplier:     "Distribuidora Sur",
	})
	require.NoError(t, err)

	p, _ := store.get(productID)
	assert.Equal(t, int64(15), p.StockQuantity)
	assert.True(t, p.BuyingPrice.Equal(newBuying))
	assert.True(t, p.SellingPrice.Equal(newSelling))
	require.NotNil(t, p.LastRestocked, "debe marcar la fecha de reposición")

	assert.Equal(t, entity.ActionRestock, logEntry.Action)
	assert.Equal(t, int64(12), logEntry.QuantityChange)
	assert.Equal(t, int64(3), logEntry.PreviousStock)
	assert.Equal(t, int64(15), logEntry.NewStock)
	require.NotNil(t, logEntry.BuyingPrice)
	assert.True(t, logEntry.BuyingPrice.Equal(newBuying), "la bitácora congela el precio de la reposición")
	assert.Contains(t, logEntry.Notes, "Distribuidora Sur")
}

func TestRestock_SinPrecios_ConservaLosDelProducto(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 3, 2)
	uc := newStockUseCase(store, nil)

	logEntry, err := uc.Restock(context.Background(), bizID, actorID, dto.RestockRequest{
		ProductID: productID,
		Quantity:  5,
	})
	require.NoError(t, err)

	p, _ := store.get(productID)
	assert.True(t, p.BuyingPrice.Equal(decimal.NewFromFloat(1.20)))
	require.NotNil(t, logEntry.SellingPrice)
	assert.True(t, logEntry.SellingPrice.Equal(decimal.NewFromFloat(2.00)))
}

func TestRestock_SinPrecios_NoPisaPrecioConcurrente(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 3, 2)
	runner := &fakeTxRunner{store: store}
	// Otra conexión confirma un nuevo precio de venta entre la validación y la
	// apertura de la transacción de reposición
	runner.beforeTx = func() {
		p, _ := store.get(productID)
		p.SellingPrice = decimal.NewFromFloat(2.75)
		store.put(p)
	}
	uc := inventory.NewStockUseCase(runner, &fakeProductRepo{store: store}, newFakeBusinessRepo(), nil)

	logEntry, err := uc.Restock(context.Background(), bizID, actorID, dto.RestockRequest{
		ProductID: productID,
		Quantity:  5,
	})
	require.NoError(t, err)

	// El precio base sale de la fila bloqueada, no de la lectura previa
	p, _ := store.get(productID)
	assert.True(t, p.SellingPrice.Equal(decimal.NewFromFloat(2.75)),
		"la reposición sin precios no debe pisar el precio vigente")
	require.NotNil(t, logEntry.SellingPrice)
	assert.True(t, logEntry.SellingPrice.Equal(decimal.NewFromFloat(2.75)))
}

func TestRestock_CantidadNoPositiva_Rechazada(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 3, 2)
	uc := newStockUseCase(store, nil)

	for _, qty := range []int64{0, -4} {
		_, err := uc.Restock(context.Background(), bizID, actorID, dto.RestockRequest{
			ProductID: productID,
			Quantity:  qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad %d", qty)
	}
}

func TestRestock_PrecioNegativo_Rechazado(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 3, 2)
	uc := newStockUseCase(store, nil)

	bad := decimal.NewFromFloat(-1)
	_, err := uc.Restock(context.Background(), bizID, actorID, dto.RestockRequest{
		ProductID:   productID,
		Quantity:    5,
		BuyingPrice: &bad,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_NegativoNuncaBajaDeCero(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 2, 1)
	uc := newStockUseCase(store, nil)

	_, err := uc.Adjust(context.Background(), bizID, actorID, dto.AdjustmentRequest{
		ProductID: productID,
		Quantity:  -3,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := store.get(productID)
	assert.Equal(t, int64(2), p.StockQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de alertas de stock bajo
// ──────────────────────────────────────────────────────────────────────────────

func TestAlertaStockBajo_SeDespachaTrasElCommit(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 10, 5)
	notifier := newFakeNotifier()

	businessRepo := newFakeBusinessRepo()
	businessRepo.put(entity.Business{ID: bizID, Name: "Tienda Centro", ManagerEmail: "gerente@tienda.test"})
	uc := inventory.NewStockUseCase(
		&fakeTxRunner{store: store},
		&fakeProductRepo{store: store},
		businessRepo,
		notifier,
	)

	// Baja el stock hasta el umbral: debe disparar la alerta
	_, err := uc.ApplyChange(context.Background(), inventory.ChangeInput{
		BusinessID: bizID,
		ActorID:    actorID,
		ProductID:  productID,
		Action:     entity.ActionAdjustment,
		Delta:      -5,
	})
	require.NoError(t, err)

	select {
	case notified := <-notifier.alerts:
		assert.Equal(t, productID, notified)
	case <-time.After(2 * time.Second):
		t.Fatal("la alerta de stock bajo nunca se despachó")
	}
}

func TestAlertaStockBajo_NoSeDespachaSobreElUmbral(t *testing.T) {
	store := newFakeStore()
	productID := seedProduct(store, 10, 2)
	notifier := newFakeNotifier()

	businessRepo := newFakeBusinessRepo()
	businessRepo.put(entity.Business{ID: bizID, Name: "Tienda Centro"})
	uc := inventory.NewStockUseCase(
		&fakeTxRunner{store: store},
		&fakeProductRepo{store: store},
		businessRepo,
		notifier,
	)

	_, err := uc.ApplyChange(context.Background(), inventory.ChangeInput{
		BusinessID: bizID,
		ActorID:    actorID,
		ProductID:  productID,
		Action:     entity.ActionAdjustment,
		Delta:      -3, // queda en 7, umbral 2
	})
	require.NoError(t, err)

	select {
	case <-notifier.alerts:
		t.Fatal("no debía despacharse alerta: el stock sigue sobre el umbral")
	case <-time.After(100 * time.Millisecond):
	}
}
