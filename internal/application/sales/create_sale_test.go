package sales_test

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
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/receipt"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// saleStore guarda todo el estado que toca una venta (productos, bitácora,
// ventas y líneas); fakeSaleTxRunner toma un snapshot antes de ejecutar y lo
// restaura si la función falla, emulando el ROLLBACK real. El mutex del runner
// serializa las transacciones igual que lo hace el bloqueo de la fila del
// negocio en PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type saleStore struct {
	mu       sync.Mutex
	products map[string]entity.Product
	logs     []*entity.StockLog
	sales    map[string]entity.Sale
	items    []*entity.SaleItem
}

func newSaleStore() *saleStore {
	return &saleStore{
		products: make(map[string]entity.Product),
		sales:    make(map[string]entity.Sale),
	}
}

type storeSnapshot struct {
	products map[string]entity.Product
	logs     []*entity.StockLog
	sales    map[string]entity.Sale
	items    []*entity.SaleItem
}

func (s *saleStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storeSnapshot{
		products: make(map[string]entity.Product, len(s.products)),
		logs:     make([]*entity.StockLog, len(s.logs)),
		sales:    make(map[string]entity.Sale, len(s.sales)),
		items:    make([]*entity.SaleItem, len(s.items)),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	copy(snap.logs, s.logs)
	for k, v := range s.sales {
		snap.sales[k] = v
	}
	copy(snap.items, s.items)
	return snap
}

func (s *saleStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.logs = snap.logs
	s.sales = snap.sales
	s.items = snap.items
}

type stubProductRepo struct{ store *saleStore }

func (r *stubProductRepo) Create(p *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[p.ID] = *p
	return nil
}

func (r *stubProductRepo) GetByID(id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *stubProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *stubProductRepo) Update(p *entity.Product) error { return nil }

func (r *stubProductRepo) UpdateStock(productID string, newStock int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = newStock
	r.store.products[productID] = p
	return nil
}

func (r *stubProductRepo) UpdateRestockInfo(productID string, buying, selling decimal.Decimal, restockedAt time.Time) error {
	return nil
}

func (r *stubProductRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) ListLowStock(businessID string) ([]*entity.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) ExistsByCategory(categoryID string) (bool, error) { return false, nil }

func (r *stubProductRepo) Delete(id string) error { return nil }

type stubStockLogRepo struct{ store *saleStore }

func (r *stubStockLogRepo) Create(l *entity.StockLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *l
	r.store.logs = append(r.store.logs, &cp)
	return nil
}

func (r *stubStockLogRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLog, error) {
	return nil, nil
}

func (r *stubStockLogRepo) ListByBusiness(businessID, action string, from, to *time.Time, limit, offset int) ([]*entity.StockLog, error) {
	return nil, nil
}

type stubSaleRepo struct{ store *saleStore }

func (r *stubSaleRepo) Create(sale *entity.Sale) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	// Red de seguridad del consecutivo, como la constraint única en BD
	for _, existing := range r.store.sales {
		if existing.BusinessID == sale.BusinessID && existing.ReceiptNumber == sale.ReceiptNumber {
			return domain.ErrDuplicateReceipt
		}
	}
	cp := *sale
	cp.Items = nil
	r.store.sales[sale.ID] = cp
	return nil
}

func (r *stubSaleRepo) CreateItem(item *entity.SaleItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *item
	r.store.items = append(r.store.items, &cp)
	return nil
}

func (r *stubSaleRepo) GetByID(id string) (*entity.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.sales[id]
	if !ok {
		return nil, nil
	}
	cp := s
	return &cp, nil
}

func (r *stubSaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.SaleItem
	for _, item := range r.store.items {
		if item.SaleID == saleID {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) ListByBusiness(businessID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Sale
	for _, s := range r.store.sales {
		if s.BusinessID == businessID {
			cp := s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) LastReceiptNumber(businessID string, day time.Time) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	y, m, d := day.Date()
	best := ""
	bestSeq := -1
	for _, s := range r.store.sales {
		if s.BusinessID != businessID {
			continue
		}
		sy, sm, sd := s.CreatedAt.Date()
		if sy != y || sm != m || sd != d {
			continue
		}
		if n, ok := receipt.ParseSequence(s.ReceiptNumber); ok && n > bestSeq {
			bestSeq = n
			best = s.ReceiptNumber
		}
	}
	return best, nil
}

type stubBusinessRepo struct {
	business *entity.Business
}

func (r *stubBusinessRepo) Create(b *entity.Business) error { return nil }

func (r *stubBusinessRepo) GetByID(id string) (*entity.Business, error) {
	if r.business != nil && r.business.ID == id {
		cp := *r.business
		return &cp, nil
	}
	return nil, nil
}

func (r *stubBusinessRepo) GetForUpdate(id string) (*entity.Business, error) {
	return r.GetByID(id)
}

func (r *stubBusinessRepo) List(limit, offset int) ([]*entity.Business, error) { return nil, nil }

// fakeSaleTxRunner serializa con mutex (como el bloqueo de la fila del
// negocio) y revierte al snapshot si fn falla.
type fakeSaleTxRunner struct {
	mu           sync.Mutex
	store        *saleStore
	businessRepo repository.BusinessRepository
}

func (t *fakeSaleTxRunner) RunSale(ctx context.Context, fn func(
	logRepo repository.StockLogRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	businessRepo repository.BusinessRepository,
) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.store.snapshot()
	err := fn(
		&stubStockLogRepo{store: t.store},
		&stubProductRepo{store: t.store},
		&stubSaleRepo{store: t.store},
		t.businessRepo,
	)
	if err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const (
	bizID   = "biz-1"
	actorID = "cashier-1"
)

type saleFixture struct {
	store *saleStore
	uc    *sales.CreateSaleUseCase
}

func newSaleFixture() *saleFixture {
	store := newSaleStore()
	productRepo := &stubProductRepo{store: store}
	businessRepo := &stubBusinessRepo{business: &entity.Business{ID: bizID, Name: "Tienda Centro", Status: "active"}}
	runner := &fakeSaleTxRunner{store: store, businessRepo: businessRepo}

	// El mutador real de inventario, con dependencias vacías: dentro de la
	// venta solo se usan ApplySaleInTx y DispatchLowStockAlerts (sin notifier
	// el despacho es un no-op)
	stockUC := inventory.NewStockUseCase(nil, productRepo, businessRepo, nil)
	return &saleFixture{
		store: store,
		uc:    sales.NewCreateSaleUseCase(runner, productRepo, stockUC, stockUC),
	}
}

func (f *saleFixture) seedProduct(name string, stock int64, sellingPrice string) string {
	id := uuid.New().String()
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.products[id] = entity.Product{
		ID:                id,
		BusinessID:        bizID,
		CategoryID:        "cat-1",
		Name:              name,
		Unit:              entity.UnitPieces,
		StockQuantity:     stock,
		BuyingPrice:       decimal.NewFromFloat(1),
		SellingPrice:      decimal.RequireFromString(sellingPrice),
		LowStockThreshold: 0,
		CreatedAt:         time.Now(),
	}
	return id
}

func (f *saleFixture) stockOf(productID string) int64 {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.products[productID].StockQuantity
}

func (f *saleFixture) counts() (salesN, itemsN, logsN int) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return len(f.store.sales), len(f.store.items), len(f.store.logs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_DosLineas_TotalYStock(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 10, "2.00")
	aceiteID := f.seedProduct("Aceite 1L", 8, "3.50")

	resp, err := f.uc.CreateSale(context.Background(), bizID, actorID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: arrozID, Quantity: 2},
			{ProductID: aceiteID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	// 2 x 2.00 + 1 x 3.50 = 7.50
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("7.50")),
		"total esperado 7.50, fue %s", resp.TotalAmount)
	assert.Len(t, resp.Items, 2)
	assert.NotEmpty(t, resp.ReceiptNumber)

	// El stock bajó exactamente lo vendido
	assert.Equal(t, int64(8), f.stockOf(arrozID))
	assert.Equal(t, int64(7), f.stockOf(aceiteID))

	// El total es exactamente la suma de las líneas
	sum := decimal.Zero
	for _, item := range resp.Items {
		sum = sum.Add(item.TotalPrice)
	}
	assert.True(t, resp.TotalAmount.Equal(sum))

	// Una entrada de bitácora por línea, referenciando el recibo
	salesN, itemsN, logsN := f.counts()
	assert.Equal(t, 1, salesN)
	assert.Equal(t, 2, itemsN)
	assert.Equal(t, 2, logsN)
	changes := map[string]int64{}
	for _, l := range f.store.logs {
		assert.Equal(t, entity.ActionSale, l.Action)
		assert.Equal(t, resp.ReceiptNumber, l.Reference)
		changes[l.ProductID] = l.QuantityChange
	}
	assert.Equal(t, int64(-2), changes[arrozID])
	assert.Equal(t, int64(-1), changes[aceiteID])
}

func TestCreateSale_StockInsuficiente_NoQuedaRastro(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 10, "2.00")
	aceiteID := f.seedProduct("Aceite 1L", 1, "3.50")

	// La primera línea cabe, la segunda no: todo debe revertirse
	_, err := f.uc.CreateSale(context.Background(), bizID, actorID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: arrozID, Quantity: 5},
			{ProductID: aceiteID, Quantity: 3},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), f.stockOf(arrozID), "el stock de la primera línea debe revertirse")
	assert.Equal(t, int64(1), f.stockOf(aceiteID))

	salesN, itemsN, logsN := f.counts()
	assert.Zero(t, salesN, "no debe quedar venta")
	assert.Zero(t, itemsN, "no deben quedar líneas")
	assert.Zero(t, logsN, "no deben quedar entradas de bitácora")
}

func TestCreateSale_Contado_PagaElTotalExacto(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 10, "2.00")

	resp, err := f.uc.CreateSale(context.Background(), bizID, actorID, dto.CreateSaleRequest{
		Items:      []dto.SaleLineRequest{{ProductID: arrozID, Quantity: 3}},
		AmountPaid: decimal.NewFromInt(100), // se ignora en contado
	})
	require.NoError(t, err)

	assert.False(t, resp.IsCredit)
	assert.True(t, resp.AmountPaid.Equal(resp.TotalAmount), "en contado lo pagado es el total")
	assert.True(t, resp.Balance.IsZero())
}

func TestCreateSale_Credito_CalculaSaldo(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 10, "2.00")

	resp, err := f.uc.CreateSale(context.Background(), bizID, actorID, dto.CreateSaleRequest{
		Items:        []dto.SaleLineRequest{{ProductID: arrozID, Quantity: 5}}, // total 10.00
		CustomerName: "María",
		IsCredit:     true,
		AmountPaid:   decimal.RequireFromString("4.00"),
	})
	require.NoError(t, err)

	assert.True(t, resp.IsCredit)
	assert.True(t, resp.AmountPaid.Equal(decimal.RequireFromString("4.00")))
	assert.True(t, resp.Balance.Equal(decimal.RequireFromString("6.00")),
		"saldo esperado 6.00, fue %s", resp.Balance)
}

func TestCreateSale_LineasVaciasSeDescartan(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 10, "2.00")

	resp, err := f.uc.CreateSale(context.Background(), bizID, actorID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{}, // línea en blanco del formulario: se ignora
			{ProductID: arrozID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
}

func TestCreateSale_LineaConCantidadCero_SeDescartaYElRestoSeConfirma(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 10, "2.00")
	aceiteID := f.seedProduct("Aceite 1L", 8, "3.50")

	// Una fila del formulario quedó con producto pero cantidad cero: se
	// descarta y la venta se confirma con la línea válida
	resp, err := f.uc.CreateSale(context.Background(), bizID, actorID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: arrozID, Quantity: 0},
			{ProductID: aceiteID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, aceiteID, resp.Items[0].ProductID)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("3.50")))
	assert.Equal(t, int64(10), f.stockOf(arrozID), "la línea descartada no toca stock")
	assert.Equal(t, int64(7), f.stockOf(aceiteID))
}

func TestCreateSale_LineasInvalidas(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 10, "2.00")

	cases := []struct {
		name  string
		items []dto.SaleLineRequest
	}{
		{"sin líneas", nil},
		{"solo líneas en blanco", []dto.SaleLineRequest{{}, {}}},
		{"solo cantidad sin producto", []dto.SaleLineRequest{{Quantity: 2}}},
		{"solo producto sin cantidad", []dto.SaleLineRequest{{ProductID: arrozID}}},
		{"cantidad negativa", []dto.SaleLineRequest{{ProductID: arrozID, Quantity: -1}}},
	}
	for _, tc := range cases {
		_, err := f.uc.CreateSale(context.Background(), bizID, actorID, dto.CreateSaleRequest{Items: tc.items})
		assert.ErrorIs(t, err, domain.ErrInvalidLine, tc.name)
	}
	assert.Equal(t, int64(10), f.stockOf(arrozID), "ninguna petición inválida debe tocar stock")
}

func TestCreateSale_ProductoDeOtroNegocio_NotFound(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 10, "2.00")
	f.store.mu.Lock()
	p := f.store.products[arrozID]
	p.BusinessID = "otro-negocio"
	f.store.products[arrozID] = p
	f.store.mu.Unlock()

	_, err := f.uc.CreateSale(context.Background(), bizID, actorID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: arrozID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSale_PagoNegativo_Rechazado(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 10, "2.00")

	_, err := f.uc.CreateSale(context.Background(), bizID, actorID, dto.CreateSaleRequest{
		Items:      []dto.SaleLineRequest{{ProductID: arrozID, Quantity: 1}},
		AmountPaid: decimal.NewFromInt(-5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_PrecioCongeladoEnLaLinea(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 10, "2.00")

	resp, err := f.uc.CreateSale(context.Background(), bizID, actorID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: arrozID, Quantity: 4}},
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	item := resp.Items[0]
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("2.00")))
	assert.True(t, item.TotalPrice.Equal(decimal.RequireFromString("8.00")),
		"total de línea = cantidad x precio unitario")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consecutivo de recibos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_ConsecutivoDiario(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 100, "2.00")
	ctx := context.Background()

	first, err := f.uc.CreateSale(ctx, bizID, actorID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: arrozID, Quantity: 1}},
	})
	require.NoError(t, err)
	second, err := f.uc.CreateSale(ctx, bizID, actorID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: arrozID, Quantity: 1}},
	})
	require.NoError(t, err)

	today := time.Now().Format("20060102")
	assert.Equal(t, "REC-"+today+"-0001", first.ReceiptNumber)
	assert.Equal(t, "REC-"+today+"-0002", second.ReceiptNumber)
}

func TestCreateSale_VentaAbortadaNoConsumeConsecutivo(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 100, "2.00")
	aceiteID := f.seedProduct("Aceite 1L", 0, "3.50")
	ctx := context.Background()

	_, err := f.uc.CreateSale(ctx, bizID, actorID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: arrozID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Falla por stock: el número que leyó se descarta junto con la tx
	_, err = f.uc.CreateSale(ctx, bizID, actorID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: aceiteID, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	resp, err := f.uc.CreateSale(ctx, bizID, actorID, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: arrozID, Quantity: 1}},
	})
	require.NoError(t, err)
	today := time.Now().Format("20060102")
	assert.Equal(t, "REC-"+today+"-0002", resp.ReceiptNumber,
		"el consecutivo sigue del último recibo confirmado")
}

func TestCreateSale_Concurrente_50RecibosDistintos(t *testing.T) {
	f := newSaleFixture()
	arrozID := f.seedProduct("Arroz 1kg", 1000, "2.00")

	const n = 50
	receipts := make(chan string, n)
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.uc.CreateSale(context.Background(), bizID, actorID, dto.CreateSaleRequest{
				Items: []dto.SaleLineRequest{{ProductID: arrozID, Quantity: 1}},
			})
			if err != nil {
				errs <- err
				return
			}
			receipts <- resp.ReceiptNumber
		}()
	}
	wg.Wait()
	close(receipts)
	close(errs)

	for err := range errs {
		t.Fatalf("venta concurrente falló: %v", err)
	}

	seen := make(map[string]bool, n)
	for r := range receipts {
		assert.False(t, seen[r], "número de recibo repetido: %s", r)
		seen[r] = true
	}
	assert.Len(t, seen, n, "cada venta debe recibir un número distinto")

	// El stock refleja exactamente las n unidades vendidas
	assert.Equal(t, int64(1000-n), f.stockOf(arrozID))
	salesN, itemsN, logsN := f.counts()
	assert.Equal(t, n, salesN)
	assert.Equal(t, n, itemsN)
	assert.Equal(t, n, logsN)
}

func TestNextReceiptNumber_DevuelveSiguiente(t *testing.T) {
	store := newSaleStore()
	repo := &stubSaleRepo{store: store}
	now := time.Now()

	num, err := sales.NextReceiptNumber(repo, bizID, now)
	require.NoError(t, err)
	assert.Equal(t, receipt.Format(now, 1), num)

	store.mu.Lock()
	store.sales["s1"] = entity.Sale{
		ID: "s1", BusinessID: bizID,
		ReceiptNumber: receipt.Format(now, 7),
		CreatedAt:     now,
	}
	store.mu.Unlock()

	num, err = sales.NextReceiptNumber(repo, bizID, now)
	require.NoError(t, err)
	assert.Equal(t, receipt.Format(now, 8), num)
}
