package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

type stubReceiptGenerator struct {
	called bool
}

func (g *stubReceiptGenerator) GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, business *entity.Business, items []sales.SaleItemForPDF) ([]byte, error) {
	g.called = true
	return []byte("%PDF-stub"), nil
}

func seedSale(store *saleStore, saleID, businessID string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sales[saleID] = entity.Sale{
		ID:            saleID,
		BusinessID:    businessID,
		ReceiptNumber: "REC-20260831-0001",
		TotalAmount:   decimal.RequireFromString("2.00"),
		CreatedAt:     time.Now(),
	}
}

func TestDownloadReceiptPDF_GeneraArchivoConNombreDelRecibo(t *testing.T) {
	store := newSaleStore()
	seedSale(store, "sale-1", bizID)
	gen := &stubReceiptGenerator{}
	uc := sales.NewReceiptPDFUseCase(
		&stubSaleRepo{store: store},
		&stubBusinessRepo{business: &entity.Business{ID: bizID, Name: "Tienda Centro"}},
		&stubProductRepo{store: store},
		gen,
	)

	pdfBytes, filename, err := uc.DownloadReceiptPDF(context.Background(), bizID, "sale-1")
	require.NoError(t, err)
	assert.True(t, gen.called)
	assert.NotEmpty(t, pdfBytes)
	assert.Equal(t, "recibo_REC-20260831-0001.pdf", filename)
}

func TestDownloadReceiptPDF_VentaDeOtroNegocio_NotFound(t *testing.T) {
	store := newSaleStore()
	seedSale(store, "sale-1", "otro-negocio")
	uc := sales.NewReceiptPDFUseCase(
		&stubSaleRepo{store: store},
		&stubBusinessRepo{business: &entity.Business{ID: bizID, Name: "Tienda Centro"}},
		&stubProductRepo{store: store},
		&stubReceiptGenerator{},
	)

	_, _, err := uc.DownloadReceiptPDF(context.Background(), bizID, "sale-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownloadReceiptPDF_NegocioInexistente_NotFound(t *testing.T) {
	store := newSaleStore()
	seedSale(store, "sale-1", bizID)
	gen := &stubReceiptGenerator{}
	// El repositorio no conoce el negocio: (nil, nil)
	uc := sales.NewReceiptPDFUseCase(
		&stubSaleRepo{store: store},
		&stubBusinessRepo{},
		&stubProductRepo{store: store},
		gen,
	)

	_, _, err := uc.DownloadReceiptPDF(context.Background(), bizID, "sale-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, gen.called, "sin negocio no debe intentarse la generación")
}
