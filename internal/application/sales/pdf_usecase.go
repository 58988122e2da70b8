package sales

import (
	"context"
	"fmt"

	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// ReceiptPDFUseCase genera la representación impresa (PDF) del recibo de una
// venta confirmada.
type ReceiptPDFUseCase struct {
	saleRepo     repository.SaleRepository
	businessRepo repository.BusinessRepository
	productRepo  repository.ProductRepository
	generator    ReceiptPDFGenerator
}

// NewReceiptPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptPDFUseCase(
	saleRepo repository.SaleRepository,
	businessRepo repository.BusinessRepository,
	productRepo repository.ProductRepository,
	generator ReceiptPDFGenerator,
) *ReceiptPDFUseCase {
	return &ReceiptPDFUseCase{
		saleRepo:     saleRepo,
		businessRepo: businessRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// DownloadReceiptPDF carga la venta, sus líneas y el negocio, enriquece cada
// línea con el nombre del producto y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la venta no existe o es de otro negocio.
func (uc *ReceiptPDFUseCase) DownloadReceiptPDF(ctx context.Context, businessID, saleID string) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener venta: %w", err)
	}
	if sale == nil || sale.BusinessID != businessID {
		return nil, "", domain.ErrNotFound
	}

	business, err := uc.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener negocio: %w", err)
	}
	if business == nil {
		return nil, "", domain.ErrNotFound
	}

	rawItems, err := uc.saleRepo.GetItemsBySaleID(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	sale.Items = rawItems

	enriched := make([]SaleItemForPDF, 0, len(rawItems))
	for _, item := range rawItems {
		name := "Producto " + item.ProductID // fallback
		unit := ""
		if product, pErr := uc.productRepo.GetByID(item.ProductID); pErr == nil && product != nil {
			name = product.Name
			unit = product.Unit
		}
		enriched = append(enriched, SaleItemForPDF{
			SaleItem:    *item,
			ProductName: name,
			Unit:        unit,
		})
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, sale, business, enriched)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("recibo_%s.pdf", sale.ReceiptNumber)
	return pdfBytes, filename, nil
}
