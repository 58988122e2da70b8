package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// Restock registra una reposición: actualiza precios si vienen en el request,
// marca last_restocked y aplica la entrada de stock, todo en una transacción.
func (uc *StockUseCase) Restock(ctx context.Context, businessID, actorID string, in dto.RestockRequest) (*entity.StockLog, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.BuyingPrice != nil && in.BuyingPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.SellingPrice != nil && in.SellingPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	note := in.Note
	if in.Supplier != "" {
		note = fmt.Sprintf("Reposición de %s. %s", in.Supplier, in.Note)
	}

	var logEntry *entity.StockLog
	var mutated *entity.Product
	err = uc.txRunner.Run(ctx, func(
		logRepo repository.StockLogRepository,
		productRepo repository.ProductRepository,
	) error {
		// Los precios base se leen de la fila ya bloqueada: un precio
		// confirmado por otra transacción entre la validación y el bloqueo no
		// se pisa con la lectura vieja
		locked, err := productRepo.GetForUpdate(product.ID)
		if err != nil {
			return err
		}
		if locked == nil || locked.BusinessID != businessID {
			return domain.ErrNotFound
		}
		buying := locked.BuyingPrice
		if in.BuyingPrice != nil {
			buying = *in.BuyingPrice
		}
		selling := locked.SellingPrice
		if in.SellingPrice != nil {
			selling = *in.SellingPrice
		}
		if err := productRepo.UpdateRestockInfo(locked.ID, buying, selling, now); err != nil {
			return err
		}

		change := ChangeInput{
			BusinessID:   businessID,
			ActorID:      actorID,
			ProductID:    in.ProductID,
			Action:       entity.ActionRestock,
			Delta:        in.Quantity,
			BuyingPrice:  &buying,
			SellingPrice: &selling,
			Note:         note,
			Reference:    fmt.Sprintf("RESTOCK-%s", now.Format("20060102-150405")),
		}
		logEntry, mutated, err = applyChangeInTx(logRepo, productRepo, change, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.dispatchLowStockAlert(mutated)
	return logEntry, nil
}

// Adjust aplica un ajuste manual de stock con signo. Un ajuste negativo nunca
// puede dejar el stock por debajo de cero.
func (uc *StockUseCase) Adjust(ctx context.Context, businessID, actorID string, in dto.AdjustmentRequest) (*entity.StockLog, error) {
	return uc.ApplyChange(ctx, ChangeInput{
		BusinessID: businessID,
		ActorID:    actorID,
		ProductID:  in.ProductID,
		Action:     entity.ActionAdjustment,
		Delta:      in.Quantity,
		Note:       in.Note,
	})
}
