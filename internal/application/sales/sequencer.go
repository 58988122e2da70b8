package sales

import (
	"time"

	"github.com/tu-usuario/retail-pos/internal/domain/receipt"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// NextReceiptNumber calcula el siguiente número de recibo del negocio para el
// día indicado: localiza el sufijo numérico más alto ya emitido (no cuenta
// filas, para tolerar huecos de ventas abortadas) y suma uno; sin ventas ese
// día, o con un número ilegible, arranca en 1.
//
// Debe llamarse con el bloqueo de la fila del negocio ya tomado
// (BusinessRepository.GetForUpdate) dentro de la transacción de la venta: la
// lectura y la escritura del consecutivo quedan serializadas por negocio y dos
// ventas concurrentes el mismo día nunca reciben el mismo número.
func NextReceiptNumber(saleRepo repository.SaleRepository, businessID string, on time.Time) (string, error) {
	last, err := saleRepo.LastReceiptNumber(businessID, on)
	if err != nil {
		return "", err
	}
	return receipt.Next(on, last), nil
}
