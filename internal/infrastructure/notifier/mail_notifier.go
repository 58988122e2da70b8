// Package notifier implementa las alertas de stock bajo por correo (SMTP).
// El envío es best-effort: se despacha fuera de cualquier transacción y un
// fallo solo deja registro en el log, nunca afecta la operación que lo originó.
package notifier

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/tu-usuario/retail-pos/internal/application/inventory"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/pkg/config"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

var _ inventory.Notifier = (*MailNotifier)(nil)

// MailNotifier envía alertas de stock bajo al correo del manager del negocio.
type MailNotifier struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewMailNotifier construye el notificador. Si la configuración SMTP está
// vacía, las alertas se descartan en silencio.
func NewMailNotifier(cfg config.SMTPConfig, log *logger.Logger) *MailNotifier {
	return &MailNotifier{cfg: cfg, log: log}
}

// NotifyLowStock envía la alerta de stock bajo de un producto.
func (n *MailNotifier) NotifyLowStock(business *entity.Business, product *entity.Product) {
	if !n.cfg.Enabled() || business.ManagerEmail == "" {
		return
	}

	subject := fmt.Sprintf("Alerta de stock bajo: %s", product.Name)
	body := fmt.Sprintf(
		"Hola,\n\nEl producto %q de %s quedó con %d %s en inventario (umbral: %d).\n\n"+
			"Considera hacer una reposición pronto.\n",
		product.Name, business.Name, product.StockQuantity, product.Unit, product.LowStockThreshold,
	)

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", business.ManagerEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		n.log.Warn().
			Err(err).
			Str("business_id", business.ID).
			Str("product_id", product.ID).
			Msg("alerta de stock bajo no enviada")
		return
	}
	n.log.Info().
		Str("business_id", business.ID).
		Str("product_id", product.ID).
		Int64("stock", product.StockQuantity).
		Msg("alerta de stock bajo enviada")
}
