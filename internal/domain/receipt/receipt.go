// Package receipt implementa el formato de los números de recibo (servicio de
// dominio puro, sin acceso a datos): REC-YYYYMMDD-NNNN, donde NNNN es un
// consecutivo diario de 4 dígitos por negocio, base 1.
package receipt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const prefix = "REC"

// Format construye el número de recibo para una fecha y un consecutivo.
func Format(on time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, on.Format("20060102"), seq)
}

// ParseSequence extrae el consecutivo del último segmento de un número de
// recibo: todo lo que siga al último guion, si es numérico. Un número legado
// con otro prefijo pero sufijo numérico continúa la secuencia; devuelve
// (0, false) solo si no hay segmento numérico final, para que el llamador
// reinicie el consecutivo en 1.
func ParseSequence(receiptNumber string) (int, bool) {
	idx := strings.LastIndex(receiptNumber, "-")
	if idx < 0 || idx == len(receiptNumber)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(receiptNumber[idx+1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Next calcula el siguiente número de recibo a partir del último emitido ese
// día. Si lastNumber está vacío o no se puede interpretar, arranca en 1: los
// huecos por ventas abortadas se toleran, lo que importa es el máximo.
func Next(on time.Time, lastNumber string) string {
	seq := 1
	if lastNumber != "" {
		if n, ok := ParseSequence(lastNumber); ok {
			seq = n + 1
		}
	}
	return Format(on, seq)
}
