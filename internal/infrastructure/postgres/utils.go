package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reconoce la violación de una constraint única (SQLSTATE
// 23505). Los repositorios la traducen al error de dominio que corresponda:
// ErrDuplicate, ErrEmailAlreadyExists o ErrDuplicateReceipt.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}
