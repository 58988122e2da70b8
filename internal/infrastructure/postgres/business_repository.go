package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

const businessColumns = `id, name, manager_email, phone, address, status, created_at, updated_at`

// BusinessRepo implementación de BusinessRepository sobre PostgreSQL (usable con pool o tx).
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador de negocios. Pasar pool o tx (Querier).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

// Create persiste un nuevo negocio.
func (r *BusinessRepo) Create(business *entity.Business) error {
	query := `
		INSERT INTO businesses (` + businessColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		business.ID, business.Name, business.ManagerEmail, business.Phone, business.Address,
		business.Status, business.CreatedAt, business.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID obtiene un negocio por ID.
func (r *BusinessRepo) GetByID(id string) (*entity.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get business")
}

// GetForUpdate obtiene el negocio y bloquea la fila (SELECT FOR UPDATE).
// Es el punto de serialización del consecutivo de recibos: dos ventas
// concurrentes del mismo negocio esperan aquí una a la otra.
func (r *BusinessRepo) GetForUpdate(id string) (*entity.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get business for update")
}

// List lista negocios con paginación.
func (r *BusinessRepo) List(limit, offset int) ([]*entity.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Business
	for rows.Next() {
		var b entity.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.ManagerEmail, &b.Phone, &b.Address, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func (r *BusinessRepo) scanOne(row pgx.Row, op string) (*entity.Business, error) {
	var b entity.Business
	err := row.Scan(&b.ID, &b.Name, &b.ManagerEmail, &b.Phone, &b.Address, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}
