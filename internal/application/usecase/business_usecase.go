package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// BusinessUseCase gestión de negocios (tenants). La creación está reservada al
// rol superuser; el gate vive en el middleware HTTP, no aquí.
type BusinessUseCase struct {
	businessRepo repository.BusinessRepository
}

// NewBusinessUseCase construye el caso de uso.
func NewBusinessUseCase(businessRepo repository.BusinessRepository) *BusinessUseCase {
	return &BusinessUseCase{businessRepo: businessRepo}
}

// Create registra un nuevo negocio.
func (uc *BusinessUseCase) Create(in dto.CreateBusinessRequest) (*dto.BusinessResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	business := &entity.Business{
		ID:           uuid.New().String(),
		Name:         in.Name,
		ManagerEmail: in.ManagerEmail,
		Phone:        in.Phone,
		Address:      in.Address,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.businessRepo.Create(business); err != nil {
		return nil, err
	}
	return toBusinessResponse(business), nil
}

// GetByID obtiene un negocio por ID.
func (uc *BusinessUseCase) GetByID(id string) (*dto.BusinessResponse, error) {
	business, err := uc.businessRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	return toBusinessResponse(business), nil
}

// List lista negocios con paginación.
func (uc *BusinessUseCase) List(page dto.PageRequest) ([]dto.BusinessResponse, error) {
	page.DefaultPage()
	list, err := uc.businessRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BusinessResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBusinessResponse(b))
	}
	return out, nil
}

func toBusinessResponse(b *entity.Business) *dto.BusinessResponse {
	return &dto.BusinessResponse{
		ID:           b.ID,
		Name:         b.Name,
		ManagerEmail: b.ManagerEmail,
		Phone:        b.Phone,
		Address:      b.Address,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
	}
}
