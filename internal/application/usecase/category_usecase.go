package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// CategoryUseCase gestión de categorías de productos.
type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo, productRepo: productRepo}
}

// Create registra una categoría. El nombre es único por negocio: un duplicado
// llega como domain.ErrDuplicate desde la constraint de la BD.
func (uc *CategoryUseCase) Create(businessID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	category := &entity.Category{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       in.Name,
		CreatedAt:  time.Now(),
	}
	if err := uc.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// List lista las categorías del negocio.
func (uc *CategoryUseCase) List(businessID string) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.ListByBusiness(businessID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Delete elimina una categoría. Se rechaza con ErrConflict mientras existan
// productos asociados: hay que moverlos primero.
func (uc *CategoryUseCase) Delete(businessID, categoryID string) error {
	category, err := uc.categoryRepo.GetByID(categoryID)
	if err != nil {
		return err
	}
	if category == nil || category.BusinessID != businessID {
		return domain.ErrNotFound
	}
	hasProducts, err := uc.productRepo.ExistsByCategory(categoryID)
	if err != nil {
		return err
	}
	if hasProducts {
		return domain.ErrConflict
	}
	return uc.categoryRepo.Delete(categoryID)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}
