package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	domaininv "github.com/jhoicas/taller-api/internal/domain/inventory"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// SearchLimit máximo de resultados de la búsqueda rápida.
const SearchLimit = 10

// ProductUseCase casos de uso del catálogo. El stock solo cambia vía movimientos de inventario.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. stock_current inicia igual a stock_initial.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Code == "" || in.Name == "" || in.Category == "" {
		return nil, domain.Invalid("code, name y category son obligatorios")
	}
	if in.CostPrice.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.Invalid("los precios no pueden ser negativos")
	}
	if in.SalePrice.LessThan(in.CostPrice) {
		return nil, domain.Invalid("el precio de venta no puede ser menor al de compra")
	}
	if in.StockInitial < 0 || in.StockInitial > domaininv.MaxQuantity {
		return nil, domain.Invalid("stock_initial debe ser un entero entre 0 y %d", domaininv.MaxQuantity)
	}

	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateCode
	}

	product := &entity.Product{
		Code:         in.Code,
		Name:         in.Name,
		Category:     in.Category,
		Brand:        strings.TrimSpace(in.Brand),
		Description:  strings.TrimSpace(in.Description),
		CostPrice:    in.CostPrice.Round(2),
		SalePrice:    in.SalePrice.Round(2),
		StockInitial: in.StockInitial,
		StockCurrent: in.StockInitial,
		CreatedAt:    time.Now(),
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// List lista productos con filtros por código (prefijo) y nombre (contiene).
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	filter := repository.ProductFilter{
		CodePrefix:   strings.TrimSpace(in.Code),
		NameContains: strings.TrimSpace(in.Name),
	}
	list, err := uc.repo.List(ctx, filter, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return toProductList(list, in.Limit, in.Offset), nil
}

// Search búsqueda rápida: código por prefijo o nombre por contenido. Consulta vacía = sin resultados.
func (uc *ProductUseCase) Search(ctx context.Context, q string) ([]dto.ProductResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []dto.ProductResponse{}, nil
	}
	list, err := uc.repo.List(ctx, repository.ProductFilter{Query: q}, SearchLimit, 0)
	if err != nil {
		return nil, err
	}
	return toProductList(list, SearchLimit, 0).Items, nil
}

func toProductList(list []*entity.Product, limit, offset int) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
}
