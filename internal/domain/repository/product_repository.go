package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos. Campos vacíos no filtran.
type ProductFilter struct {
	CodePrefix   string // código que empieza por
	NameContains string // nombre que contiene (sin distinguir mayúsculas)
	Query        string // búsqueda rápida: código por prefijo o nombre por contenido
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila del producto hasta el fin de la transacción.
	// Fuera de una transacción se comporta como GetByID.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int) error
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, error)
}
