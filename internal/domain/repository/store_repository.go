package repository

import (
	"context"

	"github.com/jhoicas/scims-analytics/internal/domain/entity"
)

// StoreDirectory define el puerto de consulta del directorio de tiendas de un negocio.
type StoreDirectory interface {
	// ListStoreIDs devuelve los IDs de las tiendas del negocio. Sin tiendas → slice vacío, sin error.
	ListStoreIDs(ctx context.Context, businessID string) ([]string, error)
	// GetBusiness devuelve el negocio o (nil, nil) si no existe.
	GetBusiness(ctx context.Context, businessID string) (*entity.Business, error)
}
