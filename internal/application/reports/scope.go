// Package reports contiene los casos de uso de los reportes de ventas: resolución del
// alcance (tienda o negocio), carga concurrente de ventas por tienda, filtrado y agregación.
package reports

import (
	"context"
	"fmt"

	"github.com/jhoicas/scims-analytics/internal/domain"
	"github.com/jhoicas/scims-analytics/internal/domain/entity"
	"github.com/jhoicas/scims-analytics/internal/domain/repository"
)

// Caller identidad del usuario que pide el reporte, tal como la entrega la autenticación.
type Caller struct {
	UserID     string
	Role       string
	BusinessID string
	StoreID    string
}

// ScopeResolver decide qué tiendas son visibles para un Caller.
// No cachea: cada llamada consulta el directorio.
type ScopeResolver struct {
	stores repository.StoreDirectory
}

// NewScopeResolver construye el resolver.
func NewScopeResolver(stores repository.StoreDirectory) *ScopeResolver {
	return &ScopeResolver{stores: stores}
}

// Resolve devuelve los IDs de tienda cuyas ventas se deben cargar.
//
//   - Roles de tienda (store_admin, cashier): exactamente [StoreID]; ScopeError si falta.
//   - Roles de negocio (superadmin, business_admin): todas las tiendas del negocio.
//     Un negocio sin tiendas devuelve un slice vacío, no un error.
func (r *ScopeResolver) Resolve(ctx context.Context, caller Caller) ([]string, error) {
	switch {
	case entity.IsSingleStoreRole(caller.Role):
		if caller.StoreID == "" {
			return nil, &domain.ScopeError{Role: caller.Role, Reason: "el usuario no tiene tienda asignada"}
		}
		return []string{caller.StoreID}, nil

	case entity.IsBusinessWideRole(caller.Role):
		if caller.BusinessID == "" {
			return nil, &domain.ScopeError{Role: caller.Role, Reason: "el usuario no tiene negocio asignado"}
		}
		ids, err := r.stores.ListStoreIDs(ctx, caller.BusinessID)
		if err != nil {
			return nil, fmt.Errorf("scope: listar tiendas del negocio %s: %w", caller.BusinessID, err)
		}
		if ids == nil {
			ids = []string{}
		}
		return ids, nil

	default:
		return nil, &domain.ScopeError{Role: caller.Role, Reason: "rol sin acceso a reportes"}
	}
}
