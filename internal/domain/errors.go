package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrScope        = errors.New("alcance de reporte inválido")
)

// ScopeError indica que no se pudo determinar el conjunto de tiendas visibles para el usuario.
// Es fatal para la petición de reporte; errors.Is(err, ErrScope) es verdadero.
type ScopeError struct {
	Role   string
	Reason string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("alcance de reporte inválido (rol %q): %s", e.Role, e.Reason)
}

// Is permite comparar contra ErrScope.
func (e *ScopeError) Is(target error) bool {
	return target == ErrScope
}
