package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/scims-analytics/internal/domain"
)

// validateID verifica que id sea un UUID antes de enviarlo a la DB, para devolver
// ErrInvalidInput en lugar de un error de sintaxis de PostgreSQL (22P02).
func validateID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s %q no es un UUID", domain.ErrInvalidInput, kind, id)
	}
	return nil
}

// nullableTime convierte un límite en zero value a NULL para que la consulta no lo aplique.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
