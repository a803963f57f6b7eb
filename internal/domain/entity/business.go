package entity

import "time"

// Estados de un negocio.
const (
	BusinessStatusActive    = "active"
	BusinessStatusSuspended = "suspended"
	BusinessStatusInactive  = "inactive"
)

// Business representa un negocio/tenant del sistema; agrupa varias tiendas.
type Business struct {
	ID        string
	Name      string
	Timezone  string // zona IANA usada para agrupar ventas por día, ej. "Africa/Lagos"
	Currency  string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
