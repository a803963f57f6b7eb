// Package sales contiene el motor de analítica de ventas: filtrado compuesto de
// transacciones y agregación de estadísticas para los reportes.
//
// Todo el paquete es puro: no hace I/O, no guarda estado global y nunca modifica
// las ventas recibidas. Las mismas entradas producen siempre la misma salida.
package sales

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/scims-analytics/internal/domain/entity"
)

// FilterAll valor centinela de los filtros de selección (método de pago, estado, cajero).
const FilterAll = "All"

// FilterSpec conjunto inmutable de criterios elegidos por el usuario.
// Un campo en su valor "no-op" (zero value, "All" o cadena vacía) no filtra nada.
type FilterSpec struct {
	DateFrom      time.Time           // inclusive; zero = sin límite inferior
	DateTo        time.Time           // inclusive; zero = sin límite superior
	PaymentMethod string              // "All" / "" o coincidencia exacta
	Status        string              // "All" / "" o coincidencia exacta
	Cashier       string              // "All" / "" o coincidencia exacta con username o nombre
	Search        string              // subcadena, sin distinguir mayúsculas
	MinAmount     decimal.Decimal     // inclusive; por defecto 0
	MaxAmount     decimal.NullDecimal // inclusive; inválido = +infinito
}

// HasDateRange indica si el filtro de fechas está activo.
func (s FilterSpec) HasDateRange() bool {
	return !s.DateFrom.IsZero() || !s.DateTo.IsZero()
}

func isNoop(v string) bool {
	return v == "" || v == FilterAll
}

// Filter devuelve, en el mismo orden de entrada, las ventas que cumplen todos los
// criterios activos del filtro (AND lógico).
func Filter(sales []entity.Sale, spec FilterSpec) []entity.Sale {
	m := newMatcher(spec)
	out := make([]entity.Sale, 0, len(sales))
	for i := range sales {
		if m.match(&sales[i]) {
			out = append(out, sales[i])
		}
	}
	return out
}

// Matches evalúa una sola venta contra spec.
func Matches(sale *entity.Sale, spec FilterSpec) bool {
	return newMatcher(spec).match(sale)
}

// matcher precalcula el término de búsqueda normalizado. No es seguro entre goroutines
// (cases.Caser guarda estado), por eso se crea uno por llamada.
type matcher struct {
	spec   FilterSpec
	fold   cases.Caser
	search string
}

func newMatcher(spec FilterSpec) *matcher {
	m := &matcher{spec: spec, fold: cases.Fold()}
	if term := strings.TrimSpace(spec.Search); term != "" {
		m.search = m.fold.String(term)
	}
	return m
}

func (m *matcher) match(s *entity.Sale) bool {
	return m.matchDate(s) &&
		m.matchPaymentMethod(s) &&
		m.matchStatus(s) &&
		m.matchCashier(s) &&
		m.matchSearch(s) &&
		m.matchAmount(s)
}

func (m *matcher) matchDate(s *entity.Sale) bool {
	if !m.spec.HasDateRange() {
		return true
	}
	t, ok := s.EffectiveDate()
	if !ok {
		return false
	}
	if !m.spec.DateFrom.IsZero() && t.Before(m.spec.DateFrom) {
		return false
	}
	if !m.spec.DateTo.IsZero() && t.After(m.spec.DateTo) {
		return false
	}
	return true
}

func (m *matcher) matchPaymentMethod(s *entity.Sale) bool {
	return isNoop(m.spec.PaymentMethod) || s.PaymentMethod == m.spec.PaymentMethod
}

func (m *matcher) matchStatus(s *entity.Sale) bool {
	return isNoop(m.spec.Status) || s.Status == m.spec.Status
}

func (m *matcher) matchCashier(s *entity.Sale) bool {
	if isNoop(m.spec.Cashier) {
		return true
	}
	return s.Cashier.Username == m.spec.Cashier || s.Cashier.Name == m.spec.Cashier
}

func (m *matcher) matchSearch(s *entity.Sale) bool {
	if m.search == "" {
		return true
	}
	if m.contains(s.ReceiptNumber) {
		return true
	}
	if c := s.Customer; c != nil {
		if m.contains(c.Name) || m.contains(c.Phone) || m.contains(c.Email) {
			return true
		}
	}
	for i := range s.Items {
		if m.contains(s.Items[i].ProductName) || m.contains(s.Items[i].SKU) {
			return true
		}
	}
	return false
}

func (m *matcher) contains(field string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(m.fold.String(field), m.search)
}

func (m *matcher) matchAmount(s *entity.Sale) bool {
	if s.TotalAmount.LessThan(m.spec.MinAmount) {
		return false
	}
	if m.spec.MaxAmount.Valid && s.TotalAmount.GreaterThan(m.spec.MaxAmount.Decimal) {
		return false
	}
	return true
}
