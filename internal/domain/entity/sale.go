package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusCompleted = "completed"
	SaleStatusPending   = "pending"
	SaleStatusRefunded  = "refunded"
	SaleStatusCancelled = "cancelled"
)

// PaymentMethodCash es el único método con sub-totales de efectivo (recibido / cambio).
const PaymentMethodCash = "cash"

// Sale representa una transacción de venta (cabecera + líneas).
// Es una vista de solo lectura: el motor de reportes nunca la modifica.
//
// Invariante esperada (no validada aquí): TotalAmount = Subtotal - DiscountAmount + TaxAmount.
type Sale struct {
	ID              string
	ReceiptNumber   string     // único por negocio
	TransactionDate *time.Time // nil → se usa CreatedAt
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Status          string // completed, pending, refunded, cancelled
	PaymentMethod   string // código libre: cash, card, mobile...
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
	TotalAmount     decimal.Decimal
	CashReceived    decimal.NullDecimal // solo significativo si PaymentMethod = cash
	ChangeGiven     decimal.NullDecimal
	Customer        *SaleCustomer // nil = cliente de mostrador
	Cashier         SaleCashier
	StoreID         string
	Items           []SaleItem
}

// SaleCustomer datos desnormalizados del cliente al momento de la lectura.
type SaleCustomer struct {
	ID    string
	Name  string
	Phone string
	Email string
}

// SaleCashier identifica al cajero que registró la venta.
type SaleCashier struct {
	ID       string
	Username string
	Name     string
}

// SaleItem línea de una venta con datos del producto desnormalizados.
//
// Invariante esperada: TotalPrice = Quantity * UnitPrice - DiscountAmount.
type SaleItem struct {
	ProductID      string
	ProductName    string
	SKU            string
	CategoryName   string // vacío = sin categoría
	Quantity       int
	UnitPrice      decimal.Decimal
	TotalPrice     decimal.Decimal
	DiscountAmount decimal.Decimal
}

// EffectiveDate devuelve la fecha de la transacción o, en su defecto, la de creación.
// ok es false si la venta no tiene ninguna fecha.
func (s *Sale) EffectiveDate() (t time.Time, ok bool) {
	if s.TransactionDate != nil && !s.TransactionDate.IsZero() {
		return *s.TransactionDate, true
	}
	if !s.CreatedAt.IsZero() {
		return s.CreatedAt, true
	}
	return time.Time{}, false
}
