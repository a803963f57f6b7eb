package sales

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/jhoicas/scims-analytics/internal/domain/entity"
)

// Fingerprint calcula la versión de un conjunto de ventas ya materializado.
// Incluye todo campo que lean Filter o Aggregate, también los que vienen de tablas
// unidas (cliente, cajero, producto), porque editarlos no cambia UpdatedAt de la venta.
// Se usa como clave de memoización.
func Fingerprint(sales []entity.Sale) string {
	d := xxhash.New()
	for i := range sales {
		s := &sales[i]
		writeField(d, s.ID)
		writeField(d, s.StoreID)
		writeField(d, s.ReceiptNumber)
		writeField(d, s.Status)
		writeField(d, s.PaymentMethod)
		writeField(d, s.Subtotal.String())
		writeField(d, s.TotalAmount.String())
		writeField(d, s.DiscountAmount.String())
		writeField(d, s.TaxAmount.String())
		writeNullDecimal(d, s.CashReceived.Valid, s.CashReceived.Decimal.String())
		writeNullDecimal(d, s.ChangeGiven.Valid, s.ChangeGiven.Decimal.String())
		writeTime(d, s.TransactionDate)
		writeTime(d, &s.CreatedAt)
		writeTime(d, &s.UpdatedAt)

		if c := s.Customer; c != nil {
			writeField(d, "customer")
			writeField(d, c.ID)
			writeField(d, c.Name)
			writeField(d, c.Phone)
			writeField(d, c.Email)
		} else {
			writeField(d, "walk-in")
		}
		writeField(d, s.Cashier.ID)
		writeField(d, s.Cashier.Username)
		writeField(d, s.Cashier.Name)

		writeField(d, strconv.Itoa(len(s.Items)))
		for j := range s.Items {
			it := &s.Items[j]
			writeField(d, it.ProductID)
			writeField(d, it.ProductName)
			writeField(d, it.SKU)
			writeField(d, it.CategoryName)
			writeField(d, strconv.Itoa(it.Quantity))
			writeField(d, it.UnitPrice.String())
			writeField(d, it.TotalPrice.String())
			writeField(d, it.DiscountAmount.String())
		}
	}
	return strconv.FormatUint(d.Sum64(), 16) + "-" + strconv.Itoa(len(sales))
}

func writeField(d *xxhash.Digest, v string) {
	_, _ = d.WriteString(v)
	_, _ = d.Write([]byte{0})
}

// writeNullDecimal distingue "sin valor" de un cero explícito.
func writeNullDecimal(d *xxhash.Digest, valid bool, v string) {
	if !valid {
		writeField(d, "null")
		return
	}
	writeField(d, v)
}

func writeTime(d *xxhash.Digest, t *time.Time) {
	if t == nil || t.IsZero() {
		writeField(d, "")
		return
	}
	writeField(d, strconv.FormatInt(t.UnixNano(), 10))
}
