package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents invoice lifecycle states. Unlike order statuses
// these are not user-chosen: they follow from payments, the due date, and the
// send/cancel actions.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPartial   InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// ApplyPayment records a payment of amount on date and derives the resulting
// status. The amount replaces any previously recorded payment. Over-payment
// is accepted and reads as PAID with a negative remainder.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal, date time.Time) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if inv.Status == InvoiceStatusCancelled {
		return ErrInvalidTransition
	}

	inv.PaidAmount = amount.Round(2)
	inv.PaymentDate = &date

	if inv.IsFullyPaid() {
		inv.Status = InvoiceStatusPaid
	} else {
		inv.Status = InvoiceStatusPartial
	}
	return nil
}

// RefreshStatus applies the lazy due-date rule: a collectible invoice past
// its due date reads as OVERDUE. Reports whether the status changed.
func (inv *Invoice) RefreshStatus(now time.Time) bool {
	if inv.Status == InvoiceStatusOverdue || !inv.IsOverdue(now) {
		return false
	}
	inv.Status = InvoiceStatusOverdue
	return true
}

// MarkSent moves a draft invoice to SENT.
func (inv *Invoice) MarkSent() error {
	if inv.Status != InvoiceStatusDraft {
		return ErrInvalidTransition
	}
	inv.Status = InvoiceStatusSent
	return nil
}

// Cancel voids the invoice. A paid invoice cannot be cancelled.
func (inv *Invoice) Cancel() error {
	if inv.Status == InvoiceStatusPaid {
		return ErrInvalidTransition
	}
	inv.Status = InvoiceStatusCancelled
	return nil
}
