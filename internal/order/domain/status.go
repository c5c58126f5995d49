package domain

// OrderStatus represents order lifecycle states.
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "DRAFT"
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusReturned   OrderStatus = "RETURNED"
)

// transitions is the full legal state table. CANCELLED and RETURNED are
// terminal.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:      {OrderStatusConfirmed, OrderStatusPending, OrderStatusCancelled},
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusPending, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusPending, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusReturned},
	OrderStatusDelivered:  {OrderStatusReturned},
	OrderStatusCancelled:  {},
	OrderStatusReturned:   {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the move s → to is in the legal table.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Invoiceable reports whether the status allows spawning an invoice. The
// order must additionally not own an invoice yet; the service checks that.
func (s OrderStatus) Invoiceable() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// TransitionTo moves the order to the target status, or fails with
// ErrInvalidTransition leaving the status untouched.
func (o *Order) TransitionTo(to OrderStatus) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if !o.Status.CanTransitionTo(to) {
		return ErrInvalidTransition
	}
	o.Status = to
	return nil
}

// CanBeModified reports whether line items may still change.
func (o *Order) CanBeModified() bool {
	return o.Status == OrderStatusDraft || o.Status == OrderStatusConfirmed
}

// CanBeCancelled reports whether the order may still be cancelled.
func (o *Order) CanBeCancelled() bool {
	return o.Status != OrderStatusCancelled &&
		o.Status != OrderStatusDelivered &&
		o.Status != OrderStatusReturned
}

// CanBeDeleted reports whether the order may be physically removed.
func (o *Order) CanBeDeleted() bool {
	return o.Status == OrderStatusDraft
}
