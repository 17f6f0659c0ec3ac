package domain

import "fmt"

type TransitionPolicy string

const (
	// StrictTransitions follows the fulfilment table; delivered and
	// cancelled are terminal.
	StrictTransitions TransitionPolicy = "strict"

	// PermissiveTransitions lets any status follow any other, reverting to
	// pending included.
	PermissiveTransitions TransitionPolicy = "permissive"
)

var strictTable = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: nil,
	OrderStatusCancelled: nil,
}

func ParseTransitionPolicy(s string) (TransitionPolicy, error) {
	switch p := TransitionPolicy(s); p {
	case StrictTransitions, PermissiveTransitions:
		return p, nil
	case "":
		return StrictTransitions, nil
	default:
		return "", fmt.Errorf("unknown transition policy %q", s)
	}
}

// Allows reports whether an order in status from may move to status to.
// Re-applying the current status is always allowed.
func (p TransitionPolicy) Allows(from, to OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to || p == PermissiveTransitions {
		return true
	}
	for _, next := range strictTable[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Check returns a [TransitionError] when the move is not allowed.
func (p TransitionPolicy) Check(from, to OrderStatus) error {
	if !p.Allows(from, to) {
		return TransitionError{From: from, To: to}
	}
	return nil
}
