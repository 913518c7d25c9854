package model

import "fmt"

type PaymentStatus string
type PaymentMethod string
type GatewayEventStatus string

/* ===== payment_status (mirror DB enum) ===== */
const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusReleased PaymentStatus = "released"
	PaymentStatusDeclined PaymentStatus = "declined"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

/* ===== payment_method (mirror DB enum) ===== */
const (
	PaymentMethodEsewa    PaymentMethod = "esewa"    // redirect gateway
	PaymentMethodCheckout PaymentMethod = "checkout" // hosted checkout (midtrans snap)
	PaymentMethodOther    PaymentMethod = "other"
)

/* ===== payment_gateway_event status ===== */
const (
	GatewayEventStatusReceived  GatewayEventStatus = "received"
	GatewayEventStatusProcessed GatewayEventStatus = "processed"
	GatewayEventStatusFailed    GatewayEventStatus = "failed"
)

/* =========================================================
   Frontend ↔ backend mapping tables.
   The dashboards speak COMPLETED/RELEASED/... while the DB speaks the lower
   case enum; both directions live in one table so a new status cannot be
   added on one side only. Validated once at bootstrap.
========================================================= */

var statusWire = map[string]PaymentStatus{
	"PENDING":   PaymentStatusPending,
	"COMPLETED": PaymentStatusSuccess,
	"RELEASED":  PaymentStatusReleased,
	"DECLINED":  PaymentStatusDeclined,
	"REFUNDED":  PaymentStatusRefunded,
}

var statusWireReverse = func() map[PaymentStatus]string {
	m := make(map[PaymentStatus]string, len(statusWire))
	for wire, st := range statusWire {
		m[st] = wire
	}
	return m
}()

var methodWire = map[string]PaymentMethod{
	"ESEWA":    PaymentMethodEsewa,
	"CHECKOUT": PaymentMethodCheckout,
	"OTHER":    PaymentMethodOther,
}

var methodWireReverse = func() map[PaymentMethod]string {
	m := make(map[PaymentMethod]string, len(methodWire))
	for wire, mt := range methodWire {
		m[mt] = wire
	}
	return m
}()

// ParseStatus maps a frontend status string to the DB enum.
func ParseStatus(wire string) (PaymentStatus, error) {
	st, ok := statusWire[wire]
	if !ok {
		return "", fmt.Errorf("unknown payment status %q", wire)
	}
	return st, nil
}

// ParseMethod maps a frontend method string to the DB enum.
func ParseMethod(wire string) (PaymentMethod, error) {
	mt, ok := methodWire[wire]
	if !ok {
		return "", fmt.Errorf("unknown payment method %q", wire)
	}
	return mt, nil
}

func (s PaymentStatus) Wire() string { return statusWireReverse[s] }
func (m PaymentMethod) Wire() string { return methodWireReverse[m] }

// ValidateEnumMappings ensures every enum constant has a wire mapping and the
// tables are true bijections. Called once at bootstrap; a missing entry is a
// programming error, not a request error.
func ValidateEnumMappings() error {
	allStatuses := []PaymentStatus{
		PaymentStatusPending, PaymentStatusSuccess, PaymentStatusReleased,
		PaymentStatusDeclined, PaymentStatusRefunded,
	}
	for _, st := range allStatuses {
		if _, ok := statusWireReverse[st]; !ok {
			return fmt.Errorf("payment status %q has no wire mapping", st)
		}
	}
	if len(statusWire) != len(statusWireReverse) {
		return fmt.Errorf("payment status wire mapping is not bijective")
	}

	allMethods := []PaymentMethod{PaymentMethodEsewa, PaymentMethodCheckout, PaymentMethodOther}
	for _, mt := range allMethods {
		if _, ok := methodWireReverse[mt]; !ok {
			return fmt.Errorf("payment method %q has no wire mapping", mt)
		}
	}
	if len(methodWire) != len(methodWireReverse) {
		return fmt.Errorf("payment method wire mapping is not bijective")
	}
	return nil
}
