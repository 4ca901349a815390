package orders

// CheckoutState is the lifecycle of one checkout attempt. Not persisted.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutCollecting CheckoutState = "collecting"
	CheckoutConfirmed  CheckoutState = "confirmed"
	CheckoutCancelled  CheckoutState = "cancelled"
)

var validNext = map[CheckoutState]map[CheckoutState]bool{
	CheckoutIdle:       {CheckoutCollecting: true},
	CheckoutCollecting: {CheckoutConfirmed: true, CheckoutCancelled: true},
	CheckoutConfirmed:  {CheckoutCollecting: true}, // checkout baru
	CheckoutCancelled:  {CheckoutCollecting: true},
}

func CanTransition(from, to CheckoutState) bool {
	return validNext[from][to]
}
