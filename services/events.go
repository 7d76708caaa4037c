package services

const (
	EventCartUpdated  = "cart.updated"
	EventOrderCreated = "order.created"
	EventLoggedOut    = "session.ended"
)

// Event is pushed to subscribers of a device after a state change.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Notifier fans events out to a device's subscribers. Publish must not
// block the caller.
type Notifier interface {
	Publish(ownerKey string, ev Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, Event) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
