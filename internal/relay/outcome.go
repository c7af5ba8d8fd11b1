package relay

import "errors"

// Outcome is what handling one inbound event amounted to.
type Outcome int

const (
	// OutcomeIgnored means the event name is not one the relay knows.
	OutcomeIgnored Outcome = iota
	// OutcomeStored means a set_info payload replaced the identity's record.
	OutcomeStored
	// OutcomeDelivered means a message was written to the target's channel.
	OutcomeDelivered
	// OutcomeRecipientUnavailable means the target had no live channel or the
	// write to it failed.
	OutcomeRecipientUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeStored:
		return "stored"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeRecipientUnavailable:
		return "recipient_unavailable"
	default:
		return "unknown"
	}
}

var (
	// ErrSessionState is returned when an operation does not fit the session's state.
	ErrSessionState = errors.New("relay: invalid session state")
	// ErrMalformedEvent is returned when a known event carries data that does not decode.
	ErrMalformedEvent = errors.New("relay: malformed event data")
)
