package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Event names understood on the relay channel.
const (
	EventSetInfo       = "set_info"
	EventMessage       = "message"
	EventUndeliverable = "undeliverable"
)

// Event is one frame on the relay channel.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Frame encodes e for the wire with Data copied byte for byte.
// json.Marshal would compact Data and escape <, > and & inside it.
func (e Event) Frame() ([]byte, error) {
	name, err := marshalVerbatim(e.Event)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"event":`)
	buf.Write(name)
	if len(e.Data) > 0 {
		if !json.Valid(e.Data) {
			return nil, fmt.Errorf("event %s: data is not valid JSON", e.Event)
		}
		buf.WriteString(`,"data":`)
		buf.Write(e.Data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// OutgoingMessage is the data of an inbound message event: who it is for and
// the opaque payload to hand over.
type OutgoingMessage struct {
	UserID  Identity        `json:"userId"`
	Message json.RawMessage `json:"message"`
}

// Event wraps m in a message event, keeping Message verbatim.
func (m OutgoingMessage) Event() (Event, error) {
	id, err := marshalVerbatim(m.UserID.String())
	if err != nil {
		return Event{}, err
	}
	data, err := rawObject(
		rawField{"userId", id},
		rawField{"message", m.Message},
	)
	if err != nil {
		return Event{}, err
	}
	return Event{Event: EventMessage, Data: data}, nil
}

// RelayedMessage is the data of a message event delivered to the recipient.
type RelayedMessage struct {
	UserID   Identity        `json:"userId"`
	DeviceID int             `json:"deviceId"`
	Message  json.RawMessage `json:"message"`
}

// Event wraps m in a message event, keeping Message verbatim.
func (m RelayedMessage) Event() (Event, error) {
	id, err := marshalVerbatim(m.UserID.String())
	if err != nil {
		return Event{}, err
	}
	data, err := rawObject(
		rawField{"userId", id},
		rawField{"deviceId", json.RawMessage(strconv.Itoa(m.DeviceID))},
		rawField{"message", m.Message},
	)
	if err != nil {
		return Event{}, err
	}
	return Event{Event: EventMessage, Data: data}, nil
}

// Undeliverable is sent back to a sender whose target has no live connection,
// when the relay is configured to report it.
type Undeliverable struct {
	UserID Identity `json:"userId"`
}

// NewEvent encodes data and wraps it in an Event named name.
func NewEvent(name string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{Event: name, Data: raw}, nil
}

// rawField is one member of an object built by rawObject. An empty value
// is written as null.
type rawField struct {
	key   string
	value json.RawMessage
}

func rawObject(fields ...rawField) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalVerbatim(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		switch {
		case len(f.value) == 0:
			buf.WriteString("null")
		case !json.Valid(f.value):
			return nil, fmt.Errorf("%s is not valid JSON", f.key)
		default:
			buf.Write(f.value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
