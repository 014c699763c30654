package bookings

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Available slots envelopes
const (
	EnvelopeObject = "object" // {"availableSlots": [...]}
	EnvelopeArray  = "array"  // [...]
)

// decodeSlots reads the configured envelope only; a body in the other shape
// is an error rather than a guess
func decodeSlots(raw json.RawMessage, envelope string) ([]TimeSlot, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnexpectedEnvelope)
	}

	switch envelope {
	case EnvelopeArray:
		if trimmed[0] != '[' {
			return nil, fmt.Errorf("%w: want array", ErrUnexpectedEnvelope)
		}
		var slots []TimeSlot
		if err := json.Unmarshal(trimmed, &slots); err != nil {
			return nil, fmt.Errorf("decode slots: %w", err)
		}
		return nonNil(slots), nil
	default:
		if trimmed[0] != '{' {
			return nil, fmt.Errorf("%w: want object", ErrUnexpectedEnvelope)
		}
		var body struct {
			AvailableSlots []TimeSlot `json:"availableSlots"`
		}
		if err := json.Unmarshal(trimmed, &body); err != nil {
			return nil, fmt.Errorf("decode slots: %w", err)
		}
		return nonNil(body.AvailableSlots), nil
	}
}

func nonNil(slots []TimeSlot) []TimeSlot {
	if slots == nil {
		return []TimeSlot{}
	}
	return slots
}
