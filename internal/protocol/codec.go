package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/san-kum/ropecoil/internal/dynamo"
)

// Envelope is the wire form of requests and responses.
type Envelope struct {
	Type string          `json:"type"`
	ID   uint64          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode parses one envelope into a typed Request. Unknown types wrap
// dynamo.ErrUnknownCommand.
func Decode(raw []byte) (Request, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Request{}, fmt.Errorf("decode envelope: %w", err)
	}
	k, ok := ParseKind(env.Type)
	if !ok {
		return Request{}, fmt.Errorf("%w: %q", dynamo.ErrUnknownCommand, env.Type)
	}

	req := Request{ID: env.ID, Kind: k}
	var payload any
	switch k {
	case KindCreateCoiler:
		payload = &CreateCoiler{}
	case KindResetRope:
		payload = &ResetRope{}
	case KindStep:
		payload = &Step{}
	case KindUpdateAnchor:
		payload = &UpdateAnchor{}
	case KindSetRotation:
		payload = &SetRotation{}
	case KindSetDelay:
		payload = &SetDelay{}
	case KindAddSegment:
		payload = &AddSegment{}
	default:
		return req, nil
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, payload); err != nil {
			return Request{}, fmt.Errorf("decode %s: %w", k, err)
		}
	}
	req.Payload = payload
	return req, nil
}

// Encode writes resp as an envelope.
func Encode(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", resp.Type, err)
	}
	return json.Marshal(Envelope{Type: string(resp.Type), ID: resp.ID, Data: data})
}
