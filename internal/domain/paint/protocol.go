package paint

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// Message types
const (
	TypeDraw        = "draw"
	TypeLoadHistory = "load_history"
	TypeDrawRemote  = "draw_remote"
	TypePing        = "ping"
	TypePong        = "pong"
)

// Envelope is the frame shared by both directions
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wireSegment detects missing fields, which would otherwise decode as zero
type wireSegment struct {
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	PrevX *float64 `json:"prevX"`
	PrevY *float64 `json:"prevY"`
	Color *string  `json:"color"`
	Size  *float64 `json:"size"`
}

// DecodeEnvelope parses a raw frame
func DecodeEnvelope(frame []byte) (Envelope, error) {
	var env Envelope
	if err := sonic.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("envelope missing type")
	}
	return env, nil
}

// DecodeSegment parses a draw payload, rejecting missing or wrong-typed fields
func DecodeSegment(data []byte) (Segment, error) {
	var w wireSegment
	if err := sonic.Unmarshal(data, &w); err != nil {
		return Segment{}, fmt.Errorf("%w: %v", ErrInvalidSegment, err)
	}
	if w.X == nil || w.Y == nil || w.PrevX == nil || w.PrevY == nil || w.Color == nil || w.Size == nil {
		return Segment{}, fmt.Errorf("%w: missing field", ErrInvalidSegment)
	}
	return Segment{
		X:     *w.X,
		Y:     *w.Y,
		PrevX: *w.PrevX,
		PrevY: *w.PrevY,
		Color: *w.Color,
		Size:  *w.Size,
	}, nil
}

// DecodeHistory parses a load_history payload
func DecodeHistory(data []byte) ([]Segment, error) {
	var segs []Segment
	if err := sonic.Unmarshal(data, &segs); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return segs, nil
}

// EncodeDraw builds a client draw frame
func EncodeDraw(seg Segment) ([]byte, error) {
	return encode(TypeDraw, seg)
}

// EncodeDrawRemote builds a broadcast frame
func EncodeDrawRemote(seg Segment) ([]byte, error) {
	return encode(TypeDrawRemote, seg)
}

// EncodeHistory builds a load_history frame; nil encodes as an empty array
func EncodeHistory(segs []Segment) ([]byte, error) {
	if segs == nil {
		segs = []Segment{}
	}
	return encode(TypeLoadHistory, segs)
}

// MarshalHistory encodes segs as a bare JSON array for REST consumers;
// nil encodes as an empty array
func MarshalHistory(segs []Segment) ([]byte, error) {
	if segs == nil {
		segs = []Segment{}
	}
	data, err := sonic.Marshal(segs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return data, nil
}

// EncodePong builds a keep-alive reply
func EncodePong() ([]byte, error) {
	return sonic.Marshal(Envelope{Type: TypePong})
}

// EncodePing builds a keep-alive probe
func EncodePing() ([]byte, error) {
	return sonic.Marshal(Envelope{Type: TypePing})
}

func encode(msgType string, payload interface{}) ([]byte, error) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", msgType, err)
	}
	frame, err := sonic.Marshal(Envelope{Type: msgType, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s envelope: %w", msgType, err)
	}
	return frame, nil
}
