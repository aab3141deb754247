package extension

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind tags a push message.
type Kind int

const (
	KindSnapshot Kind = iota + 1
	KindDelta
)

func (k Kind) String() string {
	switch k {
	case KindSnapshot:
		return "snapshot"
	case KindDelta:
		return "delta"
	default:
		return "unknown"
	}
}

// ErrUnknownMessage is returned when a push payload carries a type tag the
// client does not understand.
var ErrUnknownMessage = errors.New("unknown message type")

// Message is a push notification. Exactly one of Snapshot or Delta is
// meaningful, selected by Kind.
type Message struct {
	Kind     Kind
	Snapshot Snapshot
	Delta    Delta
}

// SnapshotMessage wraps s in a tagged message.
func SnapshotMessage(s Snapshot) Message {
	return Message{Kind: KindSnapshot, Snapshot: s}
}

// DeltaMessage wraps d in a tagged message.
func DeltaMessage(d Delta) Message {
	return Message{Kind: KindDelta, Delta: d}
}

// wire type tags. The server sends "full" for snapshots, and older servers
// omit the tag entirely.
const (
	wireFull     = "full"
	wireSnapshot = "snapshot"
	wireDelta    = "delta"
)

type wireMessage struct {
	Type         string   `json:"type"`
	Fixed        []string `json:"fixed,omitempty"`
	Custom       []string `json:"custom,omitempty"`
	Count        int      `json:"count,omitempty"`
	FixedAdded   []string `json:"fixedAdded,omitempty"`
	FixedRemoved []string `json:"fixedRemoved,omitempty"`
}

// DecodeMessage parses a push payload into a tagged Message.
func DecodeMessage(data []byte) (Message, error) {
	var raw wireMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(raw.Type)) {
	case "", wireFull, wireSnapshot:
		return SnapshotMessage(Snapshot{
			Fixed:  raw.Fixed,
			Custom: raw.Custom,
			Count:  raw.Count,
		}), nil
	case wireDelta:
		return DeltaMessage(Delta{
			FixedAdded:   raw.FixedAdded,
			FixedRemoved: raw.FixedRemoved,
		}), nil
	default:
		return Message{}, fmt.Errorf("%w %q", ErrUnknownMessage, raw.Type)
	}
}

// MarshalJSON always writes an explicit type tag.
func (m Message) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case KindSnapshot:
		return json.Marshal(struct {
			Type string `json:"type"`
			Snapshot
		}{Type: wireFull, Snapshot: m.Snapshot})
	case KindDelta:
		return json.Marshal(struct {
			Type string `json:"type"`
			Delta
		}{Type: wireDelta, Delta: m.Delta})
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownMessage, int(m.Kind))
	}
}
