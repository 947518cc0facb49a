package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Kind names what an Event records.
type Kind string

const (
	KindLoginSuccess     Kind = "login_success"
	KindLoginFailure     Kind = "login_failure"
	KindLoginRateLimited Kind = "login_rate_limited"
	KindTokenRejected    Kind = "token_rejected"
)

// Event is one login attempt or rejected token. It never carries a
// password, hash or token.
type Event struct {
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
	Kind     Kind      `json:"kind"`
	Username string    `json:"username,omitempty"`
	ClientIP string    `json:"client_ip,omitempty"`
	Success  bool      `json:"success"`
	// Code is a stable error label such as "invalid_credentials".
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Sink receives emitted audit events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink drops audit events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink hands events to a consumer over a buffered channel. Emit
// blocks while the channel is full unless ctx ends first.
type ChannelSink struct {
	events chan Event
}

// NewChannelSink buffers up to buffer events, at least one.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan Event, buffer)}
}

func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events is the receive side of the sink.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink encodes each event as one JSON line.
type JSONWriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONWriterSink writes to w. A nil w discards events.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	if w == nil {
		return &JSONWriterSink{}
	}
	return &JSONWriterSink{enc: json.NewEncoder(w)}
}

func (s *JSONWriterSink) Emit(_ context.Context, event Event) {
	if s == nil || s.enc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(event)
}
