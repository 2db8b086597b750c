package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Sink consumes render messages. The real network/IPC transport is an
// external collaborator out of scope for this module; Sink is the
// boundary it would implement.
type Sink interface {
	Send(Message) error
}

// WriterSink writes one newline-delimited JSON object per message to
// an underlying io.Writer — the default/test sink, standing in for the
// real websocket/IPC transport this module excludes.
type WriterSink struct {
	w *bufio.Writer
}

// NewWriterSink wraps w as a Sink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

// Send encodes msg as one line of JSON and flushes it.
func (s *WriterSink) Send(msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("render: encode message: %w", err)
	}
	if _, err := s.w.Write(b); err != nil {
		return fmt.Errorf("render: write message: %w", err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("render: write message: %w", err)
	}
	return s.w.Flush()
}

// NullSink discards every message; used where a Sink is required but
// no observer is attached.
type NullSink struct{}

func (NullSink) Send(Message) error { return nil }
