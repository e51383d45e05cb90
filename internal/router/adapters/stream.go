package adapters

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/af-corp/llm-router/internal/types"
)

const (
	scanBufferSize = 64 * 1024
	maxLineSize    = 1024 * 1024
)

// lineDecoder turns one line of a backend stream into zero or more canonical
// frames. done reports that the sequence is complete and no further lines
// should be read.
type lineDecoder func(line string) (frames []types.StreamFrame, done bool, err error)

// lineStream reads a line-oriented backend stream (SSE or NDJSON) and yields
// canonical frames through a provider-specific decoder.
type lineStream struct {
	provider    string
	body        io.ReadCloser
	scanner     *bufio.Scanner
	decode      lineDecoder
	cancel      context.CancelFunc
	idle        *time.Timer
	idleTimeout time.Duration
	timedOut    atomic.Bool

	pending  []types.StreamFrame
	finished bool
	err      error

	closeOnce sync.Once
	closeErr  error
}

func (s *lineStream) start(body io.ReadCloser) {
	s.body = body
	s.scanner = bufio.NewScanner(body)
	s.scanner.Buffer(make([]byte, 0, scanBufferSize), maxLineSize)
	s.idle.Reset(s.idleTimeout)
}

func (s *lineStream) expire() {
	s.timedOut.Store(true)
	s.cancel()
}

func (s *lineStream) Recv() (types.StreamFrame, error) {
	for {
		if len(s.pending) > 0 {
			frame := s.pending[0]
			s.pending = s.pending[1:]
			return frame, nil
		}
		if s.err != nil {
			return types.StreamFrame{}, s.err
		}
		if s.finished {
			return types.StreamFrame{}, io.EOF
		}

		if !s.scanner.Scan() {
			s.finished = true
			if err := s.scanner.Err(); err != nil {
				s.err = s.readError(err)
			}
			continue
		}
		s.idle.Reset(s.idleTimeout)

		frames, done, err := s.decode(strings.TrimRight(s.scanner.Text(), "\r"))
		s.pending = append(s.pending, frames...)
		if err != nil {
			var streamErr *StreamError
			if !errors.As(err, &streamErr) {
				streamErr = &StreamError{Provider: s.provider, Message: "malformed stream frame", Cause: err}
			}
			s.err = streamErr
		}
		if done {
			s.finished = true
		}
	}
}

func (s *lineStream) readError(err error) error {
	if s.timedOut.Load() {
		return &StreamError{Provider: s.provider, Message: "no data received within " + s.idleTimeout.String(), Cause: err}
	}
	return &StreamError{Provider: s.provider, Message: "connection lost", Cause: err}
}

// Close stops the stream and releases the backend connection without
// draining the remaining body.
func (s *lineStream) Close() error {
	s.closeOnce.Do(func() {
		s.idle.Stop()
		s.cancel()
		if s.body != nil {
			s.closeErr = s.body.Close()
		}
	})
	return s.closeErr
}

// passthroughLine forwards the payload of every "data: " line unchanged.
// Other lines (comments, event names, blank separators) carry nothing the
// client needs.
func passthroughLine(line string) ([]types.StreamFrame, bool, error) {
	data, ok := strings.CutPrefix(line, "data: ")
	if !ok {
		return nil, false, nil
	}
	return []types.StreamFrame{types.RawFrame(data)}, false, nil
}
