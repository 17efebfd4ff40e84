package wordrep

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolClosed is returned by acquire after the pool has been closed.
var ErrPoolClosed = errors.New("wordrep: session pool closed")

// pool manages a fixed set of ONNX sessions so Lookup can be called
// concurrently during parallel training.
type pool struct {
	sessions chan *session
	size     int
	mu       sync.Mutex
	closed   bool
}

func newPool(modelPath string, size int) (*pool, error) {
	if size <= 0 {
		size = 1
	}

	p := &pool{
		sessions: make(chan *session, size),
		size:     size,
	}

	for i := 0; i < size; i++ {
		s, err := newSession(modelPath)
		if err != nil {
			_ = p.close() // Best-effort cleanup; original error takes precedence
			return nil, fmt.Errorf("creating session %d: %w", i, err)
		}
		p.sessions <- s
	}

	return p, nil
}

// acquire gets a session, blocking until one is free. Respects context
// cancellation.
func (p *pool) acquire(ctx context.Context) (*session, error) {
	select {
	case s, ok := <-p.sessions:
		if !ok {
			return nil, ErrPoolClosed
		}
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release returns a session to the pool.
func (p *pool) release(s *session) {
	if s == nil {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = s.close() // Pool closed; clean up session
		return
	}
	p.mu.Unlock()

	select {
	case p.sessions <- s:
	default:
		_ = s.close() // Pool full; clean up excess session
	}
}

func (p *pool) close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.sessions)

	var errs []error
	for s := range p.sessions {
		if err := s.close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
