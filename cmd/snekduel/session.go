package main

import (
	"context"
	"sync"

	"github.com/brensch/snekduel/match"
	"github.com/brensch/snekduel/rules"
)

// session runs matches on one engine and one frame channel. Restart stops the
// current runner, resets the engine and starts a new runner with a fresh id.
type session struct {
	ctx    context.Context
	engine *rules.Engine
	opts   []match.Option
	frames match.ChanSink

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	sum    match.Summary
	err    error
}

func newSession(ctx context.Context, engine *rules.Engine, frames match.ChanSink, opts ...match.Option) *session {
	return &session{ctx: ctx, engine: engine, frames: frames, opts: opts}
}

// start launches a runner. The caller holds mu.
func (s *session) start() {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	runner := match.NewRunner(s.engine, append(s.opts, match.WithSink(s.frames))...)
	s.cancel, s.done = cancel, done
	go func() {
		defer close(done)
		s.sum, s.err = runner.Run(ctx)
	}()
}

// halt cancels the current runner and waits for it. The caller holds mu.
func (s *session) halt() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start()
}

// Restart abandons the current match and plays a new one from the
// configured layout.
func (s *session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halt()
	if err := s.engine.Reset(); err != nil {
		return err
	}
	s.start()
	return nil
}

// Stop ends the current match and returns how far it got. A match that was
// still running reports context.Canceled.
func (s *session) Stop() (match.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halt()
	return s.sum, s.err
}
