package rescue

import (
	"context"
	"sync"
	"time"

	"github.com/xyz-asif/strayrescue/internal/features/identity"
)

// Factory builds the controller for a new session.
type Factory func(actor identity.Actor) *Controller

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Sessions keeps one Controller per actor id so the optimistic list survives
// between requests. Idle sessions are evicted by Cleanup.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	factory  Factory
	idleTTL  time.Duration
	now      func() time.Time

	draining sync.WaitGroup
}

func NewSessions(factory Factory, idleTTL time.Duration) *Sessions {
	return &Sessions{
		sessions: make(map[string]*session),
		factory:  factory,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// For returns the actor's controller, creating it on first use. The stored
// role follows whatever the identity provider resolved for this request.
func (s *Sessions) For(actor *identity.Actor) *Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[actor.ID]
	if !ok {
		sess = &session{ctrl: s.factory(*actor)}
		s.sessions[actor.ID] = sess
	} else if sess.ctrl.Actor().Role != actor.Role {
		sess.ctrl.SetRole(actor.Role)
	}
	sess.lastSeen = s.now()
	return sess.ctrl
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup evicts sessions idle longer than the TTL. Sessions with a transition
// still awaiting the store are kept.
func (s *Sessions) Cleanup() int {
	if s.idleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.After(cutoff) || sess.ctrl.Busy() {
			continue
		}
		delete(s.sessions, id)
		evicted++

		ctrl := sess.ctrl
		s.draining.Add(1)
		go func() {
			defer s.draining.Done()
			ctrl.Wait()
		}()
	}
	return evicted
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (s *Sessions) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Wait blocks until background notifications of every session, live or evicted, are done.
func (s *Sessions) Wait() {
	s.mu.Lock()
	ctrls := make([]*Controller, 0, len(s.sessions))
	for _, sess := range s.sessions {
		ctrls = append(ctrls, sess.ctrl)
	}
	s.mu.Unlock()

	for _, c := range ctrls {
		c.Wait()
	}
	s.draining.Wait()
}
