package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"director-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status is the lifecycle position of a session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const subscriberBuffer = 8

// Generator produces director cuts for an idea.
type Generator interface {
	Generate(ctx context.Context, idea string, characterName *string) (*models.DirectorResponse, error)
}

// State is an immutable snapshot of a session.
// Response is set only in StatusSuccess and Error only in StatusError.
type State struct {
	SessionID string                   `json:"session_id"`
	Status    Status                   `json:"status"`
	RequestID string                   `json:"request_id,omitempty"`
	Response  *models.DirectorResponse `json:"response,omitempty"`
	Error     string                   `json:"error,omitempty"`
	UpdatedAt time.Time                `json:"updated_at"`

	// Kind is kept for diagnostics and never serialized.
	Kind models.ErrorKind `json:"-"`
}

// Machine owns the idle/loading/success/error lifecycle of one session.
// Only the result of the latest submission is ever committed.
type Machine struct {
	id     string
	gen    Generator
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       State
	generation  uint64
	closed      bool
	lastActive  time.Time
	subscribers map[chan State]struct{}
}

// NewMachine creates a session in StatusIdle.
func NewMachine(id string, gen Generator, logger *zap.Logger) *Machine {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	return &Machine{
		id:          id,
		gen:         gen,
		logger:      logger.Named("Session").With(zap.String("session_id", id)),
		ctx:         ctx,
		cancel:      cancel,
		state:       State{SessionID: id, Status: StatusIdle, UpdatedAt: now},
		lastActive:  now,
		subscribers: make(map[chan State]struct{}),
	}
}

// ID returns the session identifier.
func (m *Machine) ID() string {
	return m.id
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Submit starts a generation and moves the session to StatusLoading.
// It is accepted from idle, error and loading; a submission while loading
// supersedes the in-flight one. From success the session must be reset first.
func (m *Machine) Submit(idea string, characterName *string) (string, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return "", models.ErrEmptyIdea
	}
	characterName = normalizeName(characterName)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", models.ErrSessionClosed
	}
	if m.state.Status == StatusSuccess {
		return "", models.ErrInvalidTransition
	}
	if m.state.Status == StatusLoading {
		m.logger.Info("Superseding in-flight request", zap.String("request_id", m.state.RequestID))
	}

	m.generation++
	generation := m.generation
	requestID := uuid.NewString()

	m.setStateLocked(State{Status: StatusLoading, RequestID: requestID})
	submissionsTotal.Inc()

	m.logger.Info("Generation requested",
		zap.String("request_id", requestID),
		zap.Int("idea_length", len(idea)),
		zap.Bool("has_character", characterName != nil),
	)

	go m.run(generation, requestID, idea, characterName)
	return requestID, nil
}

// Reset returns the session to StatusIdle and invalidates any in-flight request.
func (m *Machine) Reset() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return m.state
	}
	m.generation++
	m.setStateLocked(State{Status: StatusIdle})
	m.logger.Info("Session reset")
	return m.state
}

// Subscribe returns a channel that receives the current state and every later
// transition. Slow subscribers lose intermediate states but always get the latest.
// The channel is closed by the returned cancel func or by Close.
func (m *Machine) Subscribe() (<-chan State, func()) {
	ch := make(chan State, subscriberBuffer)

	m.mu.Lock()
	defer m.mu.Unlock()

	ch <- m.state
	if m.closed {
		close(ch)
		return ch, func() {}
	}
	m.subscribers[ch] = struct{}{}
	m.lastActive = time.Now()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.subscribers[ch]; ok {
				delete(m.subscribers, ch)
				close(ch)
			}
		})
	}
}

// Close cancels any in-flight request and closes all subscriptions.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.generation++
	m.cancel()
	for ch := range m.subscribers {
		delete(m.subscribers, ch)
		close(ch)
	}
}

// LastActive reports when the session was last used.
func (m *Machine) LastActive() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastActive
}

func (m *Machine) touch() {
	m.mu.Lock()
	m.lastActive = time.Now()
	m.mu.Unlock()
}

func (m *Machine) run(generation uint64, requestID, idea string, characterName *string) {
	resp, err := m.gen.Generate(m.ctx, idea, characterName)
	m.commit(generation, requestID, resp, err)
}

func (m *Machine) commit(generation uint64, requestID string, resp *models.DirectorResponse, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || generation != m.generation {
		staleResultsTotal.Inc()
		m.logger.Debug("Discarding stale generation result", zap.String("request_id", requestID), zap.Error(err))
		return
	}

	if err != nil {
		kind := models.KindOf(err)
		generationErrorsTotal.WithLabelValues(string(kind)).Inc()
		m.logger.Error("Generation failed",
			zap.String("request_id", requestID),
			zap.String("error_kind", string(kind)),
			zap.Error(err),
		)
		m.setStateLocked(State{
			Status:    StatusError,
			RequestID: requestID,
			Error:     models.GenerationFailedMessage,
			Kind:      kind,
		})
		return
	}

	m.logger.Info("Generation succeeded", zap.String("request_id", requestID), zap.Int("cuts", len(resp.Cuts)))
	m.setStateLocked(State{Status: StatusSuccess, RequestID: requestID, Response: resp})
}

// setStateLocked replaces the state and notifies subscribers. m.mu must be held.
func (m *Machine) setStateLocked(s State) {
	s.SessionID = m.id
	s.UpdatedAt = time.Now()
	m.state = s
	m.lastActive = s.UpdatedAt
	transitionsTotal.WithLabelValues(string(s.Status)).Inc()

	for ch := range m.subscribers {
		select {
		case ch <- s:
		default:
			// Drop the oldest queued state to make room for the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
