// Package view models the presentation-layer state of an analysis run.
package view

import (
	"errors"
	"fmt"

	"github.com/mizuho-dev/ghdash/internal/domain"
)

// Phase is the lifecycle stage of the current analysis.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// ErrAnalysisInFlight is returned by Start while a prior run is still
// loading, so a resubmission cannot race an analysis already in progress.
var ErrAnalysisInFlight = errors.New("an analysis is already in flight")

// State is the serializable view state owned by the presentation layer.
// It is mutated only through the transition methods, which enforce
// idle → loading → success|error → idle. Not safe for concurrent use;
// the presentation layer drives it from a single goroutine.
type State struct {
	Username  string            `json:"username"`
	Phase     Phase             `json:"phase"`
	Dashboard *domain.Dashboard `json:"dashboard,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// New returns an idle State.
func New() *State {
	return &State{Phase: PhaseIdle}
}

// Start begins a new analysis for username, moving idle → loading.
// It fails without changing the state while a run is still loading.
func (s *State) Start(username string) error {
	if s.Phase == PhaseLoading {
		return ErrAnalysisInFlight
	}
	s.Username = username
	s.Phase = PhaseLoading
	s.Dashboard = nil
	s.Error = ""
	return nil
}

// Succeed records a completed analysis, moving loading → success.
func (s *State) Succeed(dashboard *domain.Dashboard) error {
	if s.Phase != PhaseLoading {
		return fmt.Errorf("cannot succeed from phase %q", s.Phase)
	}
	s.Phase = PhaseSuccess
	s.Dashboard = dashboard
	s.Error = ""
	return nil
}

// Fail records a failed analysis, moving loading → error.
func (s *State) Fail(err error) error {
	if s.Phase != PhaseLoading {
		return fmt.Errorf("cannot fail from phase %q", s.Phase)
	}
	s.Phase = PhaseError
	s.Dashboard = nil
	s.Error = err.Error()
	return nil
}

// Reset returns to idle after a terminal phase, keeping the last
// successful dashboard visible and clearing any error.
func (s *State) Reset() error {
	if s.Phase != PhaseSuccess && s.Phase != PhaseError {
		return fmt.Errorf("cannot reset from phase %q", s.Phase)
	}
	s.Phase = PhaseIdle
	s.Error = ""
	return nil
}
