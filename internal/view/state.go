// Package view is the client's screen state machine. Exactly one view is
// active and no transition is accepted while an analysis is in flight.
package view

import (
	"errors"
	"fmt"

	"github.com/vbonduro/foodlens/internal/domain"
)

type View string

const (
	ViewHome     View = "home"
	ViewCamera   View = "camera"
	ViewSearch   View = "search"
	ViewAnalysis View = "analysis"
	ViewHistory  View = "history"
)

var (
	ErrBusy              = errors.New("an analysis is already in progress")
	ErrInvalidTransition = errors.New("invalid view transition")
)

type State struct {
	View      View
	Analyzing bool
	// Result is the last analysis shown in the analysis view. It is nil while
	// analyzing and after a transport failure.
	Result *domain.FoodAnalysisResult
	Err    error
}

// Event is one input to Update.
type Event interface {
	event()
}

// Navigate is a user-initiated move to another view.
type Navigate struct{ To View }

// Submit sends the current capture or search for analysis.
type Submit struct{}

// Resolved carries the analysis response.
type Resolved struct{ Result *domain.FoodAnalysisResult }

// Failed carries a transport failure. No result is shown.
type Failed struct{ Err error }

// Back returns to the home view.
type Back struct{}

func (Navigate) event() {}
func (Submit) event()   {}
func (Resolved) event() {}
func (Failed) event()   {}
func (Back) event()     {}

// routes lists the user-initiated transitions.
var routes = map[View][]View{
	ViewHome:     {ViewCamera, ViewSearch, ViewHistory},
	ViewCamera:   {ViewHome},
	ViewSearch:   {ViewHome},
	ViewAnalysis: {ViewHome, ViewCamera},
	ViewHistory:  {ViewHome},
}

func canNavigate(from, to View) bool {
	for _, v := range routes[from] {
		if v == to {
			return true
		}
	}
	return false
}

// Update returns the state after ev. s is never modified.
func Update(s State, ev Event) (State, error) {
	switch ev := ev.(type) {
	case Resolved:
		if !s.Analyzing {
			return s, fmt.Errorf("%w: no analysis in progress", ErrInvalidTransition)
		}
		return State{View: ViewAnalysis, Result: ev.Result}, nil
	case Failed:
		if !s.Analyzing {
			return s, fmt.Errorf("%w: no analysis in progress", ErrInvalidTransition)
		}
		return State{View: ViewAnalysis, Err: ev.Err}, nil
	}

	if s.Analyzing {
		return s, ErrBusy
	}

	switch ev := ev.(type) {
	case Navigate:
		if !canNavigate(s.View, ev.To) {
			return s, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s.View, ev.To)
		}
		return State{View: ev.To}, nil
	case Back:
		return Update(s, Navigate{To: ViewHome})
	case Submit:
		if s.View != ViewCamera && s.View != ViewSearch {
			return s, fmt.Errorf("%w: nothing to submit from %s", ErrInvalidTransition, s.View)
		}
		return State{View: ViewAnalysis, Analyzing: true}, nil
	default:
		return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
	}
}
