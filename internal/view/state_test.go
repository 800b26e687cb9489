package view

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/foodlens/internal/domain"
)

func TestUpdateNavigate(t *testing.T) {
	tests := []struct {
		from    View
		to      View
		allowed bool
	}{
		{ViewHome, ViewCamera, true},
		{ViewHome, ViewSearch, true},
		{ViewHome, ViewHistory, true},
		{ViewHome, ViewAnalysis, false},
		{ViewHome, ViewHome, false},
		{ViewCamera, ViewHome, true},
		{ViewCamera, ViewSearch, false},
		{ViewSearch, ViewHome, true},
		{ViewSearch, ViewAnalysis, false},
		{ViewAnalysis, ViewHome, true},
		{ViewAnalysis, ViewCamera, true},
		{ViewAnalysis, ViewHistory, false},
		{ViewHistory, ViewHome, true},
		{ViewHistory, ViewCamera, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			next, err := Update(State{View: tt.from}, Navigate{To: tt.to})
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, next.View)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, next.View)
		})
	}
}

func TestUpdateSubmit(t *testing.T) {
	for _, from := range []View{ViewCamera, ViewSearch} {
		next, err := Update(State{View: from}, Submit{})
		require.NoError(t, err)
		assert.Equal(t, State{View: ViewAnalysis, Analyzing: true}, next)
	}

	for _, from := range []View{ViewHome, ViewHistory, ViewAnalysis} {
		_, err := Update(State{View: from}, Submit{})
		assert.ErrorIs(t, err, ErrInvalidTransition, from)
	}
}

func TestUpdateRejectsEverythingWhileAnalyzing(t *testing.T) {
	busy := State{View: ViewAnalysis, Analyzing: true}

	for _, ev := range []Event{Navigate{To: ViewHome}, Navigate{To: ViewCamera}, Back{}, Submit{}} {
		next, err := Update(busy, ev)
		assert.ErrorIs(t, err, ErrBusy)
		assert.Equal(t, busy, next)
	}
}

func TestUpdateResolved(t *testing.T) {
	result := &domain.FoodAnalysisResult{FoodName: "Banana"}

	next, err := Update(State{View: ViewAnalysis, Analyzing: true}, Resolved{Result: result})
	require.NoError(t, err)
	assert.Equal(t, State{View: ViewAnalysis, Result: result}, next)

	_, err = Update(State{View: ViewHome}, Resolved{Result: result})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateFailed(t *testing.T) {
	cause := errors.New("connection refused")

	next, err := Update(State{View: ViewAnalysis, Analyzing: true}, Failed{Err: cause})
	require.NoError(t, err)
	assert.Equal(t, ViewAnalysis, next.View)
	assert.False(t, next.Analyzing)
	assert.Nil(t, next.Result)
	assert.Equal(t, cause, next.Err)
}

func TestUpdateBack(t *testing.T) {
	for _, from := range []View{ViewCamera, ViewSearch, ViewAnalysis, ViewHistory} {
		next, err := Update(State{View: from, Result: &domain.FoodAnalysisResult{}}, Back{})
		require.NoError(t, err)
		assert.Equal(t, State{View: ViewHome}, next)
	}

	_, err := Update(State{View: ViewHome}, Back{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateDoesNotMutateInput(t *testing.T) {
	s := State{View: ViewHome}
	_, err := Update(s, Navigate{To: ViewCamera})
	require.NoError(t, err)
	assert.Equal(t, ViewHome, s.View)
}
