package view

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/vbonduro/foodlens/internal/capture"
	"github.com/vbonduro/foodlens/internal/domain"
)

var ErrEmptyQuery = errors.New("food name is empty")

type analysisClient interface {
	AnalyzeFood(ctx context.Context, image string) (*domain.FoodAnalysisResult, error)
	SearchFood(ctx context.Context, foodName string) (*domain.FoodAnalysisResult, error)
}

type camera interface {
	Start(ctx context.Context, facing capture.Facing) error
	Stop()
	Snapshot(ctx context.Context) (string, error)
}

type historyRecorder interface {
	AddAnalysis(ctx context.Context, result *domain.FoodAnalysisResult, image string) (domain.HistoryEntry, error)
	AddSearch(ctx context.Context, result *domain.FoodAnalysisResult, query string) (domain.HistoryEntry, error)
}

type searchRecorder interface {
	Add(ctx context.Context, query string) error
}

// Controller applies events to the view state and performs their side
// effects: the camera runs only while the camera view is shown, and every
// analysis response is recorded in the history.
type Controller struct {
	mu       sync.Mutex
	state    State
	client   analysisClient
	camera   camera
	history  historyRecorder
	searches searchRecorder
	logger   *slog.Logger
}

func NewController(
	client analysisClient,
	camera camera,
	history historyRecorder,
	searches searchRecorder,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		state:    State{View: ViewHome},
		client:   client,
		camera:   camera,
		history:  history,
		searches: searches,
		logger:   logger,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Navigate(ctx context.Context, to View) error {
	return c.apply(ctx, Navigate{To: to})
}

func (c *Controller) Back(ctx context.Context) error {
	return c.apply(ctx, Back{})
}

// Capture snapshots the running camera and submits the frame.
func (c *Controller) Capture(ctx context.Context) error {
	image, err := c.camera.Snapshot(ctx)
	if err != nil {
		return err
	}
	return c.SubmitCapture(ctx, image)
}

// SubmitCapture analyzes a captured image. A transport failure is recorded
// in the state and also returned.
func (c *Controller) SubmitCapture(ctx context.Context, image string) error {
	if err := c.apply(ctx, Submit{}); err != nil {
		return err
	}

	result, err := c.client.AnalyzeFood(ctx, image)
	if err != nil {
		c.logger.Error("analysis failed", "error", err)
		return c.fail(ctx, err)
	}

	if _, err := c.history.AddAnalysis(ctx, result, image); err != nil {
		c.logger.Error("failed to save to history", "error", err)
	}
	return c.apply(ctx, Resolved{Result: result})
}

// SubmitSearch analyzes a typed food name.
func (c *Controller) SubmitSearch(ctx context.Context, foodName string) error {
	foodName = strings.TrimSpace(foodName)
	if foodName == "" {
		return ErrEmptyQuery
	}
	if err := c.apply(ctx, Submit{}); err != nil {
		return err
	}

	if err := c.searches.Add(ctx, foodName); err != nil {
		c.logger.Error("failed to save recent search", "error", err)
	}

	result, err := c.client.SearchFood(ctx, foodName)
	if err != nil {
		c.logger.Error("search failed", "food_name", foodName, "error", err)
		return c.fail(ctx, err)
	}

	if _, err := c.history.AddSearch(ctx, result, foodName); err != nil {
		c.logger.Error("failed to save to history", "error", err)
	}
	return c.apply(ctx, Resolved{Result: result})
}

func (c *Controller) fail(ctx context.Context, cause error) error {
	if err := c.apply(ctx, Failed{Err: cause}); err != nil {
		return err
	}
	return cause
}

// Close releases the camera if it is running.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.View == ViewCamera {
		c.camera.Stop()
	}
}

func (c *Controller) apply(ctx context.Context, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := Update(c.state, ev)
	if err != nil {
		return err
	}
	prev := c.state
	c.state = next

	if prev.View == ViewCamera && next.View != ViewCamera {
		c.camera.Stop()
	}
	if next.View == ViewCamera && prev.View != ViewCamera {
		if err := c.camera.Start(ctx, capture.FacingEnvironment); err != nil {
			c.logger.Error("failed to start camera", "error", err)
			c.state.Err = err
			return err
		}
	}

	c.logger.Debug("view changed", "from", prev.View, "to", next.View, "analyzing", next.Analyzing)
	return nil
}
