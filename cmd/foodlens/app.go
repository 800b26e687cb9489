package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/foodlens/internal/capture"
	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/history"
	"github.com/vbonduro/foodlens/internal/view"
)

// app is the line-oriented front end over the view controller.
type app struct {
	ctrl     *view.Controller
	camera   *capture.Manager
	history  *history.Store
	searches *history.RecentSearches
	in       io.Reader
	out      io.Writer
}

func (a *app) run(ctx context.Context) error {
	a.render(ctx)

	done := make(chan struct{})
	defer close(done)
	lines, scanErr := readLines(a.in, done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			quit, err := a.handle(ctx, strings.TrimSpace(line))
			if err != nil {
				fmt.Fprintf(a.out, "error: %v\n", err)
			}
			if quit {
				return nil
			}
			a.render(ctx)
		}
	}
}

// readLines feeds lines from r until r is exhausted or done is closed. Both
// channels are closed when the reader goroutine exits; the error channel
// carries the scanner error first when r ends.
func readLines(r io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		defer close(lines)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errs <- scanner.Err()
	}()
	return lines, errs
}

// handle runs one command in the current view and reports whether to quit.
func (a *app) handle(ctx context.Context, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	if cmd == "quit" || cmd == "exit" {
		return true, nil
	}
	if cmd == "back" {
		return false, a.ctrl.Back(ctx)
	}

	switch a.ctrl.State().View {
	case view.ViewHome:
		switch cmd {
		case "camera", "scan":
			return false, a.ctrl.Navigate(ctx, view.ViewCamera)
		case "search":
			if err := a.ctrl.Navigate(ctx, view.ViewSearch); err != nil || arg == "" {
				return false, err
			}
			return false, a.ctrl.SubmitSearch(ctx, arg)
		case "history":
			return false, a.ctrl.Navigate(ctx, view.ViewHistory)
		}
	case view.ViewCamera:
		switch cmd {
		case "snap", "":
			return false, a.ctrl.Capture(ctx)
		case "switch":
			return false, a.camera.SwitchCamera(ctx)
		case "upload":
			image, err := capture.Upload(arg)
			if err != nil {
				return false, err
			}
			return false, a.ctrl.SubmitCapture(ctx, image)
		}
	case view.ViewSearch:
		if cmd == "recent" {
			return false, a.printRecent(ctx)
		}
		return false, a.ctrl.SubmitSearch(ctx, line)
	case view.ViewAnalysis:
		if cmd == "new" {
			return false, a.ctrl.Navigate(ctx, view.ViewCamera)
		}
	case view.ViewHistory:
		return false, a.handleHistory(ctx, cmd, arg)
	}
	return false, fmt.Errorf("unknown command %q", cmd)
}

func (a *app) handleHistory(ctx context.Context, cmd, arg string) error {
	switch cmd {
	case "clear":
		return a.history.Clear(ctx)
	case "rm", "show":
		entries, err := a.history.List(ctx)
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(entries) {
			return fmt.Errorf("no history entry %q", arg)
		}
		entry := entries[n-1]
		if cmd == "rm" {
			return a.history.Remove(ctx, entry.Timestamp)
		}
		a.printResult(&entry.FoodAnalysisResult)
		if entry.Image != "" {
			uri, err := a.history.ImageURI(ctx, entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "photo: %d bytes (data URI)\n", len(uri))
		}
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) render(ctx context.Context) {
	state := a.ctrl.State()
	fmt.Fprintf(a.out, "\n[%s]\n", state.View)

	switch state.View {
	case view.ViewHome:
		fmt.Fprintln(a.out, "commands: camera | search [food] | history | quit")
	case view.ViewCamera:
		switch {
		case state.Err != nil:
			fmt.Fprintf(a.out, "camera unavailable: %v\n", state.Err)
		case a.camera.Active():
			fmt.Fprintf(a.out, "camera: %s\n", a.camera.Facing())
		default:
			fmt.Fprintln(a.out, "camera: not running")
		}
		fmt.Fprintln(a.out, "commands: snap | switch | upload <file> | back")
	case view.ViewSearch:
		fmt.Fprintln(a.out, "type a food name, or: recent | back")
	case view.ViewAnalysis:
		switch {
		case state.Analyzing:
			fmt.Fprintln(a.out, "analyzing...")
		case state.Err != nil:
			fmt.Fprintf(a.out, "analysis failed: %v\n", state.Err)
		case state.Result != nil:
			a.printResult(state.Result)
		}
		fmt.Fprintln(a.out, "commands: new | back")
	case view.ViewHistory:
		if err := a.printHistory(ctx); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
		fmt.Fprintln(a.out, "commands: show <n> | rm <n> | clear | back")
	}
}

func (a *app) printResult(r *domain.FoodAnalysisResult) {
	confidence := string(r.Confidence)
	if !r.Confidence.Valid() {
		confidence = "unknown"
	}
	fmt.Fprintf(a.out, "%s (%s confidence)\n", r.FoodName, confidence)
	if r.Description != "" {
		fmt.Fprintln(a.out, r.Description)
	}
	if r.Failed() {
		fmt.Fprintf(a.out, "! %s\n", r.Error)
	}

	n := r.Nutrition
	rows := []struct {
		label    string
		value    float64
		unit     string
		nutrient domain.Nutrient
	}{
		{"Calories", n.Calories, "kcal", domain.NutrientCalories},
		{"Protein", n.ProteinG, "g", domain.NutrientProtein},
		{"Fat", n.FatG, "g", domain.NutrientFat},
		{"Carbs", n.CarbsG, "g", ""},
		{"Sugar", n.SugarG, "g", domain.NutrientSugar},
		{"Fiber", n.FiberG, "g", domain.NutrientFiber},
		{"Sodium", n.SodiumMg, "mg", domain.NutrientSodium},
		{"Calcium", n.CalciumMg, "mg", ""},
		{"Iron", n.IronMg, "mg", ""},
	}
	for _, row := range rows {
		level := ""
		if row.nutrient != "" {
			level = " [" + domain.NutrientLevel(row.nutrient, row.value).String() + "]"
		}
		fmt.Fprintf(a.out, "  %-8s %7.1f %-4s%s\n", row.label, row.value, row.unit, level)
	}

	printList(a.out, "Ingredients", r.Ingredients)
	printList(a.out, "Health insights", r.HealthInsights)
	if len(r.DietaryTags) > 0 {
		fmt.Fprintf(a.out, "Tags: %s\n", strings.Join(r.DietaryTags, ", "))
	}
	fmt.Fprintf(a.out, "Serving: %s. Preparation: %s\n", r.ServingSize, r.PreparationMethod)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func (a *app) printHistory(ctx context.Context) error {
	entries, err := a.history.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "no history yet")
		return nil
	}

	summary, err := a.history.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d entries, avg %d kcal, avg %dg protein, %d days tracked\n",
		summary.Count, summary.AvgCalories, summary.AvgProtein, summary.DaysTracked)

	for i, e := range entries {
		source := "photo"
		if e.SearchQuery != "" {
			source = "search: " + e.SearchQuery
		}
		when := time.UnixMilli(e.Timestamp).Format("2006-01-02 15:04")
		fmt.Fprintf(a.out, "%2d. %s  %s (%.0f kcal, %s)\n", i+1, when, e.FoodName, e.Nutrition.Calories, source)
	}
	return nil
}

func (a *app) printRecent(ctx context.Context) error {
	recent, err := a.searches.List(ctx)
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		return errors.New("no recent searches")
	}
	for _, q := range recent {
		fmt.Fprintf(a.out, "  %s\n", q)
	}
	return nil
}
