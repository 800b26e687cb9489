package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/foodlens/internal/capture"
	"github.com/vbonduro/foodlens/internal/client"
	"github.com/vbonduro/foodlens/internal/db"
	"github.com/vbonduro/foodlens/internal/history"
	"github.com/vbonduro/foodlens/internal/photostore/local"
	"github.com/vbonduro/foodlens/internal/store"
	"github.com/vbonduro/foodlens/internal/view"
)

func readBody(r *http.Request) string {
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r.Body)
	return buf.String()
}

func newTestApp(t *testing.T, input string) (*app, *bytes.Buffer) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/analyze-food":
			_, _ = w.Write([]byte(`{"food_name":"Pasta","confidence":"Medium","nutrition":{"calories":500,"protein_g":12}}`))
		case "/api/search-food":
			if strings.Contains(readBody(r), "mystery") {
				_, _ = w.Write([]byte(`{"food_name":"Mystery stew","confidence":"Very sure"}`))
				return
			}
			_, _ = w.Write([]byte(`{"food_name":"Banana","confidence":"High","nutrition":{"calories":105,"protein_g":1.3},"dietary_tags":["vegan"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	database, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	photos, err := local.NewLocalPhotoStore(t.TempDir(), slog.Default())
	require.NoError(t, err)

	cameraDir := t.TempDir()
	var frame bytes.Buffer
	require.NoError(t, png.Encode(&frame, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, os.WriteFile(filepath.Join(cameraDir, "frame.png"), frame.Bytes(), 0o644))

	logger := slog.Default()
	kv := store.NewKVStore(database)
	hist := history.NewStore(kv, photos, logger)
	searches := history.NewRecentSearches(kv, logger)
	cam := capture.NewManager(capture.NewDirSource(cameraDir), logger)
	ctrl := view.NewController(client.New(server.URL, logger), cam, hist, searches, logger)
	t.Cleanup(ctrl.Close)

	out := &bytes.Buffer{}
	return &app{
		ctrl:     ctrl,
		camera:   cam,
		history:  hist,
		searches: searches,
		in:       strings.NewReader(input),
		out:      out,
	}, out
}

func TestAppCaptureSearchAndHistory(t *testing.T) {
	a, out := newTestApp(t, strings.Join([]string{
		"camera",
		"snap",
		"back",
		"search banana",
		"back",
		"history",
		"quit",
	}, "\n"))

	require.NoError(t, a.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Pasta (Medium confidence)")
	assert.Contains(t, text, "[elevated]")
	assert.Contains(t, text, "Banana (High confidence)")
	assert.Contains(t, text, "Tags: vegan")
	assert.Contains(t, text, "2 entries")
	assert.Contains(t, text, "search: banana")
	assert.False(t, a.camera.Active())

	entries, err := a.history.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Banana", entries[0].FoodName)
	assert.NotEmpty(t, entries[1].Image)
}

func TestAppHistoryRemove(t *testing.T) {
	a, out := newTestApp(t, strings.Join([]string{
		"search apple",
		"back",
		"search banana",
		"back",
		"history",
		"rm 1",
		"rm 9",
		"quit",
	}, "\n"))

	require.NoError(t, a.run(context.Background()))

	entries, err := a.history.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Contains(t, out.String(), `no history entry "9"`)
}

func TestAppRejectsUnknownCommand(t *testing.T) {
	a, out := newTestApp(t, "dance\n")

	require.NoError(t, a.run(context.Background()))
	assert.Contains(t, out.String(), `unknown command "dance"`)
}

func TestAppRecentSearches(t *testing.T) {
	a, out := newTestApp(t, strings.Join([]string{
		"search apple",
		"back",
		"search",
		"recent",
	}, "\n"))

	require.NoError(t, a.run(context.Background()))
	assert.Contains(t, out.String(), "  apple\n")
}

func TestAppFlagsUnknownConfidence(t *testing.T) {
	a, out := newTestApp(t, "search mystery\nquit\n")

	require.NoError(t, a.run(context.Background()))
	assert.Contains(t, out.String(), "Mystery stew (unknown confidence)")
	assert.NotContains(t, out.String(), "Very sure")
}

func TestAppShowsRunningCamera(t *testing.T) {
	a, out := newTestApp(t, "camera\nquit\n")

	require.NoError(t, a.run(context.Background()))
	assert.Contains(t, out.String(), "camera: environment")
}

func TestReadLinesStopsWhenDone(t *testing.T) {
	done := make(chan struct{})
	lines, errs := readLines(strings.NewReader("quit\nleft\nover\n"), done)

	assert.Equal(t, "quit", <-lines)
	close(done)

	select {
	case <-errs:
	case <-time.After(time.Second):
		t.Fatal("reader goroutine still blocked after done was closed")
	}
}

func TestReadLinesEndOfInput(t *testing.T) {
	lines, errs := readLines(strings.NewReader("a\nb"), make(chan struct{}))

	var got []string
	for line := range lines {
		got = append(got, line)
	}
	assert.Equal(t, []string{"a", "b"}, got)
	assert.NoError(t, <-errs)
}
