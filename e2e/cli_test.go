package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pixelcanvas/internal/api"
	"github.com/mcoot/pixelcanvas/internal/api/response"
	"github.com/mcoot/pixelcanvas/internal/cli"
	"github.com/mcoot/pixelcanvas/internal/config"
	"github.com/mcoot/pixelcanvas/internal/factory"
	"github.com/mcoot/pixelcanvas/internal/services/journal"
	"github.com/mcoot/pixelcanvas/internal/testutil"
	"github.com/mcoot/pixelcanvas/internal/web"
)

// cliRunner runs pixelctl commands in-process against a server
type cliRunner struct {
	t         *testing.T
	serverURL string
	tokenFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()
	return &cliRunner{
		t:         t,
		serverURL: serverURL,
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(fullArgs)
	err := cmd.ExecuteContext(r.t.Context())
	return out.String(), err
}

// runJSON runs a command that must succeed and decodes its output
func (r *cliRunner) runJSON(dst any, args ...string) {
	r.t.Helper()
	out, err := r.run(args...)
	require.NoError(r.t, err, out)
	require.NoError(r.t, json.Unmarshal([]byte(out), dst), out)
}

// testServer manages a full server (API, web and metrics) over sqlite
type testServer struct {
	app    *factory.App
	server *httptest.Server
	cancel context.CancelFunc
	done   chan struct{}
}

func startTestServer(t *testing.T, dbPath string) *testServer {
	t.Helper()

	logger := testutil.NopLogger()
	app, err := factory.New(t.Context(), factory.Config{
		Width:         8,
		Height:        4,
		Logger:        logger,
		StorageType:   config.StorageSQLite,
		SQLitePath:    dbPath,
		JournalConfig: journal.Config{FlushInterval: 10 * time.Millisecond},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = app.Journal.Run(ctx)
	}()

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		Clock:         app.Clock,
		AuthService:   app.AuthService,
		CanvasService: app.CanvasService,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:        logger,
		Clock:         app.Clock,
		AuthService:   app.AuthService,
		CanvasService: app.CanvasService,
	})

	return &testServer{
		app:    app,
		server: httptest.NewServer(api.NewMux(apiRouter, webRouter)),
		cancel: cancel,
		done:   done,
	}
}

// stop shuts the server down the way main does: stop serving, let the
// journal finish, then close storage
func (s *testServer) stop(t *testing.T) {
	t.Helper()
	s.server.Close()
	s.cancel()
	<-s.done
	require.NoError(t, s.app.Close(context.Background()))
}

func TestCLIFlow(t *testing.T) {
	ts := startTestServer(t, filepath.Join(t.TempDir(), "canvas.db"))
	defer ts.stop(t)

	admin := newCLIRunner(t, ts.server.URL)
	bob := newCLIRunner(t, ts.server.URL)

	var health response.Health
	admin.runJSON(&health, "health")
	assert.Equal(t, "ok", health.Status)

	var adminAuth response.AuthResponse
	admin.runJSON(&adminAuth, "actor", "register", "--name", "alice", "--pass", "secret")
	assert.True(t, adminAuth.Actor.IsAdmin)

	var bobAuth response.AuthResponse
	bob.runJSON(&bobAuth, "actor", "register", "--name", "bob", "--pass", "secret")
	assert.False(t, bobAuth.Actor.IsAdmin)

	// Token file is used for later commands
	var me response.Actor
	bob.runJSON(&me, "actor", "me")
	assert.Equal(t, "bob", me.Name)

	var px response.Pixel
	bob.runJSON(&px, "place", "--x", "3", "--y", "2", "--color", "#00ff00")
	assert.Equal(t, "#00FF00", px.Color)
	assert.Equal(t, int64(1), px.Seq)

	var canvas response.Canvas
	admin.runJSON(&canvas, "canvas")
	assert.Equal(t, 8, canvas.Width)
	assert.Equal(t, "#00FF00", canvas.Pixels[2][3])

	var mod response.Moderation
	admin.runJSON(&mod, "admin", "ban", bobAuth.Actor.ID)
	assert.True(t, mod.Target.Banned)

	out, err := bob.run("place", "--x", "0", "--y", "0", "--color", "#000000")
	require.Error(t, err)
	assert.Contains(t, out, "FORBIDDEN")
	assert.Contains(t, out, "banned")

	admin.runJSON(&mod, "admin", "unban", bobAuth.Actor.ID)
	admin.runJSON(&mod, "admin", "timeout", bobAuth.Actor.ID, "--minutes", "3")
	assert.Contains(t, mod.Message, "3 minutes")
	admin.runJSON(&mod, "admin", "remove-timeout", bobAuth.Actor.ID)
	bob.runJSON(&px, "place", "--x", "0", "--y", "0", "--color", "#000000")

	var history response.History
	admin.runJSON(&history, "history", "--since", "0")
	require.Len(t, history.Records, 2)
	assert.Equal(t, int64(2), history.NextSince)

	var dashboard response.Dashboard
	admin.runJSON(&dashboard, "admin", "dashboard")
	assert.Equal(t, 2, dashboard.TotalActors)
	assert.Equal(t, 2, dashboard.TotalPixels)

	out, err = bob.run("admin", "dashboard")
	require.Error(t, err)
	assert.Contains(t, out, "FORBIDDEN")

	_, err = bob.run("actor", "logout")
	require.NoError(t, err)
	_, err = bob.run("actor", "me")
	assert.Error(t, err)
}

func TestCanvasSurvivesRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "canvas.db")

	ts := startTestServer(t, dbPath)
	runner := newCLIRunner(t, ts.server.URL)
	var auth response.AuthResponse
	runner.runJSON(&auth, "actor", "register", "--name", "alice", "--pass", "secret")
	var px response.Pixel
	runner.runJSON(&px, "place", "--x", "1", "--y", "1", "--color", "#123456")
	runner.runJSON(&px, "place", "--x", "7", "--y", "3", "--color", "#ABCDEF")
	ts.stop(t)

	ts = startTestServer(t, dbPath)
	defer ts.stop(t)
	runner = newCLIRunner(t, ts.server.URL)

	var canvas response.Canvas
	runner.runJSON(&canvas, "canvas")
	assert.Equal(t, "#123456", canvas.Pixels[1][1])
	assert.Equal(t, "#ABCDEF", canvas.Pixels[3][7])

	// Accounts survive too; sessions do not
	runner.runJSON(&auth, "actor", "login", "--name", "alice", "--pass", "secret")
	assert.Equal(t, 2, auth.Actor.PixelsPlaced)
	runner.runJSON(&px, "place", "--x", "0", "--y", "0", "--color", "#000000")
	assert.Equal(t, int64(3), px.Seq)
}

func TestMetricsExposed(t *testing.T) {
	ts := startTestServer(t, filepath.Join(t.TempDir(), "canvas.db"))
	defer ts.stop(t)

	runner := newCLIRunner(t, ts.server.URL)
	var auth response.AuthResponse
	runner.runJSON(&auth, "actor", "register", "--name", "alice", "--pass", "secret")
	var px response.Pixel
	runner.runJSON(&px, "place", "--x", "1", "--y", "1", "--color", "#123456")

	resp, err := http.Get(ts.server.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(body.String(), "pixelcanvas_canvas_pixels_placed_total"))
	assert.True(t, strings.Contains(body.String(), "pixelcanvas_http_request_duration_seconds"))
}

func TestCanvasTextOutput(t *testing.T) {
	ts := startTestServer(t, filepath.Join(t.TempDir(), "canvas.db"))
	defer ts.stop(t)

	runner := newCLIRunner(t, ts.server.URL)
	var auth response.AuthResponse
	runner.runJSON(&auth, "actor", "register", "--name", "alice", "--pass", "secret")
	var px response.Pixel
	runner.runJSON(&px, "place", "--x", "2", "--y", "0", "--color", "#FF0000")

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--server", ts.server.URL, "--token-file", runner.tokenFile, "canvas"})
	require.NoError(t, cmd.ExecuteContext(t.Context()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Canvas: 8x4, 1 painted", lines[0])
	assert.Equal(t, "..#.....", lines[1])
	assert.Equal(t, "........", lines[4])
}
