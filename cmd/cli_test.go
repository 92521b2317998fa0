package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tomlrepo "github.com/bnema/desk/internal/adapters/repo/toml"
	"github.com/bnema/desk/internal/domain"
	"github.com/bnema/desk/internal/ports"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowOpenPersistsAndStatusShowsIt(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "window", "open", "sticky-note", "--id", "note-1", "--title", "Groceries")
	require.NoError(t, err)
	assert.Equal(t, "note-1\n", stdout)
	assert.FileExists(t, filepath.Join(home, ".desk", "desktop.toml"))

	stdout, _, err = executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "workspaces: 1  windows: 1")
	assert.Contains(t, stdout, "Main Workspace")
	assert.Contains(t, stdout, "Groceries")
	assert.Contains(t, stdout, "(sticky-note note-1)")
	assert.Contains(t, stdout, "@100,100 300x300")
}

func TestWindowOpenRejectsUnknownType(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "window", "open", "spaceship")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownWidgetType)
}

func TestWindowOpenRejectsTakenID(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "window", "open", "todo", "--id", "w-1")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "window", "open", "todo", "--id", "w-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
}

func TestWindowOpenIframeNormalizesURL(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "window", "open", "iframe", "--id", "web", "--url", "example.com")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "window", "content", "web")
	require.NoError(t, err)

	var content map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &content))
	assert.Equal(t, "https://example.com", content["url"])
}

func TestWindowOpenURLRequiresIframe(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "window", "open", "todo", "--url", "example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--url only applies to iframe windows")
}

func TestWindowFocusRaisesAboveOtherWindows(t *testing.T) {
	home := t.TempDir()

	for _, id := range []string{"a", "b"} {
		_, _, err := executeCLI(t, home, "window", "open", "todo", "--id", id)
		require.NoError(t, err)
	}

	stdout, _, err := executeCLI(t, home, "window", "focus", "a")
	require.NoError(t, err)
	assert.Equal(t, "focused a\n", stdout)

	stdout, _, err = executeCLI(t, home, "window", "ls")
	require.NoError(t, err)
	assert.Equal(t, "2\tb\ttodo\tTodo List\n3\ta\ttodo\tTodo List\n", stdout)
}

func TestWindowMaximizeToggleRestoresGeometry(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "window", "open", "kanban", "--id", "k", "--x", "10", "--y", "20", "--width", "640", "--height", "480")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "window", "max", "k")
	require.NoError(t, err)
	assert.Equal(t, "maximized k\n", stdout)

	window := readWindow(t, home, "k")
	assert.True(t, window.IsMaximized)
	require.NotNil(t, window.PreviousPosition)
	assert.Equal(t, domain.Position{X: 10, Y: 20}, *window.PreviousPosition)
	require.NotNil(t, window.PreviousSize)
	assert.Equal(t, domain.Size{W: 640, H: 480}, *window.PreviousSize)

	stdout, _, err = executeCLI(t, home, "window", "max", "k")
	require.NoError(t, err)
	assert.Equal(t, "restored k\n", stdout)

	window = readWindow(t, home, "k")
	assert.False(t, window.IsMaximized)
	assert.Equal(t, domain.Position{X: 10, Y: 20}, window.Position)
	assert.Equal(t, domain.Size{W: 640, H: 480}, window.Size)
	assert.Nil(t, window.PreviousPosition)
	assert.Nil(t, window.PreviousSize)
}

func TestWindowMoveAndResize(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "window", "open", "calendar", "--id", "cal")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "window", "move", "cal", "5", "6.5")
	require.NoError(t, err)
	_, _, err = executeCLI(t, home, "window", "resize", "cal", "800", "600")
	require.NoError(t, err)

	window := readWindow(t, home, "cal")
	assert.Equal(t, domain.Position{X: 5, Y: 6.5}, window.Position)
	assert.Equal(t, domain.Size{W: 800, H: 600}, window.Size)

	_, _, err = executeCLI(t, home, "window", "resize", "cal", "--", "-1", "600")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestWindowGeometryRejectsNonFiniteNumbers(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DESK_STATE_BACKEND", "file")

	_, _, err := executeCLI(t, home, "window", "open", "todo", "--id", "t")
	require.NoError(t, err)

	tests := [][]string{
		{"window", "move", "t", "NaN", "10"},
		{"window", "move", "--", "t", "10", "-Inf"},
		{"window", "resize", "t", "+Inf", "10"},
		{"window", "open", "todo", "--x", "NaN"},
		{"window", "open", "todo", "--height", "Inf"},
	}
	for _, args := range tests {
		_, _, err := executeCLI(t, home, args...)
		require.Error(t, err, "%v", args)
		assert.ErrorIs(t, err, errNonFiniteGeometry, "%v", args)
	}

	_, _, err = executeCLI(t, home, "window", "move", "t", "12", "34")
	require.NoError(t, err)

	window := readWindow(t, home, "t")
	assert.Equal(t, domain.Position{X: 12, Y: 34}, window.Position)
	assert.Len(t, readDesktop(t, home).Workspaces[0].Projects[0].Windows, 1)
}

func TestWindowSetMergesContent(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "window", "open", "sticky-note", "--id", "n")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "window", "set", "n", "text=buy milk", "pinned=true")
	require.NoError(t, err)
	assert.Equal(t, "updated n\n", stdout)

	stdout, _, err = executeCLI(t, home, "window", "content", "n")
	require.NoError(t, err)

	var content map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &content))
	assert.Equal(t, map[string]any{"text": "buy milk", "color": "yellow", "pinned": true}, content)
}

func TestWindowCloseRemovesWindow(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "window", "open", "todo", "--id", "t")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "window", "close", "t")
	require.NoError(t, err)
	assert.Equal(t, "closed t\n", stdout)

	_, _, err = executeCLI(t, home, "window", "content", "t")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWindowNotFound)
}

func TestWindowCommandsOnlyReachTheActiveProject(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "window", "open", "todo", "--id", "w")
	require.NoError(t, err)
	first := readDesktop(t, home).ActiveProjectID

	_, _, err = executeCLI(t, home, "project", "add", "Side")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "window", "focus", "w")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "switch with `desk project use`")

	_, _, err = executeCLI(t, home, "project", "use", string(first))
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "window", "focus", "w")
	require.NoError(t, err)
}

func TestNoOpOperationsPrintNotice(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "window", "open", "todo")
	require.NoError(t, err)

	stdout, stderr, err := executeCLI(t, home, "project", "rm", "Main Project")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, "nothing changed\n", stderr)

	stdout, stderr, err = executeCLI(t, home, "workspace", "use", "Main Workspace")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, "nothing changed\n", stderr)
}

func TestWorkspaceAddListRenameRemove(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "workspace", "add", "Research")
	require.NoError(t, err)
	id := strings.TrimSpace(stdout)
	require.NotEmpty(t, id)

	stdout, _, err = executeCLI(t, home, "workspace", "ls")
	require.NoError(t, err)
	assert.Contains(t, stdout, "* "+id+"\tResearch\t1 projects")
	assert.Contains(t, stdout, "Main Workspace")

	_, _, err = executeCLI(t, home, "workspace", "rename", "Research", "Reading")
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, home, "project", "ls", "--workspace", id)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Main Project\t0 windows")

	stdout, _, err = executeCLI(t, home, "workspace", "rm", "Reading")
	require.NoError(t, err)
	assert.Equal(t, "removed workspace "+id+"\n", stdout)

	desktop := readDesktop(t, home)
	require.Len(t, desktop.Workspaces, 1)
	assert.Equal(t, desktop.Workspaces[0].ID, desktop.ActiveWorkspaceID)
}

func TestWorkspaceAddRejectsBlankName(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "workspace", "add", "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestWorkspaceRejectsUnknownReference(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "workspace", "use", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
}

func TestStatusJSONOutput(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "window", "open", "pomodoro", "--id", "p")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "status", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"activeWorkspaceId\"")
	assert.Contains(t, stdout, "\"maxZIndex\": 1")
}

func TestStatusReportsRepairedRecord(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DESK_STATE_BACKEND", "file")

	record := `{"version":0,"state":{"workspaces":[{"id":"ws","name":"Home","projects":[{"id":"p","name":"Inbox","maxZIndex":0,` +
		`"windows":[{"id":"old","title":"Old","type":"todo","position":{"x":0,"y":0},"size":{"w":10,"h":10},"isMaximized":false,"zIndex":9,"content":{}}]}]}],` +
		`"activeWorkspaceId":"ws","activeProjectId":"p"}}`
	slotDir := filepath.Join(home, ".desk", "slots")
	require.NoError(t, os.MkdirAll(slotDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(slotDir, "window-store.json"), []byte(record), 0o600))

	_, stderr, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stderr, "stored desktop was repaired on load")

	_, _, err = executeCLI(t, home, "window", "open", "todo", "--id", "new")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "window", "ls")
	require.NoError(t, err)
	assert.Equal(t, "9\told\ttodo\tOld\n10\tnew\ttodo\tTodo List\n", stdout)
}

func TestBackendsPersistAcrossRuns(t *testing.T) {
	tests := []struct {
		backend string
		file    string
	}{
		{backend: "toml", file: "desktop.toml"},
		{backend: "file", file: filepath.Join("slots", "window-store.json")},
		{backend: "sqlite", file: "desk.sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("DESK_STATE_BACKEND", tt.backend)

			_, _, err := executeCLI(t, home, "window", "open", "quick-links", "--id", "links", "--title", "Bookmarks")
			require.NoError(t, err)
			assert.FileExists(t, filepath.Join(home, ".desk", tt.file))

			stdout, _, err := executeCLI(t, home, "window", "ls")
			require.NoError(t, err)
			assert.Equal(t, "1\tlinks\tquick-links\tBookmarks\n", stdout)
		})
	}
}

func TestResetClearsStoredDesktop(t *testing.T) {
	for _, backend := range []string{"toml", "file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("DESK_STATE_BACKEND", backend)

			_, _, err := executeCLI(t, home, "window", "open", "todo", "--id", "kept")
			require.NoError(t, err)

			_, _, err = executeCLI(t, home, "reset")
			require.ErrorIs(t, err, errResetNotConfirmed)
			assert.Equal(t, 1, readDesktop(t, home).CountWindows())

			stdout, _, err := executeCLI(t, home, "reset", "--force")
			require.NoError(t, err)
			assert.Equal(t, "stored desktop cleared\n", stdout)

			desktop := readDesktop(t, home)
			assert.Zero(t, desktop.CountWindows())
			require.Len(t, desktop.Workspaces, 1)
		})
	}
}

func TestResetAlsoClearsFileRecordBehindSQLite(t *testing.T) {
	home := t.TempDir()

	t.Setenv("DESK_STATE_BACKEND", "file")
	_, _, err := executeCLI(t, home, "window", "open", "todo", "--id", "carried")
	require.NoError(t, err)

	t.Setenv("DESK_STATE_BACKEND", "sqlite")
	_, _, err = executeCLI(t, home, "reset", "--force")
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(home, ".desk", "slots", "window-store.json"))
	stdout, _, err := executeCLI(t, home, "window", "ls")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "carried")
}

func TestWatchPathFollowsBackend(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{backend: "toml", want: "desktop.toml"},
		{backend: "file", want: filepath.Join("slots", "window-store.json")},
		{backend: "sqlite", want: "desk.sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("HOME", home)
			t.Setenv("DESK_STATE_BACKEND", tt.backend)

			app, err := wireApp()
			require.NoError(t, err)

			path, err := app.watchPath()
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(home, ".desk", tt.want), path)
		})
	}
}

func TestSQLiteBackendReadsRecordsLeftByFileBackend(t *testing.T) {
	home := t.TempDir()

	t.Setenv("DESK_STATE_BACKEND", "file")
	_, _, err := executeCLI(t, home, "window", "open", "todo", "--id", "carried")
	require.NoError(t, err)

	t.Setenv("DESK_STATE_BACKEND", "sqlite")
	stdout, _, err := executeCLI(t, home, "window", "ls")
	require.NoError(t, err)
	assert.Contains(t, stdout, "carried")
}

func TestBatchAppliesLinesWithOneWrite(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DESK_AUTOSAVE_DEBOUNCE", "1m")

	input := strings.Join([]string{
		"# seed a layout",
		"window open sticky-note --id n1 --title 'Shopping list'",
		"",
		"window open todo --id t1",
		`window set n1 text="eggs and milk"`,
		"desk window focus n1",
	}, "\n")

	stdout, stderr, err := executeCLIWithInput(t, home, strings.NewReader(input), "batch")
	require.NoError(t, err)
	assert.Contains(t, stdout, "n1\nt1\nupdated n1\nfocused n1\n")
	assert.Contains(t, stderr, "4 operations, 0 failed, 1 writes")

	window := readWindow(t, home, "n1")
	assert.Equal(t, "Shopping list", window.Title)
	assert.Equal(t, 3, window.ZIndex)
	assert.Equal(t, "eggs and milk", window.Content["text"])
}

func TestBatchReportsFailingLinesAndContinues(t *testing.T) {
	home := t.TempDir()

	input := "window focus missing\nwindow open todo --id t\n"
	stdout, stderr, err := executeCLIWithInput(t, home, strings.NewReader(input), "batch")
	require.NoError(t, err)
	assert.Equal(t, "t\n", stdout)
	assert.Contains(t, stderr, "line 1: window not found")
	assert.Contains(t, stderr, "2 operations, 1 failed, 1 writes")
}

func TestBatchStopOnErrorFails(t *testing.T) {
	home := t.TempDir()

	input := "window open todo --id t\nwindow open nope\nwindow open todo --id u\n"
	_, stderr, err := executeCLIWithInput(t, home, strings.NewReader(input), "batch", "--stop-on-error")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownWidgetType)
	assert.Contains(t, stderr, "2 operations, 1 failed")

	desktop := readDesktop(t, home)
	assert.Equal(t, 1, desktop.CountWindows())
}

func TestWatchReportsExternalWrites(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	watchOut := &syncBuffer{}
	watchCmd := newRootCmd()
	watchCmd.SetOut(watchOut)
	watchCmd.SetErr(io.Discard)
	watchCmd.SetArgs([]string{"watch", "--max-events", "1"})

	done := make(chan error, 1)
	go func() { done <- watchCmd.Execute() }()

	// The watcher may not be armed yet, so keep writing until it reports.
	deadline := time.After(10 * time.Second)
	for i := 1; ; i++ {
		_, _, err := executeCLI(t, home, "window", "open", "todo", "--id", fmt.Sprintf("w-%d", i))
		require.NoError(t, err)

		select {
		case err := <-done:
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(watchOut.String()), "\n")
			require.GreaterOrEqual(t, len(lines), 2)
			assert.Contains(t, lines[len(lines)-1], "1 workspaces")
			return
		case <-deadline:
			t.Fatal("watch did not report the external write")
		case <-time.After(200 * time.Millisecond):
		}
	}
}

func TestSplitBatchLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{name: "plain", line: "window  open\ttodo", want: []string{"window", "open", "todo"}},
		{name: "double quotes", line: `window set n text="a b"`, want: []string{"window", "set", "n", "text=a b"}},
		{name: "single quotes keep backslash", line: `x 'a\b'`, want: []string{"x", `a\b`}},
		{name: "escaped space", line: `x a\ b`, want: []string{"x", "a b"}},
		{name: "empty quotes", line: `x ""`, want: []string{"x", ""}},
		{name: "unterminated", line: `x "a`, wantErr: true},
		{name: "trailing backslash", line: `x \`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitBatchLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadRepairedTreatsMissingRecordAsEmptyDesktop(t *testing.T) {
	repo, err := tomlrepo.NewRepository(filepath.Join(t.TempDir(), "desktop.toml"), clockwork.NewFakeClock())
	require.NoError(t, err)

	desktop, err := loadRepaired(context.Background(), repo, ports.UUIDGenerator{})
	require.NoError(t, err)
	require.Len(t, desktop.Workspaces, 1)
	assert.Equal(t, domain.DefaultWorkspaceName, desktop.Workspaces[0].Name)
	assert.NoFileExists(t, repo.Path())
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(stdout))
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, strings.NewReader(""), args...)
}

func executeCLIWithInput(t *testing.T, home string, input io.Reader, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(input)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func readDesktop(t *testing.T, home string) domain.Desktop {
	t.Helper()

	stdout, _, err := executeCLI(t, home, "status", "--json")
	require.NoError(t, err)

	var desktop domain.Desktop
	require.NoError(t, json.Unmarshal([]byte(stdout), &desktop))
	return desktop
}

func readWindow(t *testing.T, home string, id string) domain.Window {
	t.Helper()

	for _, workspace := range readDesktop(t, home).Workspaces {
		for _, project := range workspace.Projects {
			if idx := project.WindowIndex(domain.WindowID(id)); idx >= 0 {
				return project.Windows[idx]
			}
		}
	}

	require.Failf(t, "window not found", "window %s", id)
	return domain.Window{}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
