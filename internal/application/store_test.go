package application

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bnema/desk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	mu        sync.Mutex
	snapshots []domain.Desktop
}

func (p *recordingPersister) Schedule(snapshot domain.Desktop) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, snapshot)
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snapshots)
}

func (p *recordingPersister) last() domain.Desktop {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshots[len(p.snapshots)-1]
}

type sequentialIDs struct {
	workspaces int
	projects   int
	windows    int
}

func (s *sequentialIDs) NewWorkspaceID() domain.WorkspaceID {
	s.workspaces++
	return domain.WorkspaceID(fmt.Sprintf("ws-%d", s.workspaces))
}

func (s *sequentialIDs) NewProjectID() domain.ProjectID {
	s.projects++
	return domain.ProjectID(fmt.Sprintf("p-%d", s.projects))
}

func (s *sequentialIDs) NewWindowID() domain.WindowID {
	s.windows++
	return domain.WindowID(fmt.Sprintf("w-%d", s.windows))
}

func newTestStore(t *testing.T) (*Store, *recordingPersister) {
	t.Helper()

	persister := &recordingPersister{}
	store := NewStore(domain.Desktop{}, persister, &sequentialIDs{}, nil)
	return store, persister
}

func newStoreWithWorkspace(t *testing.T) (*Store, *recordingPersister, domain.WorkspaceID) {
	t.Helper()

	store, persister := newTestStore(t)
	wsID := store.AddWorkspace("A")
	require.NotEmpty(t, wsID)
	return store, persister, wsID
}

func stickyNote(id domain.WindowID) NewWindow {
	cmd := NewWindowFromTemplate(domain.WidgetStickyNote)
	cmd.ID = id
	return cmd
}

func TestStoreAddWorkspaceCreatesDefaultProjectAndActivatesBoth(t *testing.T) {
	store, persister := newTestStore(t)

	wsID := store.AddWorkspace("A")

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Workspaces, 1)
	workspace := snapshot.Workspaces[0]
	assert.Equal(t, wsID, workspace.ID)
	assert.Equal(t, "A", workspace.Name)
	require.Len(t, workspace.Projects, 1)
	assert.Equal(t, domain.DefaultProjectName, workspace.Projects[0].Name)
	assert.Empty(t, workspace.Projects[0].Windows)
	assert.Equal(t, 0, workspace.Projects[0].MaxZIndex)
	assert.Equal(t, wsID, snapshot.ActiveWorkspaceID)
	assert.Equal(t, workspace.Projects[0].ID, snapshot.ActiveProjectID)
	assert.Equal(t, 1, persister.count())
}

func TestStoreDeleteWorkspaceFallsBackToFirstRemaining(t *testing.T) {
	store, _ := newTestStore(t)
	first := store.AddWorkspace("A")
	second := store.AddWorkspace("B")

	require.True(t, store.DeleteWorkspace(second))

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Workspaces, 1)
	assert.Equal(t, first, snapshot.ActiveWorkspaceID)
	assert.Equal(t, snapshot.Workspaces[0].Projects[0].ID, snapshot.ActiveProjectID)
}

func TestStoreDeleteInactiveWorkspaceKeepsSelection(t *testing.T) {
	store, _ := newTestStore(t)
	first := store.AddWorkspace("A")
	second := store.AddWorkspace("B")
	before := store.Snapshot()

	require.True(t, store.DeleteWorkspace(first))

	after := store.Snapshot()
	assert.Equal(t, second, after.ActiveWorkspaceID)
	assert.Equal(t, before.ActiveProjectID, after.ActiveProjectID)
}

func TestStoreDeleteLastWorkspaceClearsSelection(t *testing.T) {
	store, _, wsID := newStoreWithWorkspace(t)

	require.True(t, store.DeleteWorkspace(wsID))

	snapshot := store.Snapshot()
	assert.Empty(t, snapshot.Workspaces)
	assert.Empty(t, snapshot.ActiveWorkspaceID)
	assert.Empty(t, snapshot.ActiveProjectID)

	_, ok := store.ActiveProject()
	assert.False(t, ok)
	assert.Empty(t, store.AddWindow(stickyNote("")))
}

func TestStoreSetActiveWorkspaceSelectsFirstProject(t *testing.T) {
	store, _ := newTestStore(t)
	first := store.AddWorkspace("A")
	firstProject := store.Snapshot().ActiveProjectID
	store.AddProject(first, "second")
	store.AddWorkspace("B")

	require.True(t, store.SetActiveWorkspace(first))

	snapshot := store.Snapshot()
	assert.Equal(t, first, snapshot.ActiveWorkspaceID)
	assert.Equal(t, firstProject, snapshot.ActiveProjectID)
}

func TestStoreSetActiveWorkspaceOnCurrentResetsToFirstProject(t *testing.T) {
	store, persister := newTestStore(t)
	wsID := store.AddWorkspace("A")
	firstProject := store.Snapshot().ActiveProjectID
	second := store.AddProject(wsID, "second")
	require.Equal(t, second, store.Snapshot().ActiveProjectID)

	require.True(t, store.SetActiveWorkspace(wsID))
	assert.Equal(t, firstProject, store.Snapshot().ActiveProjectID)

	writes := persister.count()
	assert.False(t, store.SetActiveWorkspace(wsID))
	assert.Equal(t, writes, persister.count())
}

func TestStoreUnknownIDsAreSilentNoOps(t *testing.T) {
	store, persister, wsID := newStoreWithWorkspace(t)
	before := store.Snapshot()
	writes := persister.count()

	assert.False(t, store.DeleteWorkspace("missing"))
	assert.False(t, store.SetActiveWorkspace("missing"))
	assert.False(t, store.UpdateWorkspaceName("missing", "x"))
	assert.Empty(t, store.AddProject("missing", "x"))
	assert.False(t, store.DeleteProject(wsID, "missing"))
	assert.False(t, store.SetActiveProject(wsID, "missing"))
	assert.False(t, store.UpdateProjectName(wsID, "missing", "x"))
	assert.False(t, store.UpdateWindowPosition("missing", domain.Position{X: 1}))
	assert.False(t, store.UpdateWindowSize("missing", domain.Size{W: 1}))
	assert.False(t, store.ToggleMaximize("missing"))
	assert.False(t, store.FocusWindow("missing"))
	assert.False(t, store.CloseWindow("missing"))
	assert.False(t, store.UpdateWindowContent("missing", domain.Content{"a": 1}))

	assert.Equal(t, before, store.Snapshot())
	assert.Equal(t, writes, persister.count())
}

func TestStoreRenames(t *testing.T) {
	store, _, wsID := newStoreWithWorkspace(t)
	projectID := store.Snapshot().ActiveProjectID

	require.True(t, store.UpdateWorkspaceName(wsID, "Renamed"))
	require.True(t, store.UpdateProjectName(wsID, projectID, "Docs"))

	workspace, ok := store.ActiveWorkspace()
	require.True(t, ok)
	assert.Equal(t, "Renamed", workspace.Name)
	assert.Equal(t, "Docs", workspace.Projects[0].Name)
}

func TestStoreAddProjectActivatesProjectAndWorkspace(t *testing.T) {
	store, _ := newTestStore(t)
	first := store.AddWorkspace("A")
	store.AddWorkspace("B")

	projectID := store.AddProject(first, "Research")

	require.NotEmpty(t, projectID)
	snapshot := store.Snapshot()
	assert.Equal(t, first, snapshot.ActiveWorkspaceID)
	assert.Equal(t, projectID, snapshot.ActiveProjectID)

	project, ok := store.ActiveProject()
	require.True(t, ok)
	assert.Equal(t, "Research", project.Name)
	assert.Empty(t, project.Windows)
	assert.Equal(t, 0, project.MaxZIndex)
}

func TestStoreDeleteProjectRefusesLastProject(t *testing.T) {
	store, persister, wsID := newStoreWithWorkspace(t)
	only := store.Snapshot().ActiveProjectID
	writes := persister.count()

	assert.False(t, store.DeleteProject(wsID, only))

	workspace, ok := store.ActiveWorkspace()
	require.True(t, ok)
	assert.Len(t, workspace.Projects, 1)
	assert.Equal(t, writes, persister.count())
}

func TestStoreDeleteActiveProjectFallsBackToFirst(t *testing.T) {
	store, _, wsID := newStoreWithWorkspace(t)
	first := store.Snapshot().ActiveProjectID
	second := store.AddProject(wsID, "second")
	third := store.AddProject(wsID, "third")

	require.True(t, store.DeleteProject(wsID, third))
	assert.Equal(t, first, store.Snapshot().ActiveProjectID)

	require.True(t, store.DeleteProject(wsID, first))
	assert.Equal(t, second, store.Snapshot().ActiveProjectID)

	assert.False(t, store.DeleteProject(wsID, second))
	workspace, _ := store.ActiveWorkspace()
	assert.Len(t, workspace.Projects, 1)
}

func TestStoreSetActiveProjectAcrossWorkspaces(t *testing.T) {
	store, _ := newTestStore(t)
	first := store.AddWorkspace("A")
	firstProject := store.Snapshot().ActiveProjectID
	store.AddWorkspace("B")

	require.True(t, store.SetActiveProject(first, firstProject))
	assert.False(t, store.SetActiveProject(first, firstProject))

	snapshot := store.Snapshot()
	assert.Equal(t, first, snapshot.ActiveWorkspaceID)
	assert.Equal(t, firstProject, snapshot.ActiveProjectID)
}

func TestStoreAddWindowAssignsIncreasingZIndex(t *testing.T) {
	store, _, _ := newStoreWithWorkspace(t)

	for i := 1; i <= 5; i++ {
		id := store.AddWindow(stickyNote(""))
		require.NotEmpty(t, id)

		window, ok := store.Window(id)
		require.True(t, ok)
		assert.Equal(t, i, window.ZIndex)

		project, _ := store.ActiveProject()
		assert.Equal(t, i, project.MaxZIndex)
	}
}

func TestStoreAddWindowRejectsDuplicateID(t *testing.T) {
	store, persister, _ := newStoreWithWorkspace(t)
	require.Equal(t, domain.WindowID("w-a"), store.AddWindow(stickyNote("w-a")))
	writes := persister.count()

	assert.Empty(t, store.AddWindow(stickyNote("w-a")))
	assert.Len(t, store.Windows(), 1)
	assert.Equal(t, writes, persister.count())
}

func TestStoreAddWindowSkipsGeneratedIDsAlreadyInUse(t *testing.T) {
	store, _, _ := newStoreWithWorkspace(t)
	require.Equal(t, domain.WindowID("w-1"), store.AddWindow(stickyNote("w-1")))
	require.Equal(t, domain.WindowID("w-2"), store.AddWindow(stickyNote("w-2")))

	id := store.AddWindow(stickyNote(""))
	assert.Equal(t, domain.WindowID("w-3"), id)
	assert.Len(t, store.Windows(), 3)
}

func TestStoreAddWindowNormalizesContentAndMaximize(t *testing.T) {
	store, _, _ := newStoreWithWorkspace(t)

	id := store.AddWindow(NewWindow{
		Title:       "Raw",
		Type:        domain.WidgetCalculator,
		Position:    domain.Position{X: 5, Y: 6},
		Size:        domain.Size{W: 70, H: 80},
		IsMaximized: true,
	})

	window, ok := store.Window(id)
	require.True(t, ok)
	assert.NotNil(t, window.Content)
	assert.True(t, window.IsMaximized)
	assert.Equal(t, domain.Position{}, window.Position)
	require.NotNil(t, window.PreviousPosition)
	require.NotNil(t, window.PreviousSize)
	assert.Equal(t, domain.Position{X: 5, Y: 6}, *window.PreviousPosition)
	assert.Equal(t, domain.Size{W: 70, H: 80}, *window.PreviousSize)
}

func TestStoreFocusScenario(t *testing.T) {
	store, _, _ := newStoreWithWorkspace(t)
	w1 := store.AddWindow(stickyNote("W1"))
	w2 := store.AddWindow(stickyNote("W2"))

	first, _ := store.Window(w1)
	second, _ := store.Window(w2)
	require.Equal(t, 1, first.ZIndex)
	require.Equal(t, 2, second.ZIndex)

	require.True(t, store.FocusWindow(w1))

	first, _ = store.Window(w1)
	second, _ = store.Window(w2)
	project, _ := store.ActiveProject()
	assert.Equal(t, 3, first.ZIndex)
	assert.Equal(t, 2, second.ZIndex)
	assert.Equal(t, 3, project.MaxZIndex)
}

func TestStoreFocusAlwaysLandsOnTop(t *testing.T) {
	store, _, _ := newStoreWithWorkspace(t)
	ids := make([]domain.WindowID, 0, 4)
	for i := 0; i < 4; i++ {
		ids = append(ids, store.AddWindow(stickyNote("")))
	}

	for _, target := range []domain.WindowID{ids[2], ids[0], ids[0], ids[3], ids[1]} {
		require.True(t, store.FocusWindow(target))

		focused, _ := store.Window(target)
		for _, other := range store.Windows() {
			if other.ID == target {
				continue
			}
			assert.Greater(t, focused.ZIndex, other.ZIndex)
		}
	}

	order := store.WindowsByStackingOrder()
	assert.Equal(t, ids[1], order[len(order)-1].ID)
}

func TestStoreCloseWindowKeepsOtherZIndexes(t *testing.T) {
	store, _, _ := newStoreWithWorkspace(t)
	w1 := store.AddWindow(stickyNote("W1"))
	w2 := store.AddWindow(stickyNote("W2"))
	w3 := store.AddWindow(stickyNote("W3"))

	require.True(t, store.CloseWindow(w2))

	windows := store.Windows()
	require.Len(t, windows, 2)
	assert.Equal(t, w1, windows[0].ID)
	assert.Equal(t, 1, windows[0].ZIndex)
	assert.Equal(t, w3, windows[1].ID)
	assert.Equal(t, 3, windows[1].ZIndex)

	project, _ := store.ActiveProject()
	assert.Equal(t, 3, project.MaxZIndex)
	assert.Equal(t, 4, func() int {
		id := store.AddWindow(stickyNote(""))
		window, _ := store.Window(id)
		return window.ZIndex
	}())
}

func TestStoreMaximizeScenario(t *testing.T) {
	store, _, _ := newStoreWithWorkspace(t)
	w1 := store.AddWindow(NewWindow{
		ID:       "W1",
		Title:    "Notes",
		Type:     domain.WidgetStickyNote,
		Position: domain.Position{X: 40, Y: 60},
		Size:     domain.Size{W: 300, H: 200},
	})

	require.True(t, store.ToggleMaximize(w1))

	window, _ := store.Window(w1)
	assert.True(t, window.IsMaximized)
	assert.Equal(t, domain.Position{}, window.Position)
	require.NotNil(t, window.PreviousPosition)
	require.NotNil(t, window.PreviousSize)
	assert.Equal(t, domain.Position{X: 40, Y: 60}, *window.PreviousPosition)
	assert.Equal(t, domain.Size{W: 300, H: 200}, *window.PreviousSize)

	require.True(t, store.ToggleMaximize(w1))

	window, _ = store.Window(w1)
	assert.False(t, window.IsMaximized)
	assert.Equal(t, domain.Position{X: 40, Y: 60}, window.Position)
	assert.Equal(t, domain.Size{W: 300, H: 200}, window.Size)
	assert.Nil(t, window.PreviousPosition)
	assert.Nil(t, window.PreviousSize)
}

func TestStoreWindowOpsOnlyReachActiveProject(t *testing.T) {
	store, persister, wsID := newStoreWithWorkspace(t)
	firstProject := store.Snapshot().ActiveProjectID
	id := store.AddWindow(stickyNote("W1"))
	store.AddProject(wsID, "other")
	writes := persister.count()

	assert.False(t, store.UpdateWindowPosition(id, domain.Position{X: 9, Y: 9}))
	_, ok := store.Window(id)
	assert.False(t, ok)
	assert.Equal(t, writes, persister.count())

	location, ok := store.LocateWindow(id)
	require.True(t, ok)
	assert.Equal(t, wsID, location.WorkspaceID)
	assert.Equal(t, firstProject, location.ProjectID)

	assert.Empty(t, store.AddWindow(stickyNote("W1")), "ids are unique across projects")
}

func TestStoreUpdateWindowGeometry(t *testing.T) {
	store, _, _ := newStoreWithWorkspace(t)
	id := store.AddWindow(stickyNote(""))

	require.True(t, store.UpdateWindowPosition(id, domain.Position{X: -20, Y: 5000}))
	require.True(t, store.UpdateWindowSize(id, domain.Size{W: 1, H: 2}))

	window, _ := store.Window(id)
	assert.Equal(t, domain.Position{X: -20, Y: 5000}, window.Position)
	assert.Equal(t, domain.Size{W: 1, H: 2}, window.Size)
}

func TestStoreUpdateWindowContentMergesWithoutAliasingSnapshots(t *testing.T) {
	store, persister, _ := newStoreWithWorkspace(t)
	id := store.AddWindow(stickyNote(""))

	require.True(t, store.UpdateWindowContent(id, domain.Content{"text": "first"}))
	earlier := persister.last()
	require.True(t, store.UpdateWindowContent(id, domain.Content{"text": "second", "pinned": true}))

	content, ok := store.WindowContent(id)
	require.True(t, ok)
	assert.Equal(t, domain.Content{"text": "second", "color": "yellow", "pinned": true}, content)

	earlierWindow := earlier.Workspaces[0].Projects[0].Windows[0]
	assert.Equal(t, "first", earlierWindow.Content["text"])
	assert.NotContains(t, earlierWindow.Content, "pinned")
}

func TestStoreReadsReturnCopies(t *testing.T) {
	store, _, _ := newStoreWithWorkspace(t)
	id := store.AddWindow(stickyNote(""))

	content, _ := store.WindowContent(id)
	content["text"] = "mutated outside"
	windows := store.Windows()
	windows[0].Title = "mutated outside"

	window, _ := store.Window(id)
	assert.Equal(t, "", window.Content["text"])
	assert.Equal(t, "Sticky Note", window.Title)
}

func TestStoreEveryChangeSchedulesSnapshot(t *testing.T) {
	store, persister, _ := newStoreWithWorkspace(t)

	id := store.AddWindow(stickyNote(""))
	store.FocusWindow(id)
	store.ToggleMaximize(id)
	store.CloseWindow(id)

	assert.Equal(t, 5, persister.count())
	assert.Empty(t, persister.last().Workspaces[0].Projects[0].Windows)
}
