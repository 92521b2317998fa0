package toml

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/desk/internal/domain"
	"github.com/bnema/desk/internal/ports"
	"github.com/jonboulle/clockwork"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	desktopFileMode = 0o600
	desktopDirMode  = 0o700
	tempFilePattern = ".desktop-*.toml.tmp"
)

// Repository stores the whole desktop in a single TOML file. Every Save
// replaces the file atomically, so concurrent writers resolve to the last one.
type Repository struct {
	desktopPath string
	clock       clockwork.Clock
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var (
	_ ports.DesktopRepository = (*Repository)(nil)
	_ ports.DesktopResetter   = (*Repository)(nil)
)

func NewRepository(path string, clock clockwork.Clock) (*Repository, error) {
	if path == "" {
		return nil, errors.New("desktop path is empty")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	desktopPath, err := normalizeDesktopPath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{desktopPath: desktopPath, clock: clock, mu: lockForPath(desktopPath)}, nil
}

func (r *Repository) Path() string {
	return r.desktopPath
}

func (r *Repository) Load(ctx context.Context) (domain.Desktop, error) {
	if err := ctx.Err(); err != nil {
		return domain.Desktop{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Desktop{}, err
	}

	return fromSchema(file)
}

func (r *Repository) Save(ctx context.Context, desktop domain.Desktop) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := toSchema(desktop)
	if err != nil {
		return err
	}
	file.SavedAt = r.clock.Now().UTC().Format(time.RFC3339)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

// Reset removes the desktop file. A missing file is not an error.
func (r *Repository) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.desktopPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove desktop file: %w", err)
	}

	return nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.desktopPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, domain.ErrSlotNotFound
		}
		return fileSchema{}, fmt.Errorf("read desktop file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode desktop file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeDesktopPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve desktop path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.desktopPath), desktopDirMode); err != nil {
		return fmt.Errorf("create desktop directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode desktop file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.desktopPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp desktop file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp desktop file: %w", err)
	}

	if err := tempFile.Chmod(desktopFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp desktop file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp desktop file: %w", err)
	}

	if err := os.Rename(tempName, r.desktopPath); err != nil {
		return fmt.Errorf("replace desktop file: %w", err)
	}

	cleanup = false
	return nil
}

func toSchema(desktop domain.Desktop) (fileSchema, error) {
	file := fileSchema{
		Version:           currentSchemaVersion,
		ActiveWorkspaceID: string(desktop.ActiveWorkspaceID),
		ActiveProjectID:   string(desktop.ActiveProjectID),
		Workspaces:        make([]workspaceSchema, 0, len(desktop.Workspaces)),
	}

	for _, workspace := range desktop.Workspaces {
		encodedWorkspace := workspaceSchema{
			ID:       string(workspace.ID),
			Name:     workspace.Name,
			Projects: make([]projectSchema, 0, len(workspace.Projects)),
		}
		for _, project := range workspace.Projects {
			encodedProject := projectSchema{
				ID:        string(project.ID),
				Name:      project.Name,
				MaxZIndex: project.MaxZIndex,
				Windows:   make([]windowSchema, 0, len(project.Windows)),
			}
			for _, window := range project.Windows {
				encodedWindow, err := toWindowSchema(window)
				if err != nil {
					return fileSchema{}, err
				}
				encodedProject.Windows = append(encodedProject.Windows, encodedWindow)
			}
			encodedWorkspace.Projects = append(encodedWorkspace.Projects, encodedProject)
		}
		file.Workspaces = append(file.Workspaces, encodedWorkspace)
	}

	return file, nil
}

func toWindowSchema(window domain.Window) (windowSchema, error) {
	content := window.Content
	if content == nil {
		content = domain.Content{}
	}
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return windowSchema{}, fmt.Errorf("encode content of window %s: %w", window.ID, err)
	}

	encoded := windowSchema{
		ID:          string(window.ID),
		Title:       window.Title,
		Type:        string(window.Type),
		Position:    positionSchema{X: window.Position.X, Y: window.Position.Y},
		Size:        sizeSchema{W: window.Size.W, H: window.Size.H},
		IsMaximized: window.IsMaximized,
		ZIndex:      window.ZIndex,
		ContentJSON: string(contentJSON),
	}
	if window.PreviousPosition != nil {
		encoded.PreviousPosition = &positionSchema{X: window.PreviousPosition.X, Y: window.PreviousPosition.Y}
	}
	if window.PreviousSize != nil {
		encoded.PreviousSize = &sizeSchema{W: window.PreviousSize.W, H: window.PreviousSize.H}
	}

	return encoded, nil
}

func fromSchema(file fileSchema) (domain.Desktop, error) {
	desktop := domain.Desktop{
		ActiveWorkspaceID: domain.WorkspaceID(file.ActiveWorkspaceID),
		ActiveProjectID:   domain.ProjectID(file.ActiveProjectID),
		Workspaces:        make([]domain.Workspace, 0, len(file.Workspaces)),
	}

	for _, workspace := range file.Workspaces {
		decodedWorkspace := domain.Workspace{
			ID:       domain.WorkspaceID(workspace.ID),
			Name:     workspace.Name,
			Projects: make([]domain.Project, 0, len(workspace.Projects)),
		}
		for _, project := range workspace.Projects {
			decodedProject := domain.Project{
				ID:        domain.ProjectID(project.ID),
				Name:      project.Name,
				MaxZIndex: project.MaxZIndex,
				Windows:   make([]domain.Window, 0, len(project.Windows)),
			}
			for _, window := range project.Windows {
				decodedWindow, err := fromWindowSchema(window)
				if err != nil {
					return domain.Desktop{}, err
				}
				decodedProject.Windows = append(decodedProject.Windows, decodedWindow)
			}
			decodedWorkspace.Projects = append(decodedWorkspace.Projects, decodedProject)
		}
		desktop.Workspaces = append(desktop.Workspaces, decodedWorkspace)
	}

	return desktop, nil
}

func fromWindowSchema(window windowSchema) (domain.Window, error) {
	content := domain.Content{}
	if window.ContentJSON != "" {
		if err := json.Unmarshal([]byte(window.ContentJSON), &content); err != nil {
			return domain.Window{}, fmt.Errorf("decode content of window %s: %w", window.ID, err)
		}
	}

	decoded := domain.Window{
		ID:          domain.WindowID(window.ID),
		Title:       window.Title,
		Type:        domain.WidgetType(window.Type),
		Position:    domain.Position{X: window.Position.X, Y: window.Position.Y},
		Size:        domain.Size{W: window.Size.W, H: window.Size.H},
		IsMaximized: window.IsMaximized,
		ZIndex:      window.ZIndex,
		Content:     content,
	}
	if window.PreviousPosition != nil {
		decoded.PreviousPosition = &domain.Position{X: window.PreviousPosition.X, Y: window.PreviousPosition.Y}
	}
	if window.PreviousSize != nil {
		decoded.PreviousSize = &domain.Size{W: window.PreviousSize.W, H: window.PreviousSize.H}
	}

	return decoded, nil
}
