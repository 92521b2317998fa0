package toml

import (
	"fmt"

	"github.com/bnema/desk/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version           int               `toml:"version"`
	SavedAt           string            `toml:"saved_at,omitempty"`
	ActiveWorkspaceID string            `toml:"active_workspace_id"`
	ActiveProjectID   string            `toml:"active_project_id"`
	Workspaces        []workspaceSchema `toml:"workspaces"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("%w: desktop schema version %d (current %d)", domain.ErrUnsupportedVersion, s.Version, currentSchemaVersion)
	}

	return nil
}

type workspaceSchema struct {
	ID       string          `toml:"id"`
	Name     string          `toml:"name"`
	Projects []projectSchema `toml:"projects"`
}

type projectSchema struct {
	ID        string         `toml:"id"`
	Name      string         `toml:"name"`
	MaxZIndex int            `toml:"max_z_index"`
	Windows   []windowSchema `toml:"windows"`
}

// windowSchema keeps content as a JSON document: widget state is free-form
// and may hold nulls or mixed arrays that TOML cannot express.
type windowSchema struct {
	ID               string          `toml:"id"`
	Title            string          `toml:"title"`
	Type             string          `toml:"type"`
	Position         positionSchema  `toml:"position"`
	Size             sizeSchema      `toml:"size"`
	IsMaximized      bool            `toml:"is_maximized"`
	ZIndex           int             `toml:"z_index"`
	ContentJSON      string          `toml:"content_json"`
	PreviousPosition *positionSchema `toml:"previous_position,omitempty"`
	PreviousSize     *sizeSchema     `toml:"previous_size,omitempty"`
}

type positionSchema struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

type sizeSchema struct {
	W float64 `toml:"w"`
	H float64 `toml:"h"`
}
