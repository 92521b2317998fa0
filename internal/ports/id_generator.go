package ports

import (
	"github.com/bnema/desk/internal/domain"
	"github.com/google/uuid"
)

type IDGenerator interface {
	domain.IDSource
	NewWindowID() domain.WindowID
}

type UUIDGenerator struct{}

var _ IDGenerator = UUIDGenerator{}

func (UUIDGenerator) NewWorkspaceID() domain.WorkspaceID {
	return domain.WorkspaceID("workspace-" + uuid.NewString())
}

func (UUIDGenerator) NewProjectID() domain.ProjectID {
	return domain.ProjectID("project-" + uuid.NewString())
}

func (UUIDGenerator) NewWindowID() domain.WindowID {
	return domain.WindowID("window-" + uuid.NewString())
}
