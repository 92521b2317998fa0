package domain

import "errors"

var (
	ErrSlotNotFound       = errors.New("slot not found")
	ErrUnknownWidgetType  = errors.New("unknown widget type")
	ErrEmptyName          = errors.New("name is required")
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrWindowNotFound     = errors.New("window not found")
	ErrNoActiveProject    = errors.New("no active project")
	ErrUnsupportedVersion = errors.New("unsupported record version")
)
