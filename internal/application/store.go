package application

import (
	"sync"

	"github.com/bnema/desk/internal/domain"
	"github.com/bnema/desk/internal/ports"
	"github.com/rs/zerolog"
)

// Persister receives a private snapshot after every state change.
// *autosave.Autosaver satisfies it.
type Persister interface {
	Schedule(snapshot domain.Desktop)
}

// Store is the single source of truth for the workspace/project/window tree
// and the active selection. Every operation applies fully before returning.
// Operations that cannot apply (unknown ids, no active project, deleting the
// last project) leave the tree untouched, skip persistence and report false.
type Store struct {
	mu        sync.RWMutex
	desktop   domain.Desktop
	ids       ports.IDGenerator
	persister Persister
	log       zerolog.Logger
}

func NewStore(initial domain.Desktop, persister Persister, ids ports.IDGenerator, logger *zerolog.Logger) *Store {
	if persister == nil {
		persister = discardPersister{}
	}
	if ids == nil {
		ids = ports.UUIDGenerator{}
	}
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}

	return &Store{
		desktop:   initial.Clone(),
		ids:       ids,
		persister: persister,
		log:       log,
	}
}

func (s *Store) mutate(op string, apply func(d *domain.Desktop) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !apply(&s.desktop) {
		s.log.Trace().Str("op", op).Msg("store operation skipped")
		return false
	}

	s.log.Trace().Str("op", op).Msg("store operation applied")
	s.persister.Schedule(s.desktop.Clone())
	return true
}

// mutateWindow resolves id inside the active project only.
func (s *Store) mutateWindow(op string, id domain.WindowID, apply func(p *domain.Project, w *domain.Window) bool) bool {
	return s.mutate(op, func(d *domain.Desktop) bool {
		project := activeProject(d)
		if project == nil {
			return false
		}
		idx := project.WindowIndex(id)
		if idx < 0 {
			return false
		}

		return apply(project, &project.Windows[idx])
	})
}

func activeProject(d *domain.Desktop) *domain.Project {
	wsIdx, projectIdx := d.ActiveIndices()
	if wsIdx < 0 || projectIdx < 0 {
		return nil
	}

	return &d.Workspaces[wsIdx].Projects[projectIdx]
}

type discardPersister struct{}

func (discardPersister) Schedule(domain.Desktop) {}
