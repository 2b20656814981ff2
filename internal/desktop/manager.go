package desktop

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/1broseidon/vdesk/internal/state"
	"github.com/1broseidon/vdesk/internal/x11"
)

// ErrUnknownWindow means a window specifier resolved to an id that no
// current top-level window carries.
var ErrUnknownWindow = errors.New("no such window")

// WindowSystem is the slice of the X11 adapter the manager needs. The
// concrete *x11.Connection satisfies it; tests substitute a fake.
type WindowSystem interface {
	ListWindows() ([]x11.WindowInfo, error)
	Show(id uint32) error
	Hide(id uint32) error
	ActiveWindow() (uint32, error)
	SetRootCardinal(name string, value uint32) error
}

// Manager runs one command against the persisted state: load under the
// store lock, reconcile against the live window list, apply the engine
// operation, save, then push the visibility diff to the window system.
type Manager struct {
	ws    WindowSystem
	store *state.Store
	log   *slog.Logger
}

// NewManager creates a manager. A nil logger disables logging.
func NewManager(ws WindowSystem, store *state.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{ws: ws, store: store, log: logger}
}

// Switch activates the given desktop (1-indexed).
func (m *Manager) Switch(target int) error {
	return m.mutate(func(s *state.State, live []uint32) (state.Diff, error) {
		return s.Switch(target, live)
	})
}

// Next activates the circular successor of the current desktop and returns
// its number.
func (m *Manager) Next() (int, error) {
	var target int
	err := m.mutate(func(s *state.State, live []uint32) (state.Diff, error) {
		var d state.Diff
		target, d = s.Next(live)
		return d, nil
	})
	return target, err
}

// Prev activates the circular predecessor of the current desktop and
// returns its number.
func (m *Manager) Prev() (int, error) {
	var target int
	err := m.mutate(func(s *state.State, live []uint32) (state.Diff, error) {
		var d state.Diff
		target, d = s.Prev(live)
		return d, nil
	})
	return target, err
}

// Move assigns a window to a desktop or makes it sticky. The window must be
// a live top-level window.
func (m *Manager) Move(id uint32, tag state.Tag) error {
	return m.mutate(func(s *state.State, live []uint32) (state.Diff, error) {
		found := false
		for _, w := range live {
			if w == id {
				found = true
				break
			}
		}
		if !found {
			return state.Diff{}, fmt.Errorf("%w: 0x%x", ErrUnknownWindow, id)
		}
		return s.MoveWindow(id, tag)
	})
}

// SetDesktops changes the number of desktops.
func (m *Manager) SetDesktops(count int) error {
	return m.mutate(func(s *state.State, live []uint32) (state.Diff, error) {
		return s.SetDesktopCount(count, live)
	})
}

// Snapshot loads the current state for read-only commands. No lock is
// taken: the atomic save guarantees a consistent file.
func (m *Manager) Snapshot() *state.State {
	return m.store.Load()
}

// WindowRow is one line of the windows listing.
type WindowRow struct {
	ID        uint32
	Name      string
	Tag       state.Tag
	Mapped    bool
	AppHidden bool
}

// Windows reconciles state against the live window list and returns a row
// per window, sorted by id. The reconciled state is persisted, like any
// other invocation that looked at the world.
func (m *Manager) Windows() ([]WindowRow, error) {
	var rows []WindowRow
	err := m.store.WithLock(func() error {
		s := m.store.Load()
		infos, err := m.ws.ListWindows()
		if err != nil {
			return err
		}
		reconcile(s, infos)
		if err := m.store.Save(s); err != nil {
			return err
		}

		rows = make([]WindowRow, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, WindowRow{
				ID:        info.ID,
				Name:      info.Name,
				Tag:       s.EffectiveTag(info.ID),
				Mapped:    info.Mapped,
				AppHidden: s.IsAppHidden(info.ID),
			})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
		return nil
	})
	return rows, err
}

// mutate is the shared load-reconcile-op-save-apply sequence, run under the
// store lock so overlapping invocations cannot lose each other's writes.
func (m *Manager) mutate(op func(s *state.State, live []uint32) (state.Diff, error)) error {
	return m.store.WithLock(func() error {
		s := m.store.Load()
		infos, err := m.ws.ListWindows()
		if err != nil {
			return err
		}
		live := reconcile(s, infos)

		before := s.Clone()
		diff, err := op(s, live)
		if err != nil {
			return err
		}

		// A failed op above never reaches the save; a no-op diff still
		// persists reconciliation changes (pruned dead windows etc.).
		if err := m.store.Save(s); err != nil {
			return err
		}
		m.syncRootProps(s, before)
		return m.apply(diff)
	})
}

// reconcile prunes dead windows and maintains the app-hidden set: a window
// that should be visible on the current desktop but is unmapped was hidden
// by its own application, and a mapped window is by definition not
// app-hidden anymore. Returns the live window ids.
func reconcile(s *state.State, infos []x11.WindowInfo) []uint32 {
	live := make([]uint32, 0, len(infos))
	for _, info := range infos {
		live = append(live, info.ID)
	}
	s.PruneDead(live)

	for _, info := range infos {
		if info.Mapped {
			s.SetAppHidden(info.ID, false)
		} else if s.VisibleOn(info.ID, s.Current) {
			s.SetAppHidden(info.ID, true)
		}
	}
	return live
}

// apply pushes the diff to the window system. Newcomers are mapped before
// leavers are unmapped so the root is never momentarily empty. Individual
// failures are collected, not fatal to the rest of the diff.
func (m *Manager) apply(diff state.Diff) error {
	var errs []error
	for _, id := range diff.Show {
		if err := m.ws.Show(id); err != nil {
			errs = append(errs, err)
		}
	}
	for _, id := range diff.Hide {
		if err := m.ws.Hide(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// syncRootProps mirrors current desktop and count into root window
// properties so the pager sees switches performed by other invocations.
// Best effort: property failures never fail the command.
func (m *Manager) syncRootProps(s, before *state.State) {
	if s.Current != before.Current {
		if err := m.ws.SetRootCardinal(x11.PropCurrentDesktop, uint32(s.Current)); err != nil {
			m.log.Warn("failed to publish current desktop", "err", err)
		}
	}
	if s.DesktopCount != before.DesktopCount {
		if err := m.ws.SetRootCardinal(x11.PropDesktopCount, uint32(s.DesktopCount)); err != nil {
			m.log.Warn("failed to publish desktop count", "err", err)
		}
	}
}
