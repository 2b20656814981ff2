package mcp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/1broseidon/vdesk/internal/desktop"
	"github.com/1broseidon/vdesk/internal/state"
	"github.com/1broseidon/vdesk/internal/x11"
)

// fakeWindowSystem serves a fixed window list and records X side effects.
type fakeWindowSystem struct {
	windows []x11.WindowInfo
	active  uint32

	shown  []uint32
	hidden []uint32
	props  map[string]uint32
}

func newFakeWS(windows ...x11.WindowInfo) *fakeWindowSystem {
	return &fakeWindowSystem{windows: windows, props: make(map[string]uint32)}
}

func (f *fakeWindowSystem) ListWindows() ([]x11.WindowInfo, error) {
	return append([]x11.WindowInfo(nil), f.windows...), nil
}

func (f *fakeWindowSystem) Show(id uint32) error {
	f.shown = append(f.shown, id)
	return nil
}

func (f *fakeWindowSystem) Hide(id uint32) error {
	f.hidden = append(f.hidden, id)
	return nil
}

func (f *fakeWindowSystem) ActiveWindow() (uint32, error) {
	if f.active == 0 {
		return 0, x11.ErrNoActiveWindow
	}
	return f.active, nil
}

func (f *fakeWindowSystem) SetRootCardinal(name string, value uint32) error {
	f.props[name] = value
	return nil
}

func newTestServer(t *testing.T, ws *fakeWindowSystem) *Server {
	t.Helper()
	store := state.NewStore(filepath.Join(t.TempDir(), "state.json"), 4)
	return NewServer(desktop.NewManager(ws, store, nil), nil)
}

func TestSwitchDesktopTool(t *testing.T) {
	ws := newFakeWS(
		x11.WindowInfo{ID: 0x100, Name: "xterm", Mapped: true},
	)
	s := newTestServer(t, ws)

	_, out, err := s.handleSwitchDesktop(context.Background(), nil, SwitchDesktopInput{Desktop: 3})
	if err != nil {
		t.Fatalf("switch_desktop: %v", err)
	}
	if out.Desktop != 3 {
		t.Fatalf("desktop = %d, want 3", out.Desktop)
	}
	if got := s.mgr.Snapshot().CurrentDesktop(); got != 3 {
		t.Fatalf("persisted current = %d, want 3", got)
	}
	// 0x100 lives on desktop 1 and must be hidden.
	if len(ws.hidden) != 1 || ws.hidden[0] != 0x100 {
		t.Fatalf("hidden = %v, want [0x100]", ws.hidden)
	}
}

func TestSwitchDesktopToolOutOfRange(t *testing.T) {
	s := newTestServer(t, newFakeWS())
	_, _, err := s.handleSwitchDesktop(context.Background(), nil, SwitchDesktopInput{Desktop: 9})
	if !errors.Is(err, state.ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
}

func TestNextPrevTools(t *testing.T) {
	s := newTestServer(t, newFakeWS())

	_, next, err := s.handleNextDesktop(context.Background(), nil, NextDesktopInput{})
	if err != nil {
		t.Fatalf("next_desktop: %v", err)
	}
	if next.Desktop != 2 {
		t.Fatalf("next = %d, want 2", next.Desktop)
	}

	_, prev, err := s.handlePrevDesktop(context.Background(), nil, PrevDesktopInput{})
	if err != nil {
		t.Fatalf("prev_desktop: %v", err)
	}
	if prev.Desktop != 1 {
		t.Fatalf("prev = %d, want 1", prev.Desktop)
	}
}

func TestMoveWindowTool(t *testing.T) {
	ws := newFakeWS(
		x11.WindowInfo{ID: 0x2a, Name: "emacs", Mapped: true},
	)
	s := newTestServer(t, ws)

	_, out, err := s.handleMoveWindow(context.Background(), nil, MoveWindowInput{Window: "0x2a", Desktop: "2"})
	if err != nil {
		t.Fatalf("move_window: %v", err)
	}
	if out.Window != "0x2a" || out.Desktop != "2" {
		t.Fatalf("out = %+v", out)
	}
	if len(ws.hidden) != 1 || ws.hidden[0] != 0x2a {
		t.Fatalf("hidden = %v, want [0x2a]", ws.hidden)
	}
}

func TestMoveWindowToolDefaultsToActive(t *testing.T) {
	ws := newFakeWS(
		x11.WindowInfo{ID: 0x2a, Name: "emacs", Mapped: true},
	)
	ws.active = 0x2a
	s := newTestServer(t, ws)

	_, out, err := s.handleMoveWindow(context.Background(), nil, MoveWindowInput{Desktop: "sticky"})
	if err != nil {
		t.Fatalf("move_window: %v", err)
	}
	if out.Window != "0x2a" || out.Desktop != "sticky" {
		t.Fatalf("out = %+v", out)
	}
}

func TestMoveWindowToolBadDestination(t *testing.T) {
	s := newTestServer(t, newFakeWS())
	_, _, err := s.handleMoveWindow(context.Background(), nil, MoveWindowInput{Window: "0x2a", Desktop: "banana"})
	if !errors.Is(err, desktop.ErrBadTag) {
		t.Fatalf("err = %v, want ErrBadTag", err)
	}
}

func TestListDesktopsTool(t *testing.T) {
	s := newTestServer(t, newFakeWS())
	if err := s.mgr.Switch(2); err != nil {
		t.Fatalf("switch: %v", err)
	}

	_, out, err := s.handleListDesktops(context.Background(), nil, ListDesktopsInput{})
	if err != nil {
		t.Fatalf("list_desktops: %v", err)
	}
	if len(out.Desktops) != 4 {
		t.Fatalf("desktops = %d, want 4", len(out.Desktops))
	}
	for _, d := range out.Desktops {
		if d.Current != (d.Desktop == 2) {
			t.Fatalf("desktop %d current = %v", d.Desktop, d.Current)
		}
	}
}

func TestCurrentDesktopTool(t *testing.T) {
	s := newTestServer(t, newFakeWS())
	_, out, err := s.handleCurrentDesktop(context.Background(), nil, CurrentDesktopInput{})
	if err != nil {
		t.Fatalf("current_desktop: %v", err)
	}
	if out.Desktop != 1 || out.Count != 4 {
		t.Fatalf("out = %+v, want desktop 1 of 4", out)
	}
}

func TestListWindowsTool(t *testing.T) {
	ws := newFakeWS(
		x11.WindowInfo{ID: 0x10, Name: "xterm", Mapped: true},
		x11.WindowInfo{ID: 0x20, Name: "emacs", Mapped: true},
	)
	s := newTestServer(t, ws)
	if err := s.mgr.Move(0x20, state.Sticky); err != nil {
		t.Fatalf("move: %v", err)
	}

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(out.Windows) != 2 {
		t.Fatalf("windows = %d, want 2", len(out.Windows))
	}
	if out.Windows[0].ID != "0x10" || out.Windows[0].Desktop != "1" {
		t.Fatalf("windows[0] = %+v", out.Windows[0])
	}
	if out.Windows[1].ID != "0x20" || out.Windows[1].Desktop != "sticky" {
		t.Fatalf("windows[1] = %+v", out.Windows[1])
	}
}
