package state

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrOutOfRange means a target desktop outside [1, DesktopCount].
	ErrOutOfRange = errors.New("desktop out of range")
	// ErrInvalidCount means a requested desktop count below 1.
	ErrInvalidCount = errors.New("desktop count must be at least 1")
)

// Diff lists the windows to show and the windows to hide as the result of a
// state transition. It is the only thing the X11 adapter consumes, so state
// computation stays testable without a display.
type Diff struct {
	Show []uint32
	Hide []uint32
}

// Empty reports whether the diff changes nothing.
func (d Diff) Empty() bool {
	return len(d.Show) == 0 && len(d.Hide) == 0
}

// visibilityDiff partitions the given windows by visibility on a desktop.
func (s *State) visibilityDiff(desktop int, windows []uint32) Diff {
	var d Diff
	for _, id := range windows {
		if s.VisibleOn(id, desktop) {
			d.Show = append(d.Show, id)
		} else {
			d.Hide = append(d.Hide, id)
		}
	}
	return d
}

// Switch makes target the current desktop and returns the visibility diff
// over the supplied live windows. Switching to the current desktop is a
// successful no-op with an empty diff. The state is untouched on error.
func (s *State) Switch(target int, windows []uint32) (Diff, error) {
	if target < 1 || target > s.DesktopCount {
		return Diff{}, fmt.Errorf("%w: %d (valid range 1-%d)", ErrOutOfRange, target, s.DesktopCount)
	}
	if target == s.Current {
		return Diff{}, nil
	}
	s.Current = target
	return s.visibilityDiff(target, windows), nil
}

// Next switches to the circular successor of the current desktop and
// returns the new desktop number. Never fails.
func (s *State) Next(windows []uint32) (int, Diff) {
	target := s.Current%s.DesktopCount + 1
	d, _ := s.Switch(target, windows)
	return target, d
}

// Prev switches to the circular predecessor of the current desktop and
// returns the new desktop number. Never fails.
func (s *State) Prev(windows []uint32) (int, Diff) {
	target := s.Current - 1
	if target < 1 {
		target = s.DesktopCount
	}
	d, _ := s.Switch(target, windows)
	return target, d
}

// MoveWindow assigns a window to a desktop (or Sticky) and clears its
// app-hidden mark. The diff only ever concerns the moved window: it is shown
// when the move makes it visible on the current desktop, hidden when the
// move takes it off the current desktop, and untouched when the move happens
// on a desktop the user is not looking at.
func (s *State) MoveWindow(id uint32, t Tag) (Diff, error) {
	if t != Sticky && (int(t) < 1 || int(t) > s.DesktopCount) {
		return Diff{}, fmt.Errorf("%w: %d (valid range 0-%d, 0 = sticky)", ErrOutOfRange, int(t), s.DesktopCount)
	}
	wasVisible := s.VisibleOn(id, s.Current)
	s.assign(id, t)
	s.SetAppHidden(id, false)
	nowVisible := s.VisibleOn(id, s.Current)

	var d Diff
	switch {
	case nowVisible && !wasVisible:
		d.Show = []uint32{id}
	case wasVisible && !nowVisible:
		d.Hide = []uint32{id}
	}
	return d, nil
}

// SetDesktopCount changes the number of desktops. When the current desktop
// falls beyond the new count it is clamped via a derived Switch, whose diff
// is returned. Assignments to desktops beyond the new count are deliberately
// left stranded rather than deleted: a later increase restores them, so a
// transient reduction never destroys the user's layout.
func (s *State) SetDesktopCount(count int, windows []uint32) (Diff, error) {
	if count < 1 {
		return Diff{}, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	s.DesktopCount = count
	if s.Current > count {
		return s.Switch(count, windows)
	}
	return Diff{}, nil
}

// CurrentDesktop returns the active desktop (1-indexed).
func (s *State) CurrentDesktop() int {
	return s.Current
}

// DesktopList returns all desktop numbers in order.
func (s *State) DesktopList() []int {
	out := make([]int, s.DesktopCount)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// WindowTag pairs a window with its effective tag.
type WindowTag struct {
	ID  uint32
	Tag Tag
}

// WindowTags returns the effective tag for each given window, sorted by
// window id.
func (s *State) WindowTags(windows []uint32) []WindowTag {
	out := make([]WindowTag, 0, len(windows))
	for _, id := range windows {
		out = append(out, WindowTag{ID: id, Tag: s.EffectiveTag(id)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
