package state

import (
	"sort"
	"strconv"
)

// DefaultDesktop is the desktop a window belongs to when it has no explicit
// assignment. Assignments to it are not stored.
const DefaultDesktop = 1

// Tag identifies where a window lives: a specific 1-indexed desktop, or
// Sticky for "visible on every desktop".
type Tag int

// Sticky marks a window as visible regardless of the current desktop.
// It is a distinguished tag, not a desktop index, and is unaffected by
// desktop-count changes.
const Sticky Tag = 0

// IsSticky reports whether the tag is the sticky marker.
func (t Tag) IsSticky() bool { return t == Sticky }

func (t Tag) String() string {
	if t == Sticky {
		return "sticky"
	}
	return strconv.Itoa(int(t))
}

// State is the persisted desktop aggregate: how many desktops exist, which
// one is active, and which desktop each explicitly-moved window belongs to.
// Windows absent from Assignments belong to DefaultDesktop.
//
// AppHidden tracks windows that were hidden by their own application rather
// than by a desktop switch; they are never shown by a switch.
type State struct {
	DesktopCount int            `json:"desktop_count"`
	Current      int            `json:"current_desktop"`
	Assignments  map[string]Tag `json:"assignments"`
	AppHidden    []string       `json:"app_hidden,omitempty"`
}

// New returns a fresh state with the given number of desktops, active
// desktop 1 and no assignments. Counts below 1 are raised to 1.
func New(desktops int) *State {
	if desktops < 1 {
		desktops = 1
	}
	return &State{
		DesktopCount: desktops,
		Current:      1,
		Assignments:  make(map[string]Tag),
	}
}

// key converts a window id to its persisted map key. Window ids are stored
// as decimal strings so the JSON form round-trips without precision loss.
func key(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Assigned returns the explicit assignment for a window, if any.
func (s *State) Assigned(id uint32) (Tag, bool) {
	t, ok := s.Assignments[key(id)]
	return t, ok
}

// EffectiveTag returns the desktop a window is considered to belong to:
// its explicit assignment, or DefaultDesktop when it has none.
func (s *State) EffectiveTag(id uint32) Tag {
	if t, ok := s.Assignments[key(id)]; ok {
		return t
	}
	return Tag(DefaultDesktop)
}

// assign records an explicit assignment. Assigning the implicit default
// removes the entry instead, so the file never stores redundant defaults.
func (s *State) assign(id uint32, t Tag) {
	if s.Assignments == nil {
		s.Assignments = make(map[string]Tag)
	}
	if t == Tag(DefaultDesktop) {
		delete(s.Assignments, key(id))
		return
	}
	s.Assignments[key(id)] = t
}

// VisibleOn reports whether a window should be visible when the given
// desktop is active. App-hidden windows are never visible.
func (s *State) VisibleOn(id uint32, desktop int) bool {
	if s.IsAppHidden(id) {
		return false
	}
	t := s.EffectiveTag(id)
	return t == Sticky || int(t) == desktop
}

// IsAppHidden reports whether the window was hidden by its application.
func (s *State) IsAppHidden(id uint32) bool {
	k := key(id)
	for _, h := range s.AppHidden {
		if h == k {
			return true
		}
	}
	return false
}

// SetAppHidden marks or unmarks a window as hidden by its application.
func (s *State) SetAppHidden(id uint32, hidden bool) {
	k := key(id)
	for i, h := range s.AppHidden {
		if h == k {
			if !hidden {
				s.AppHidden = append(s.AppHidden[:i], s.AppHidden[i+1:]...)
			}
			return
		}
	}
	if hidden {
		s.AppHidden = append(s.AppHidden, k)
		sort.Strings(s.AppHidden)
	}
}

// PruneDead drops assignments and app-hidden marks for windows that are no
// longer alive. Stranded assignments (desktops beyond the current count)
// are kept as long as their window exists.
func (s *State) PruneDead(live []uint32) {
	alive := make(map[string]struct{}, len(live))
	for _, id := range live {
		alive[key(id)] = struct{}{}
	}
	for k := range s.Assignments {
		if _, ok := alive[k]; !ok {
			delete(s.Assignments, k)
		}
	}
	kept := s.AppHidden[:0]
	for _, k := range s.AppHidden {
		if _, ok := alive[k]; ok {
			kept = append(kept, k)
		}
	}
	s.AppHidden = kept
	if len(s.AppHidden) == 0 {
		s.AppHidden = nil
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	out := &State{
		DesktopCount: s.DesktopCount,
		Current:      s.Current,
		Assignments:  make(map[string]Tag, len(s.Assignments)),
	}
	for k, v := range s.Assignments {
		out.Assignments[k] = v
	}
	if len(s.AppHidden) > 0 {
		out.AppHidden = append([]string(nil), s.AppHidden...)
	}
	return out
}

// normalize repairs a state loaded from disk so the range invariant holds
// even for files written by hand or by older versions.
func (s *State) normalize(defaultDesktops int) {
	if s.DesktopCount < 1 {
		s.DesktopCount = defaultDesktops
		if s.DesktopCount < 1 {
			s.DesktopCount = 1
		}
	}
	if s.Current < 1 {
		s.Current = 1
	}
	if s.Current > s.DesktopCount {
		s.Current = s.DesktopCount
	}
	if s.Assignments == nil {
		s.Assignments = make(map[string]Tag)
	}
}
