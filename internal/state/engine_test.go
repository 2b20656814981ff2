package state

import (
	"errors"
	"reflect"
	"testing"
)

func TestSwitchOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		target int
	}{
		{"zero", 4, 0},
		{"negative", 4, -1},
		{"above count", 4, 5},
		{"single desktop above", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.count)
			before := s.Clone()

			_, err := s.Switch(tt.target, []uint32{0x100})
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("Switch(%d) error = %v, want ErrOutOfRange", tt.target, err)
			}
			if !reflect.DeepEqual(s, before) {
				t.Errorf("state mutated by failing switch: %+v != %+v", s, before)
			}
		})
	}
}

func TestSwitchIdempotent(t *testing.T) {
	s := New(4)
	s.Current = 2
	before := s.Clone()

	d, err := s.Switch(2, []uint32{0x100, 0x200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Empty() {
		t.Errorf("switch to current desktop produced diff %+v, want empty", d)
	}
	if !reflect.DeepEqual(s, before) {
		t.Errorf("switch to current desktop changed state")
	}
}

func TestSwitchDiffPartitionsWindows(t *testing.T) {
	s := New(4)
	s.assign(0x1, Tag(3))
	s.assign(0x2, Sticky)
	// 0x3 unassigned: effective desktop 1.

	d, err := s.Switch(3, []uint32{0x1, 0x2, 0x3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := d.Show, []uint32{0x1, 0x2}; !reflect.DeepEqual(got, want) {
		t.Errorf("show = %v, want %v", got, want)
	}
	if got, want := d.Hide, []uint32{0x3}; !reflect.DeepEqual(got, want) {
		t.Errorf("hide = %v, want %v", got, want)
	}
	if s.Current != 3 {
		t.Errorf("current = %d, want 3", s.Current)
	}
}

func TestNextPrevCircularity(t *testing.T) {
	for _, count := range []int{1, 2, 4, 7} {
		s := New(count)
		s.Current = 1

		for i := 0; i < count; i++ {
			s.Next(nil)
		}
		if s.Current != 1 {
			t.Errorf("count=%d: %d×next ended on %d, want 1", count, count, s.Current)
		}

		for i := 0; i < count; i++ {
			s.Prev(nil)
		}
		if s.Current != 1 {
			t.Errorf("count=%d: %d×prev ended on %d, want 1", count, count, s.Current)
		}
	}
}

func TestNextPrevWrapEndpoints(t *testing.T) {
	s := New(4)
	s.Current = 4
	if got, _ := s.Next(nil); got != 1 {
		t.Errorf("next from 4/4 = %d, want 1", got)
	}
	s.Current = 1
	if got, _ := s.Prev(nil); got != 4 {
		t.Errorf("prev from 1/4 = %d, want 4", got)
	}
}

func TestMoveWindowOutOfRange(t *testing.T) {
	s := New(4)
	before := s.Clone()

	_, err := s.MoveWindow(0x100, Tag(5))
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("move to desktop 5 of 4: error = %v, want ErrOutOfRange", err)
	}
	if !reflect.DeepEqual(s, before) {
		t.Errorf("state mutated by failing move")
	}
}

func TestMoveWindowVisibilityDiff(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		setup    func(s *State)
		to       Tag
		wantShow []uint32
		wantHide []uint32
	}{
		{
			name:    "away from current hides",
			current: 2,
			setup:   func(s *State) { s.assign(0x1, Tag(2)) },
			to:      Tag(3),
			wantHide: []uint32{0x1},
		},
		{
			name:     "onto current shows",
			current:  2,
			setup:    func(s *State) { s.assign(0x1, Tag(3)) },
			to:       Tag(2),
			wantShow: []uint32{0x1},
		},
		{
			name:     "sticky shows when hidden elsewhere",
			current:  2,
			setup:    func(s *State) { s.assign(0x1, Tag(3)) },
			to:       Sticky,
			wantShow: []uint32{0x1},
		},
		{
			name:    "behind-the-scenes move is invisible",
			current: 1,
			setup:   func(s *State) { s.assign(0x1, Tag(3)) },
			to:      Tag(4),
		},
		{
			name:    "sticky stays visible, empty diff",
			current: 2,
			setup:   func(s *State) { s.assign(0x1, Sticky) },
			to:      Sticky,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(4)
			s.Current = tt.current
			if tt.setup != nil {
				tt.setup(s)
			}

			d, err := s.MoveWindow(0x1, tt.to)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(d.Show, tt.wantShow) {
				t.Errorf("show = %v, want %v", d.Show, tt.wantShow)
			}
			if !reflect.DeepEqual(d.Hide, tt.wantHide) {
				t.Errorf("hide = %v, want %v", d.Hide, tt.wantHide)
			}
			if got := s.EffectiveTag(0x1); got != tt.to {
				t.Errorf("effective tag = %v, want %v", got, tt.to)
			}
		})
	}
}

func TestMoveToDefaultDesktopRemovesAssignment(t *testing.T) {
	s := New(4)
	s.assign(0x1, Tag(3))

	if _, err := s.MoveWindow(0x1, Tag(DefaultDesktop)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.Assigned(0x1); ok {
		t.Errorf("assignment to the implicit default should not be stored")
	}
	if got := s.EffectiveTag(0x1); got != Tag(DefaultDesktop) {
		t.Errorf("effective tag = %v, want default desktop", got)
	}
}

func TestMoveClearsAppHidden(t *testing.T) {
	s := New(4)
	s.SetAppHidden(0x1, true)

	d, err := s.MoveWindow(0x1, Tag(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.IsAppHidden(0x1) {
		t.Errorf("move should clear the app-hidden mark")
	}
	// Clearing app-hidden on the current desktop makes it visible again.
	if got, want := d.Show, []uint32{0x1}; !reflect.DeepEqual(got, want) {
		t.Errorf("show = %v, want %v", got, want)
	}
}

func TestSetDesktopCountInvalid(t *testing.T) {
	s := New(4)
	for _, count := range []int{0, -3} {
		if _, err := s.SetDesktopCount(count, nil); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("SetDesktopCount(%d) error = %v, want ErrInvalidCount", count, err)
		}
	}
	if s.DesktopCount != 4 {
		t.Errorf("count changed by failing call: %d", s.DesktopCount)
	}
}

func TestSetDesktopCountClampsCurrent(t *testing.T) {
	s := New(4)
	s.Current = 4
	s.assign(0x1, Tag(2))

	d, err := s.SetDesktopCount(2, []uint32{0x1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Current != 2 {
		t.Errorf("current = %d, want clamped to 2", s.Current)
	}
	// The clamp is a derived switch: window on desktop 2 becomes visible.
	if got, want := d.Show, []uint32{0x1}; !reflect.DeepEqual(got, want) {
		t.Errorf("show = %v, want %v", got, want)
	}
}

func TestStrandingAndRecovery(t *testing.T) {
	s := New(4)
	s.assign(0x1, Tag(4))

	if _, err := s.SetDesktopCount(2, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := s.Assigned(0x1); !ok || got != Tag(4) {
		t.Fatalf("assignment after reduction = %v (present=%v), want stranded on 4", got, ok)
	}

	if _, err := s.SetDesktopCount(4, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.EffectiveTag(0x1); got != Tag(4) {
		t.Errorf("effective tag after recovery = %v, want 4", got)
	}
}

func TestStickySurvivesCountChanges(t *testing.T) {
	s := New(4)
	s.assign(0x1, Sticky)

	for _, count := range []int{1, 9, 2, 4} {
		if _, err := s.SetDesktopCount(count, nil); err != nil {
			t.Fatalf("SetDesktopCount(%d): %v", count, err)
		}
		if got := s.EffectiveTag(0x1); got != Sticky {
			t.Fatalf("after count=%d: tag = %v, want sticky", count, got)
		}
	}
}

// The concrete scenario from the design notes: fresh state, grow to four
// desktops, park on 3, make a window sticky, switch back to 1.
func TestStickyScenario(t *testing.T) {
	const win = uint32(0x1400007)
	s := New(1)

	if _, err := s.SetDesktopCount(4, nil); err != nil {
		t.Fatalf("set-desktops 4: %v", err)
	}
	if _, err := s.Switch(3, []uint32{win}); err != nil {
		t.Fatalf("switch 3: %v", err)
	}
	if _, err := s.MoveWindow(win, Sticky); err != nil {
		t.Fatalf("move sticky: %v", err)
	}

	d, err := s.Switch(1, []uint32{win})
	if err != nil {
		t.Fatalf("switch 1: %v", err)
	}
	if got, want := d.Show, []uint32{win}; !reflect.DeepEqual(got, want) {
		t.Errorf("sticky window not shown on switch: show = %v", d.Show)
	}

	tags := s.WindowTags([]uint32{win})
	if len(tags) != 1 || tags[0].Tag != Sticky {
		t.Errorf("WindowTags = %+v, want sticky for 0x%x", tags, win)
	}
}

// Range invariant: current stays within [1, count] across arbitrary
// operation sequences.
func TestRangeInvariant(t *testing.T) {
	s := New(3)
	ops := []func(){
		func() { s.Switch(2, nil) },
		func() { s.Next(nil) },
		func() { s.SetDesktopCount(1, nil) },
		func() { s.Prev(nil) },
		func() { s.SetDesktopCount(5, nil) },
		func() { s.Switch(5, nil) },
		func() { s.SetDesktopCount(2, nil) },
		func() { s.Next(nil) },
		func() { s.Prev(nil) },
	}
	for i, op := range ops {
		op()
		if s.Current < 1 || s.Current > s.DesktopCount {
			t.Fatalf("after op %d: current=%d count=%d violates invariant", i, s.Current, s.DesktopCount)
		}
	}
}

func TestPruneDeadKeepsLiveAndStranded(t *testing.T) {
	s := New(4)
	s.assign(0x1, Tag(4)) // live, stranded later
	s.assign(0x2, Tag(2)) // dead
	s.SetAppHidden(0x2, true)
	s.SetAppHidden(0x3, true) // dead, only app-hidden

	s.SetDesktopCount(2, nil)
	s.PruneDead([]uint32{0x1})

	if _, ok := s.Assigned(0x1); !ok {
		t.Errorf("live stranded assignment was pruned")
	}
	if _, ok := s.Assigned(0x2); ok {
		t.Errorf("dead assignment survived prune")
	}
	if s.IsAppHidden(0x2) || s.IsAppHidden(0x3) {
		t.Errorf("dead app-hidden marks survived prune")
	}
}

func TestWindowTagsSorted(t *testing.T) {
	s := New(4)
	s.assign(0x30, Tag(2))
	s.assign(0x10, Sticky)

	tags := s.WindowTags([]uint32{0x30, 0x20, 0x10})
	want := []WindowTag{
		{ID: 0x10, Tag: Sticky},
		{ID: 0x20, Tag: Tag(DefaultDesktop)},
		{ID: 0x30, Tag: Tag(2)},
	}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("WindowTags = %+v, want %+v", tags, want)
	}
}

func TestTagString(t *testing.T) {
	if got := Sticky.String(); got != "sticky" {
		t.Errorf("Sticky.String() = %q", got)
	}
	if got := Tag(3).String(); got != "3" {
		t.Errorf("Tag(3).String() = %q", got)
	}
}
