package desktop

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/vdesk/internal/state"
)

// ErrBadSpecifier means a window specifier that is neither "active" nor a
// hex or decimal window id.
var ErrBadSpecifier = errors.New("invalid window specifier")

// SpecKind enumerates the window specifier forms.
type SpecKind int

const (
	SpecActive SpecKind = iota
	SpecHex
	SpecDecimal
)

// Spec is a parsed window specifier. Parsing happens once at the CLI
// boundary; everything past this point works on resolved window ids.
type Spec struct {
	Kind SpecKind
	ID   uint32
}

// ParseSpec parses "active", a hex literal like 0x1400007, or a decimal
// window id.
func ParseSpec(text string) (Spec, error) {
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "active") {
		return Spec{Kind: SpecActive}, nil
	}

	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		id, err := strconv.ParseUint(text[2:], 16, 32)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q", ErrBadSpecifier, text)
		}
		return Spec{Kind: SpecHex, ID: uint32(id)}, nil
	}

	id, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrBadSpecifier, text)
	}
	return Spec{Kind: SpecDecimal, ID: uint32(id)}, nil
}

// Resolve turns a specifier into a window id, asking the window system for
// the focused window when the specifier is "active".
func (m *Manager) Resolve(sp Spec) (uint32, error) {
	if sp.Kind == SpecActive {
		return m.ws.ActiveWindow()
	}
	return sp.ID, nil
}

// ErrBadTag means a destination that is neither "sticky" nor a positive
// desktop number.
var ErrBadTag = errors.New("invalid desktop")

// ParseTag parses a move destination: "sticky" or 0 for all desktops, or a
// desktop number. Range checking against the desktop count happens later,
// inside the operation.
func ParseTag(text string) (state.Tag, error) {
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "sticky") {
		return state.Sticky, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadTag, text)
	}
	return state.Tag(n), nil
}
