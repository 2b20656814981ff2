package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// ErrNoActiveWindow means the "active" window specifier was used while no
// window holds the input focus.
var ErrNoActiveWindow = errors.New("no window focused")

// WindowInfo describes a top-level window.
type WindowInfo struct {
	ID     uint32
	Name   string
	Mapped bool
}

// Show maps a window, making it visible. Stacking order is left alone.
func (c *Connection) Show(id uint32) error {
	if err := xproto.MapWindowChecked(c.Conn(), xproto.Window(id)).Check(); err != nil {
		return fmt.Errorf("failed to map window 0x%x: %w", id, err)
	}
	return nil
}

// Hide unmaps a window without destroying it.
func (c *Connection) Hide(id uint32) error {
	if err := xproto.UnmapWindowChecked(c.Conn(), xproto.Window(id)).Check(); err != nil {
		return fmt.Errorf("failed to unmap window 0x%x: %w", id, err)
	}
	return nil
}

// Mapped reports whether a window is currently viewable.
func (c *Connection) Mapped(id uint32) (bool, error) {
	attrs, err := xproto.GetWindowAttributes(c.Conn(), xproto.Window(id)).Reply()
	if err != nil {
		return false, fmt.Errorf("failed to get attributes of 0x%x: %w", id, err)
	}
	return attrs.MapState == xproto.MapStateViewable, nil
}

// TopLevelWindows enumerates the application windows under the root: direct
// clients plus WM frames wrapping a client (twm reparents applications into
// frame windows).
func (c *Connection) TopLevelWindows() ([]uint32, error) {
	tree, err := xproto.QueryTree(c.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}

	var windows []uint32
	for _, child := range tree.Children {
		if c.isApplicationWindow(child) {
			windows = append(windows, uint32(child))
		}
	}
	return windows, nil
}

// ListWindows returns info about every top-level application window.
func (c *Connection) ListWindows() ([]WindowInfo, error) {
	ids, err := c.TopLevelWindows()
	if err != nil {
		return nil, err
	}

	infos := make([]WindowInfo, 0, len(ids))
	for _, id := range ids {
		mapped, err := c.Mapped(id)
		if err != nil {
			mapped = false
		}
		infos = append(infos, WindowInfo{
			ID:     id,
			Name:   c.WindowName(id),
			Mapped: mapped,
		})
	}
	return infos, nil
}

// ActiveWindow returns the top-level ancestor of the input focus. Minimalist
// WMs focus the client, not the frame we track, so the focus is climbed up
// to the child of root. Returns ErrNoActiveWindow when focus is root,
// PointerRoot or None.
func (c *Connection) ActiveWindow() (uint32, error) {
	reply, err := xproto.GetInputFocus(c.Conn()).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to query input focus: %w", err)
	}

	focus := reply.Focus
	if focus == c.Root || focus <= xproto.Window(xproto.InputFocusPointerRoot) {
		return 0, ErrNoActiveWindow
	}

	top, err := c.toplevelAncestor(focus)
	if err != nil {
		return uint32(focus), nil
	}
	return uint32(top), nil
}

// toplevelAncestor walks up the tree until the parent is the root.
func (c *Connection) toplevelAncestor(win xproto.Window) (xproto.Window, error) {
	for {
		tree, err := xproto.QueryTree(c.Conn(), win).Reply()
		if err != nil {
			return 0, err
		}
		if tree.Parent == c.Root || tree.Parent == 0 {
			return win, nil
		}
		win = tree.Parent
	}
}

// isApplicationWindow filters out override-redirect windows (menus,
// tooltips), tiny toolkit helper windows, and anything that neither has
// WM_CLASS itself nor wraps a child that does.
func (c *Connection) isApplicationWindow(win xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.Conn(), win).Reply()
	if err != nil || attrs.OverrideRedirect {
		return false
	}

	geom, err := xproto.GetGeometry(c.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return false
	}
	if geom.Width <= 10 && geom.Height <= 10 {
		return false
	}

	if c.hasWMClass(win) {
		return true
	}

	// A twm frame has no WM_CLASS of its own but wraps a client that does.
	tree, err := xproto.QueryTree(c.Conn(), win).Reply()
	if err != nil {
		return false
	}
	for _, child := range tree.Children {
		if c.hasWMClass(child) {
			return true
		}
	}
	return false
}

func (c *Connection) hasWMClass(win xproto.Window) bool {
	_, err := icccm.WmClassGet(c.XUtil, win)
	return err == nil
}

// WindowName returns a window's title, trying _NET_WM_NAME then WM_NAME,
// then the same on the client child for WM frames. Falls back to the hex id.
func (c *Connection) WindowName(id uint32) string {
	win := xproto.Window(id)
	if name, ok := c.windowNameDirect(win); ok {
		return name
	}

	if tree, err := xproto.QueryTree(c.Conn(), win).Reply(); err == nil {
		for _, child := range tree.Children {
			if name, ok := c.windowNameDirect(child); ok {
				return name
			}
		}
	}
	return fmt.Sprintf("0x%x", id)
}

func (c *Connection) windowNameDirect(win xproto.Window) (string, bool) {
	if name, err := ewmh.WmNameGet(c.XUtil, win); err == nil && name != "" {
		return name, true
	}
	if name, err := icccm.WmNameGet(c.XUtil, win); err == nil && name != "" {
		return name, true
	}
	return "", false
}

// DestroyWindow destroys a window. Used by the popup and pager for their own
// windows only; application windows are never destroyed.
func (c *Connection) DestroyWindow(id uint32) error {
	if err := xproto.DestroyWindowChecked(c.Conn(), xproto.Window(id)).Check(); err != nil {
		return fmt.Errorf("failed to destroy window 0x%x: %w", id, err)
	}
	return nil
}
