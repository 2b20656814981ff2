// Package pager implements the persistent desktop pager: a small toolbar
// with one clickable cell per desktop. It is the only long-lived vdesk
// process; every mutation it performs goes through the same
// load-mutate-save sequence as a one-shot invocation, and it learns about
// switches made by other invocations through root property notifications.
package pager

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/vdesk/internal/config"
	"github.com/1broseidon/vdesk/internal/desktop"
	"github.com/1broseidon/vdesk/internal/state"
	"github.com/1broseidon/vdesk/internal/x11"
)

// X11 core mouse buttons.
const (
	buttonLeft       = 1
	buttonRight      = 3
	buttonScrollUp   = 4
	buttonScrollDown = 5
)

// Pager is the toolbar and its event loop.
type Pager struct {
	conn *x11.Connection
	mgr  *desktop.Manager
	cfg  config.Pager
	log  *slog.Logger

	win      xproto.Window
	gc       xproto.Gcontext
	gcInv    xproto.Gcontext
	winW     int
	winH     int
	wmDelete xproto.Atom

	current int
	count   int
}

// New creates a pager over an established connection and manager.
func New(conn *x11.Connection, mgr *desktop.Manager, cfg config.Pager, logger *slog.Logger) *Pager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pager{conn: conn, mgr: mgr, cfg: cfg, log: logger}
}

// Run shows the pager and blocks in the event loop until the window is
// closed through WM_DELETE_WINDOW. If the window is destroyed or unmapped
// externally it is recreated or remapped.
func (p *Pager) Run() error {
	snap := p.mgr.Snapshot()
	p.current = snap.CurrentDesktop()
	p.count = snap.DesktopCount

	// Watch the root window so switches by one-shot invocations show up.
	err := xproto.ChangeWindowAttributesChecked(p.conn.Conn(), p.conn.Root,
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		return fmt.Errorf("failed to subscribe to root properties: %w", err)
	}

	currentAtom, err := p.conn.Atom(x11.PropCurrentDesktop)
	if err != nil {
		return err
	}
	countAtom, err := p.conn.Atom(x11.PropDesktopCount)
	if err != nil {
		return err
	}

	if err := p.createWindow(); err != nil {
		return err
	}
	if err := p.draw(); err != nil {
		return err
	}

	p.log.Info("pager running", "desktops", p.count, "current", p.current)

	for {
		ev, xerr := p.conn.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			return fmt.Errorf("connection to X server lost")
		}
		if xerr != nil {
			p.log.Warn("x error", "err", xerr)
			continue
		}

		switch e := ev.(type) {
		case xproto.ExposeEvent:
			if e.Window == p.win && e.Count == 0 {
				p.redraw()
			}

		case xproto.ConfigureNotifyEvent:
			if e.Window == p.win && (int(e.Width) != p.winW || int(e.Height) != p.winH) {
				p.winW, p.winH = int(e.Width), int(e.Height)
				p.redraw()
			}

		case xproto.DestroyNotifyEvent:
			if e.Window == p.win {
				p.log.Info("pager window destroyed, recreating")
				if err := p.createWindow(); err != nil {
					return err
				}
				p.redraw()
			}

		case xproto.UnmapNotifyEvent:
			if e.Window == p.win {
				xproto.MapWindow(p.conn.Conn(), p.win)
			}

		case xproto.ButtonPressEvent:
			if e.Event == p.win {
				p.handleButton(e)
			}

		case xproto.PropertyNotifyEvent:
			switch e.Atom {
			case currentAtom:
				p.refreshCurrent()
			case countAtom:
				p.refreshCount()
			}

		case xproto.ClientMessageEvent:
			if e.Window == p.win && e.Format == 32 &&
				xproto.Atom(e.Data.Data32[0]) == p.wmDelete {
				p.conn.DestroyWindow(uint32(p.win))
				return nil
			}
		}
	}
}

func (p *Pager) handleButton(e xproto.ButtonPressEvent) {
	switch e.Detail {
	case buttonLeft:
		if target, ok := cellAt(int(e.EventX), int(e.EventY), p.count, p.winW, p.winH); ok && target != p.current {
			p.switchTo(target)
		}

	case buttonRight:
		target, ok := cellAt(int(e.EventX), int(e.EventY), p.count, p.winW, p.winH)
		if !ok {
			return
		}
		id, err := p.pickWindow()
		if err != nil || id == 0 {
			return
		}
		if err := p.mgr.Move(id, state.Tag(target)); err != nil {
			p.log.Warn("failed to move window", "window", fmt.Sprintf("0x%x", id), "err", err)
		}
		p.redraw()

	case buttonScrollUp:
		// Scrolling moves without wrapping; only the CLI verbs wrap.
		if p.current > 1 {
			p.switchTo(p.current - 1)
		}

	case buttonScrollDown:
		if p.current < p.count {
			p.switchTo(p.current + 1)
		}
	}
}

func (p *Pager) switchTo(target int) {
	if err := p.mgr.Switch(target); err != nil {
		p.log.Warn("switch failed", "target", target, "err", err)
		return
	}
	p.current = target
	p.redraw()
}

// refreshCurrent re-reads the published current desktop after another
// invocation switched.
func (p *Pager) refreshCurrent() {
	v, ok, err := p.conn.RootCardinal(x11.PropCurrentDesktop)
	if err != nil || !ok {
		return
	}
	if int(v) != p.current {
		p.current = int(v)
		p.redraw()
	}
}

// refreshCount resizes the pager when the desktop count changes.
func (p *Pager) refreshCount() {
	v, ok, err := p.conn.RootCardinal(x11.PropDesktopCount)
	if err != nil || !ok || int(v) == p.count {
		return
	}
	p.count = int(v)
	if p.current > p.count {
		p.current = p.count
	}

	p.conn.DestroyWindow(uint32(p.win))
	if err := p.createWindow(); err != nil {
		p.log.Error("failed to recreate pager window", "err", err)
		return
	}
	p.redraw()
}

func (p *Pager) redraw() {
	if err := p.draw(); err != nil {
		p.log.Warn("draw failed", "err", err)
	}
}

// createWindow builds the WM-managed toolbar window at the bottom center
// of the screen, with WM_DELETE_WINDOW opted in for clean shutdown.
func (p *Pager) createWindow() error {
	conn := p.conn.Conn()
	screenW, screenH := p.conn.ScreenSize()
	white, black := p.conn.ScreenPixels()

	p.winW, p.winH = initialSize(p.count, p.cfg.CellSize)
	x := (int(screenW) - p.winW) / 2
	if x < 0 {
		x = 0
	}
	y := int(screenH) - p.winH - p.cfg.BottomMargin
	if y < 0 {
		y = 0
	}

	win, err := xproto.NewWindowId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = xproto.CreateWindowChecked(conn,
		0, win, p.conn.Root, // depth 0: copy from parent
		int16(x), int16(y), uint16(p.winW), uint16(p.winH), borderWidth,
		xproto.WindowClassInputOutput, 0,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwEventMask,
		[]uint32{white, black,
			xproto.EventMaskExposure | xproto.EventMaskButtonPress | xproto.EventMaskStructureNotify},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to create pager window: %w", err)
	}
	p.win = win

	if p.gc, err = p.newGC(win, black, white); err != nil {
		return err
	}
	if p.gcInv, err = p.newGC(win, white, black); err != nil {
		return err
	}

	if err := xprop.ChangeProp(p.conn.XUtil, win, 8, "WM_NAME", "STRING", []byte("vdesk pager")); err != nil {
		return err
	}

	wmDelete, err := p.conn.Atom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	p.wmDelete = wmDelete
	if err := xprop.ChangeProp32(p.conn.XUtil, win, "WM_PROTOCOLS", "ATOM", uint(wmDelete)); err != nil {
		return err
	}

	if err := xproto.MapWindowChecked(conn, win).Check(); err != nil {
		return fmt.Errorf("failed to map pager window: %w", err)
	}
	return nil
}

func (p *Pager) newGC(win xproto.Window, fg, bg uint32) (xproto.Gcontext, error) {
	gc, err := xproto.NewGcontextId(p.conn.Conn())
	if err != nil {
		return 0, fmt.Errorf("failed to allocate gc id: %w", err)
	}
	err = xproto.CreateGCChecked(p.conn.Conn(), gc, xproto.Drawable(win),
		xproto.GcForeground|xproto.GcBackground,
		[]uint32{fg, bg},
	).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create gc: %w", err)
	}
	return gc, nil
}

// draw renders the cell row. The current desktop's cell is inverted.
func (p *Pager) draw() error {
	conn := p.conn.Conn()
	drawable := xproto.Drawable(p.win)

	// Clear to the background color.
	err := xproto.PolyFillRectangleChecked(conn, drawable, p.gcInv,
		[]xproto.Rectangle{{X: 0, Y: 0, Width: uint16(p.winW), Height: uint16(p.winH)}}).Check()
	if err != nil {
		return fmt.Errorf("failed to clear pager: %w", err)
	}

	for d := 1; d <= p.count; d++ {
		x, y, w, h := cellRect(d, p.count, p.winW, p.winH)
		rect := xproto.Rectangle{X: int16(x), Y: int16(y), Width: uint16(w), Height: uint16(h)}

		fillGC, textGC := p.gcInv, p.gc
		if d == p.current {
			fillGC, textGC = p.gc, p.gcInv
		}

		if err := xproto.PolyFillRectangleChecked(conn, drawable, fillGC, []xproto.Rectangle{rect}).Check(); err != nil {
			return err
		}
		if err := xproto.PolyRectangleChecked(conn, drawable, p.gc, []xproto.Rectangle{rect}).Check(); err != nil {
			return err
		}

		text := strconv.Itoa(d)
		const charWidth, charHeight = 6, 13
		textX := int16(x) + (int16(w)-int16(len(text))*charWidth)/2
		textY := int16(y) + (int16(h)+charHeight)/2
		if err := xproto.ImageText8Checked(conn, byte(len(text)), drawable, textGC, textX, textY, text).Check(); err != nil {
			return err
		}
	}
	return nil
}

// pickWindow grabs the pointer with a crosshair cursor and waits for a
// click, returning the clicked top-level window. Any non-left click
// cancels; so does clicking the root itself.
func (p *Pager) pickWindow() (uint32, error) {
	conn := p.conn.Conn()

	fontID, err := xproto.NewFontId(conn)
	if err != nil {
		return 0, err
	}
	const cursorFont = "cursor"
	if err := xproto.OpenFontChecked(conn, fontID, uint16(len(cursorFont)), cursorFont).Check(); err != nil {
		return 0, fmt.Errorf("failed to open cursor font: %w", err)
	}
	defer xproto.CloseFont(conn, fontID)

	cursor, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, err
	}
	// Glyph 34 is the crosshair in the standard cursor font.
	err = xproto.CreateGlyphCursorChecked(conn, cursor, fontID, fontID,
		34, 35, 0, 0, 0, 0xffff, 0xffff, 0xffff).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create crosshair cursor: %w", err)
	}
	defer xproto.FreeCursor(conn, cursor)

	grab, err := xproto.GrabPointer(conn, false, p.conn.Root,
		xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, cursor, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to grab pointer: %w", err)
	}
	if grab.Status != xproto.GrabStatusSuccess {
		return 0, nil
	}
	defer xproto.UngrabPointer(conn, xproto.TimeCurrentTime)

	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return 0, fmt.Errorf("connection to X server lost")
		}
		if xerr != nil {
			continue
		}
		if bp, ok := ev.(xproto.ButtonPressEvent); ok {
			if bp.Detail != buttonLeft || bp.Child == 0 {
				return 0, nil
			}
			return uint32(bp.Child), nil
		}
	}
}
