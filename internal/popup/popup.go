// Package popup draws the transient "identify" overlay: a small centered
// square showing the current desktop number for a moment.
package popup

import (
	"fmt"
	"strconv"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/vdesk/internal/config"
	"github.com/1broseidon/vdesk/internal/x11"
)

// Show displays the desktop number popup and blocks until it is torn down.
// A root property coordinates instances: showing a new popup destroys the
// previous one, so rapid identify calls behave like a reset timer.
func Show(conn *x11.Connection, desktop int, cfg config.Popup) error {
	if old, ok, _ := conn.RootCardinal(x11.PropPopupWindow); ok {
		// Best effort: the previous popup may already be gone.
		conn.DestroyWindow(old)
	}

	win, gc, err := createWindow(conn, uint16(cfg.Size))
	if err != nil {
		return err
	}

	if err := conn.SetRootCardinal(x11.PropPopupWindow, uint32(win)); err != nil {
		return err
	}

	if err := drawNumber(conn, win, gc, desktop, uint16(cfg.Size)); err != nil {
		return err
	}

	time.Sleep(time.Duration(cfg.DurationMs) * time.Millisecond)

	if err := conn.DestroyWindow(uint32(win)); err != nil {
		return err
	}
	return conn.DeleteRootProperty(x11.PropPopupWindow)
}

// createWindow builds the override-redirect popup centered on screen and
// maps it, returning the window and a drawing GC.
func createWindow(conn *x11.Connection, size uint16) (xproto.Window, xproto.Gcontext, error) {
	screenW, screenH := conn.ScreenSize()
	white, black := conn.ScreenPixels()

	x := int16((screenW - size) / 2)
	y := int16((screenH - size) / 2)

	win, err := xproto.NewWindowId(conn.Conn())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to allocate window id: %w", err)
	}
	gc, err := xproto.NewGcontextId(conn.Conn())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to allocate gc id: %w", err)
	}

	// Override-redirect bypasses the WM so the popup is never reparented
	// or picked up as a client window.
	err = xproto.CreateWindowChecked(conn.Conn(),
		0, win, conn.Root, // depth 0: copy from parent
		x, y, size, size, 2,
		xproto.WindowClassInputOutput, 0,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwOverrideRedirect,
		[]uint32{white, black, 1},
	).Check()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create popup window: %w", err)
	}

	err = xproto.CreateGCChecked(conn.Conn(), gc, xproto.Drawable(win),
		xproto.GcForeground|xproto.GcBackground,
		[]uint32{black, white},
	).Check()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create gc: %w", err)
	}

	if err := xprop.ChangeProp(conn.XUtil, win, 8, "WM_NAME", "STRING", []byte("vdesk")); err != nil {
		return 0, 0, err
	}

	if err := xproto.MapWindowChecked(conn.Conn(), win).Check(); err != nil {
		return 0, 0, fmt.Errorf("failed to map popup window: %w", err)
	}
	return win, gc, nil
}

// drawNumber renders the 1-indexed desktop number roughly centered, using
// the server's default font metrics.
func drawNumber(conn *x11.Connection, win xproto.Window, gc xproto.Gcontext, desktop int, size uint16) error {
	text := strconv.Itoa(desktop)

	const charWidth, charHeight = 8, 13
	textX := (int16(size) - int16(len(text))*charWidth) / 2
	textY := (int16(size) + charHeight) / 2

	err := xproto.ImageText8Checked(conn.Conn(), byte(len(text)),
		xproto.Drawable(win), gc, textX, textY, text).Check()
	if err != nil {
		return fmt.Errorf("failed to draw desktop number: %w", err)
	}
	return nil
}
