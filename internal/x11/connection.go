package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection manages the X11 connection and core X resources.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// Conn returns the raw xgb connection for protocol-level requests.
func (c *Connection) Conn() *xgb.Conn {
	return c.XUtil.Conn()
}

// ScreenSize returns the root screen dimensions in pixels.
func (c *Connection) ScreenSize() (width, height uint16) {
	screen := c.XUtil.Screen()
	return screen.WidthInPixels, screen.HeightInPixels
}

// ScreenPixels returns the screen's white and black pixel values.
func (c *Connection) ScreenPixels() (white, black uint32) {
	screen := c.XUtil.Screen()
	return screen.WhitePixel, screen.BlackPixel
}

// Close cleanly disconnects from the X11 server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
