package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Root window properties used for cross-instance signalling: one-shot
// invocations write them, the pager watches them with PropertyNotify.
const (
	PropCurrentDesktop = "_VDESK_CURRENT_DESKTOP"
	PropDesktopCount   = "_VDESK_NUM_DESKTOPS"
	PropPopupWindow    = "_VDESK_POPUP"
)

// SetRootCardinal stores a CARDINAL value in a root window property.
func (c *Connection) SetRootCardinal(name string, value uint32) error {
	if err := xprop.ChangeProp32(c.XUtil, c.Root, name, "CARDINAL", uint(value)); err != nil {
		return fmt.Errorf("failed to set root property %s: %w", name, err)
	}
	return nil
}

// RootCardinal reads a CARDINAL value from a root window property. The
// second return is false when the property is absent.
func (c *Connection) RootCardinal(name string) (uint32, bool, error) {
	reply, err := xprop.GetProperty(c.XUtil, c.Root, name)
	if err != nil {
		// xprop reports absent properties as errors; treat them as unset.
		return 0, false, nil
	}
	nums, err := xprop.PropValNums(reply, nil)
	if err != nil || len(nums) == 0 {
		return 0, false, nil
	}
	return uint32(nums[0]), true, nil
}

// DeleteRootProperty removes a root window property.
func (c *Connection) DeleteRootProperty(name string) error {
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return fmt.Errorf("failed to intern atom %s: %w", name, err)
	}
	if err := xproto.DeletePropertyChecked(c.Conn(), c.Root, atom).Check(); err != nil {
		return fmt.Errorf("failed to delete root property %s: %w", name, err)
	}
	return nil
}

// Atom interns an atom by name.
func (c *Connection) Atom(name string) (xproto.Atom, error) {
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return 0, fmt.Errorf("failed to intern atom %s: %w", name, err)
	}
	return atom, nil
}
