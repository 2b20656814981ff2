package mcp

// SwitchDesktopInput is the input for the switch_desktop tool.
type SwitchDesktopInput struct {
	Desktop int `json:"desktop" jsonschema:"required,Desktop number to switch to (1-based)"`
}

// SwitchDesktopOutput is the output for the switch_desktop tool.
type SwitchDesktopOutput struct {
	Desktop int `json:"desktop"`
}

// NextDesktopInput is the input for the next_desktop tool.
type NextDesktopInput struct{}

// NextDesktopOutput is the output for the next_desktop tool.
type NextDesktopOutput struct {
	Desktop int `json:"desktop"`
}

// PrevDesktopInput is the input for the prev_desktop tool.
type PrevDesktopInput struct{}

// PrevDesktopOutput is the output for the prev_desktop tool.
type PrevDesktopOutput struct {
	Desktop int `json:"desktop"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	Window  string `json:"window,omitempty" jsonschema:"Window to move: a hex id (0x1a00003), a decimal id, or 'active' for the focused window (default: active)"`
	Desktop string `json:"desktop" jsonschema:"required,Destination: a desktop number (1-based) or 'sticky' to show the window on every desktop"`
}

// MoveWindowOutput is the output for the move_window tool.
type MoveWindowOutput struct {
	Window  string `json:"window"`
	Desktop string `json:"desktop"`
}

// SetDesktopCountInput is the input for the set_desktop_count tool.
type SetDesktopCountInput struct {
	Count int `json:"count" jsonschema:"required,New number of desktops (at least 1)"`
}

// SetDesktopCountOutput is the output for the set_desktop_count tool.
type SetDesktopCountOutput struct {
	Count   int `json:"count"`
	Current int `json:"current"`
}

// ListDesktopsInput is the input for the list_desktops tool.
type ListDesktopsInput struct{}

// DesktopInfo describes one desktop.
type DesktopInfo struct {
	Desktop int  `json:"desktop"`
	Current bool `json:"current"`
}

// ListDesktopsOutput is the output for the list_desktops tool.
type ListDesktopsOutput struct {
	Desktops []DesktopInfo `json:"desktops"`
}

// CurrentDesktopInput is the input for the current_desktop tool.
type CurrentDesktopInput struct{}

// CurrentDesktopOutput is the output for the current_desktop tool.
type CurrentDesktopOutput struct {
	Desktop int `json:"desktop"`
	Count   int `json:"count"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ManagedWindow describes one top-level window and where it lives.
type ManagedWindow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Desktop   string `json:"desktop"`
	Visible   bool   `json:"visible"`
	AppHidden bool   `json:"app_hidden,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ManagedWindow `json:"windows"`
}
