package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/vdesk/internal/desktop"
)

func (s *Server) handleSwitchDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchDesktopInput) (*mcpsdk.CallToolResult, SwitchDesktopOutput, error) {
	if err := s.mgr.Switch(args.Desktop); err != nil {
		return nil, SwitchDesktopOutput{}, err
	}
	s.log.Info("switched desktop", "desktop", args.Desktop)
	return nil, SwitchDesktopOutput{Desktop: args.Desktop}, nil
}

func (s *Server) handleNextDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, _ NextDesktopInput) (*mcpsdk.CallToolResult, NextDesktopOutput, error) {
	target, err := s.mgr.Next()
	if err != nil {
		return nil, NextDesktopOutput{}, err
	}
	return nil, NextDesktopOutput{Desktop: target}, nil
}

func (s *Server) handlePrevDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, _ PrevDesktopInput) (*mcpsdk.CallToolResult, PrevDesktopOutput, error) {
	target, err := s.mgr.Prev()
	if err != nil {
		return nil, PrevDesktopOutput{}, err
	}
	return nil, PrevDesktopOutput{Desktop: target}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, MoveWindowOutput, error) {
	specText := args.Window
	if specText == "" {
		specText = "active"
	}
	sp, err := desktop.ParseSpec(specText)
	if err != nil {
		return nil, MoveWindowOutput{}, err
	}
	id, err := s.mgr.Resolve(sp)
	if err != nil {
		return nil, MoveWindowOutput{}, err
	}
	tag, err := desktop.ParseTag(args.Desktop)
	if err != nil {
		return nil, MoveWindowOutput{}, err
	}
	if err := s.mgr.Move(id, tag); err != nil {
		return nil, MoveWindowOutput{}, err
	}
	s.log.Info("moved window", "window", fmt.Sprintf("0x%x", id), "desktop", tag.String())
	return nil, MoveWindowOutput{
		Window:  fmt.Sprintf("0x%x", id),
		Desktop: tag.String(),
	}, nil
}

func (s *Server) handleSetDesktopCount(_ context.Context, _ *mcpsdk.CallToolRequest, args SetDesktopCountInput) (*mcpsdk.CallToolResult, SetDesktopCountOutput, error) {
	if err := s.mgr.SetDesktops(args.Count); err != nil {
		return nil, SetDesktopCountOutput{}, err
	}
	snap := s.mgr.Snapshot()
	return nil, SetDesktopCountOutput{Count: snap.DesktopCount, Current: snap.CurrentDesktop()}, nil
}

func (s *Server) handleListDesktops(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListDesktopsInput) (*mcpsdk.CallToolResult, ListDesktopsOutput, error) {
	snap := s.mgr.Snapshot()
	out := ListDesktopsOutput{Desktops: make([]DesktopInfo, 0, snap.DesktopCount)}
	for _, d := range snap.DesktopList() {
		out.Desktops = append(out.Desktops, DesktopInfo{
			Desktop: d,
			Current: d == snap.CurrentDesktop(),
		})
	}
	return nil, out, nil
}

func (s *Server) handleCurrentDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, _ CurrentDesktopInput) (*mcpsdk.CallToolResult, CurrentDesktopOutput, error) {
	snap := s.mgr.Snapshot()
	return nil, CurrentDesktopOutput{Desktop: snap.CurrentDesktop(), Count: snap.DesktopCount}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	rows, err := s.mgr.Windows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{Windows: make([]ManagedWindow, 0, len(rows))}
	for _, r := range rows {
		out.Windows = append(out.Windows, ManagedWindow{
			ID:        fmt.Sprintf("0x%x", r.ID),
			Name:      r.Name,
			Desktop:   r.Tag.String(),
			Visible:   r.Mapped,
			AppHidden: r.AppHidden,
		})
	}
	return nil, out, nil
}
