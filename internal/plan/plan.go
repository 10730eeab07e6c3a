// Package plan turns resolved bundles, workspaces, and servers into ordered
// lists of multiplexer operations. A Plan is pure data: building one touches
// no live session, so planning errors surface before any tmux call and a
// plan can be printed instead of executed.
package plan

import (
	"fmt"
	"strings"

	"github.com/mikanfactory/sudare/internal/model"
	"github.com/mikanfactory/sudare/internal/resolver"
	"github.com/mikanfactory/sudare/internal/ssh"
)

// OpKind discriminates the Operation variants.
type OpKind int

const (
	// OpCreatePane splits a new pane in the current window.
	OpCreatePane OpKind = iota
	// OpCreateWindow creates a new window, optionally named.
	OpCreateWindow
	// OpSelectWindow focuses the window at the plan-relative index.
	OpSelectWindow
	// OpApplyLayout applies a layout to the current window.
	OpApplyLayout
	// OpSendKeys types a command into a pane.
	OpSendKeys
)

// Operation is one multiplexer action. Kind selects which fields are used.
type Operation struct {
	Kind    OpKind
	Name    string       // OpCreateWindow: window name, may be empty
	Window  int          // OpSelectWindow: plan-relative window index
	Layout  model.Layout // OpApplyLayout
	Pane    int          // OpSendKeys: plan-relative pane index
	Command string       // OpSendKeys
}

// Describe renders the operation for dry runs and error messages.
func (op Operation) Describe() string {
	switch op.Kind {
	case OpCreatePane:
		return "create-pane"
	case OpCreateWindow:
		if op.Name != "" {
			return fmt.Sprintf("create-window %q", op.Name)
		}
		return "create-window"
	case OpSelectWindow:
		return fmt.Sprintf("select-window %d", op.Window)
	case OpApplyLayout:
		return fmt.Sprintf("apply-layout %s", op.Layout)
	case OpSendKeys:
		return fmt.Sprintf("send-keys pane=%d %q", op.Pane, op.Command)
	default:
		return fmt.Sprintf("unknown op %d", op.Kind)
	}
}

// Plan is the ordered operation sequence handed to the driver. It is built
// once per invocation and discarded after execution.
type Plan struct {
	Ops []Operation
}

func (p *Plan) append(ops ...Operation) {
	p.Ops = append(p.Ops, ops...)
}

// String renders the plan one operation per line.
func (p *Plan) String() string {
	var b strings.Builder
	for i, op := range p.Ops {
		fmt.Fprintf(&b, "%3d  %s\n", i, op.Describe())
	}
	return b.String()
}

// PaneRangeError reports a resolved command targeting a pane that the plan
// never creates.
type PaneRangeError struct {
	Pane  int
	Panes int
}

func (e *PaneRangeError) Error() string {
	return fmt.Sprintf("command targets pane %d but only %d pane(s) requested", e.Pane, e.Panes)
}

// PickLayout applies layout precedence, highest first: explicit override,
// bundle or window layout, config-wide default, tiled.
func PickLayout(override, own, fallback model.Layout) model.Layout {
	for _, l := range []model.Layout{override, own, fallback} {
		if l != "" {
			return l
		}
	}
	return model.LayoutTiled
}

// Bundle builds the plan for a resolved bundle: panes panes (the first one
// is the currently active pane, so panes-1 splits), one layout application,
// then the commands in resolved order.
//
// When panes is 0 the pane count is derived from the highest pane index in
// cmds. When it is given explicitly, a command targeting a pane outside the
// requested count is a PaneRangeError.
func Bundle(cmds []resolver.PaneCommand, panes int, layout model.Layout) (*Plan, error) {
	if panes == 0 {
		panes = 1
		for _, pc := range cmds {
			if pc.Pane+1 > panes {
				panes = pc.Pane + 1
			}
		}
	}

	for _, pc := range cmds {
		if pc.Pane >= panes {
			return nil, &PaneRangeError{Pane: pc.Pane, Panes: panes}
		}
	}

	p := &Plan{}
	for i := 1; i < panes; i++ {
		p.append(Operation{Kind: OpCreatePane})
	}
	p.append(Operation{Kind: OpApplyLayout, Layout: layout})
	for _, pc := range cmds {
		p.append(Operation{Kind: OpSendKeys, Pane: pc.Pane, Command: pc.Command})
	}
	return p, nil
}

// Workspace builds the plan for a workspace: one window per definition (the
// first reuses the active window), each with its own panes, layout, and
// commands. The shared host/dir command is typed into every pane ahead of
// the window's own commands. The tail operation returns focus to the first
// window; repeating it is harmless.
func Workspace(cfg *model.Config, ws model.Workspace) (*Plan, error) {
	prefix := ssh.SessionCommand(ws.Host, ws.Dir)

	p := &Plan{}
	for i, win := range ws.Windows {
		if i > 0 {
			p.append(Operation{Kind: OpCreateWindow, Name: win.Name})
		}
		for j := 1; j < win.Panes; j++ {
			p.append(Operation{Kind: OpCreatePane})
		}
		p.append(Operation{Kind: OpApplyLayout, Layout: PickLayout("", win.Layout, cfg.Defaults.Layout)})

		cmds, err := resolver.ResolveTokens(cfg, win.Commands)
		if err != nil {
			return nil, err
		}
		for pane := 0; pane < win.Panes; pane++ {
			if prefix != "" {
				p.append(Operation{Kind: OpSendKeys, Pane: pane, Command: prefix})
			}
			for _, cmd := range cmds {
				p.append(Operation{Kind: OpSendKeys, Pane: pane, Command: cmd})
			}
		}
	}
	p.append(Operation{Kind: OpSelectWindow, Window: 0})
	return p, nil
}

// Server builds the plan for connecting to a server in the current pane:
// the ssh command, the server's resolved commands with {user} and {ip}
// interpolated, and an exit when the server asks to disconnect.
func Server(cfg *model.Config, srv model.Server) (*Plan, error) {
	cmds, err := resolver.ResolveTokens(cfg, srv.Commands)
	if err != nil {
		return nil, err
	}

	user, addr, _ := ssh.SplitHost(srv.Host)

	p := &Plan{}
	p.append(Operation{Kind: OpSendKeys, Pane: 0, Command: ssh.ConnectCommand(srv.Host)})
	for _, cmd := range cmds {
		p.append(Operation{Kind: OpSendKeys, Pane: 0, Command: ssh.Interpolate(cmd, user, addr)})
	}
	if srv.Disconnect {
		p.append(Operation{Kind: OpSendKeys, Pane: 0, Command: ssh.DisconnectCommand()})
	}
	return p, nil
}
