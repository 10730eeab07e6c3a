package model

import (
	"fmt"
	"sort"
)

// Layout identifies a tmux pane arrangement.
type Layout string

const (
	// LayoutTiled spreads panes evenly in both directions.
	LayoutTiled Layout = "tiled"
	// LayoutVertical places panes side by side.
	LayoutVertical Layout = "vertical"
	// LayoutHorizontal stacks panes on top of each other.
	LayoutHorizontal Layout = "horizontal"
)

// TmuxName returns the layout name understood by tmux select-layout.
func (l Layout) TmuxName() string {
	switch l {
	case LayoutVertical:
		return "even-horizontal"
	case LayoutHorizontal:
		return "even-vertical"
	default:
		return "tiled"
	}
}

// Valid reports whether l is one of the recognized layout names.
func (l Layout) Valid() bool {
	switch l {
	case LayoutTiled, LayoutVertical, LayoutHorizontal:
		return true
	}
	return false
}

// Command is an ordered list of command tokens. A token is either a literal
// shell command or a bundle reference (@group.name, @group.*).
//
// In TOML a command field may be a single string or a list of strings; both
// normalize to this type.
type Command []string

// UnmarshalTOML accepts either a string or an array of strings.
func (c *Command) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		*c = Command{val}
		return nil
	case []any:
		out := make(Command, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("cmd list element %v is not a string", item)
			}
			out = append(out, s)
		}
		*c = out
		return nil
	default:
		return fmt.Errorf("cmd must be a string or a list of strings, got %T", v)
	}
}

// Bundle is a named group of commands targeting one pane.
type Bundle struct {
	Group    string
	Name     string
	Commands Command
	// Pane is the explicit target pane index, or nil for positional
	// assignment at resolution time.
	Pane   *int
	Role   string
	Layout Layout // empty means unset
}

// Path returns the bundle's "group.name" identifier.
func (b Bundle) Path() string {
	return b.Group + "." + b.Name
}

// Group is the ordered collection of bundles sharing a group name.
// Order is TOML declaration order.
type Group struct {
	Name    string
	Bundles []Bundle
}

// WindowDef describes one window inside a workspace.
type WindowDef struct {
	Panes    int
	Layout   Layout // empty means unset
	Name     string
	Commands Command
}

// Workspace is an ordered list of window definitions sharing an optional
// directory and host.
type Workspace struct {
	Name    string
	Host    string
	Dir     string
	Windows []WindowDef
}

// Server describes a remote host reachable over ssh.
type Server struct {
	Name string
	// Host is in user@address form.
	Host string
	// Disconnect sends "exit" after the commands complete.
	Disconnect bool
	Commands   Command
}

// Defaults holds config-wide fallback settings.
type Defaults struct {
	Layout Layout // empty means unset
}

// Config is the fully loaded configuration. It is built once per invocation
// and read-only afterwards.
type Config struct {
	Defaults   Defaults
	Groups     []Group     // declaration order
	Workspaces []Workspace // declaration order
	Servers    []Server    // declaration order
}

// Bundle looks up a bundle by group and name.
func (c *Config) Bundle(group, name string) (Bundle, bool) {
	g, ok := c.Group(group)
	if !ok {
		return Bundle{}, false
	}
	for _, b := range g.Bundles {
		if b.Name == name {
			return b, true
		}
	}
	return Bundle{}, false
}

// Group looks up a bundle group by name.
func (c *Config) Group(name string) (Group, bool) {
	for _, g := range c.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// Workspace looks up a workspace by name.
func (c *Config) Workspace(name string) (Workspace, bool) {
	for _, ws := range c.Workspaces {
		if ws.Name == name {
			return ws, true
		}
	}
	return Workspace{}, false
}

// Server looks up a server by name.
func (c *Config) Server(name string) (Server, bool) {
	for _, srv := range c.Servers {
		if srv.Name == name {
			return srv, true
		}
	}
	return Server{}, false
}

// BundlePaths returns every "group.name" path, sorted alphabetically.
func (c *Config) BundlePaths() []string {
	var paths []string
	for _, g := range c.Groups {
		for _, b := range g.Bundles {
			paths = append(paths, b.Path())
		}
	}
	sort.Strings(paths)
	return paths
}

// WorkspaceNames returns all workspace names, sorted alphabetically.
func (c *Config) WorkspaceNames() []string {
	var names []string
	for _, ws := range c.Workspaces {
		names = append(names, ws.Name)
	}
	sort.Strings(names)
	return names
}

// ServerNames returns all server names, sorted alphabetically.
func (c *Config) ServerNames() []string {
	var names []string
	for _, srv := range c.Servers {
		names = append(names, srv.Name)
	}
	sort.Strings(names)
	return names
}
