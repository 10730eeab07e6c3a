// Package resolver expands bundle references (@group.name, @group.*) into
// flat, pane-ordered command lists.
//
// References expand recursively and in place: a referenced bundle's commands
// are spliced into the stream at the position of the reference token, keeping
// their own pane assignment. Cycles anywhere in the expansion abort the whole
// resolution.
package resolver

import (
	"fmt"
	"strings"

	"github.com/mikanfactory/sudare/internal/model"
)

// PaneCommand is one literal command targeted at a pane.
type PaneCommand struct {
	Pane    int
	Command string
}

// NotFoundError reports a reference to a bundle or group that does not exist.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("bundle reference %s not found", e.Ref)
}

// CycleError reports a reference chain that revisits a bundle already being
// expanded. Path holds the full chain, ending at the repeated bundle.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "circular bundle reference: " + strings.Join(e.Path, " -> ")
}

// MalformedRefError reports a token that starts with @ but is not a valid
// @group.name or @group.* reference.
type MalformedRefError struct {
	Token string
}

func (e *MalformedRefError) Error() string {
	return fmt.Sprintf("malformed bundle reference %q: want @group.name or @group.*", e.Token)
}

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenBundle
	tokenGroupAll
)

// parseToken classifies a command token. Tokens starting with @ must name a
// non-empty group and a non-empty bundle (or *); anything else starting with
// @ is an error, never a literal.
func parseToken(tok string) (kind tokenKind, group, name string, err error) {
	if !strings.HasPrefix(tok, "@") {
		return tokenLiteral, "", "", nil
	}
	rest := tok[1:]
	group, name, found := strings.Cut(rest, ".")
	if !found || group == "" || name == "" {
		return 0, "", "", &MalformedRefError{Token: tok}
	}
	if name == "*" {
		return tokenGroupAll, group, "", nil
	}
	return tokenBundle, group, name, nil
}

// resolution carries the state of one top-level Resolve call: the in-flight
// reference path for cycle detection and the positional pane counter.
type resolution struct {
	cfg    *model.Config
	path   []string
	onPath map[string]bool
	out    []PaneCommand
	// nextPane counts bundles that emitted at least one literal command,
	// in invocation order. A bundle without an explicit pane takes the
	// counter value; an aggregator bundle with only references consumes
	// nothing.
	nextPane int
}

// Resolve expands the bundle identified by group and name into a flat list
// of pane-targeted literal commands.
func Resolve(cfg *model.Config, group, name string) ([]PaneCommand, error) {
	r := &resolution{cfg: cfg, onPath: map[string]bool{}}
	if err := r.resolveBundle(group, name); err != nil {
		return nil, err
	}
	return r.out, nil
}

// ResolveTokens expands a free-standing command list (a workspace window's or
// a server's cmd field) into flat literal commands. Pane assignments from
// referenced bundles are dropped: these command lists address whatever pane
// they are sent to, not bundle panes.
func ResolveTokens(cfg *model.Config, tokens model.Command) ([]string, error) {
	r := &resolution{cfg: cfg, onPath: map[string]bool{}}
	for _, tok := range tokens {
		kind, group, name, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		switch kind {
		case tokenLiteral:
			r.out = append(r.out, PaneCommand{Command: tok})
		case tokenBundle:
			if err := r.resolveBundle(group, name); err != nil {
				return nil, err
			}
		case tokenGroupAll:
			if err := r.resolveGroup(group); err != nil {
				return nil, err
			}
		}
	}
	cmds := make([]string, len(r.out))
	for i, pc := range r.out {
		cmds[i] = pc.Command
	}
	return cmds, nil
}

func (r *resolution) resolveBundle(group, name string) error {
	key := group + "." + name
	if r.onPath[key] {
		return &CycleError{Path: append(append([]string{}, r.path...), key)}
	}

	bundle, ok := r.cfg.Bundle(group, name)
	if !ok {
		return &NotFoundError{Ref: key}
	}

	r.path = append(r.path, key)
	r.onPath[key] = true
	defer func() {
		r.path = r.path[:len(r.path)-1]
		delete(r.onPath, key)
	}()

	pane := -1
	for _, tok := range bundle.Commands {
		kind, refGroup, refName, err := parseToken(tok)
		if err != nil {
			return err
		}
		switch kind {
		case tokenLiteral:
			if pane < 0 {
				pane = r.claimPane(bundle)
			}
			r.out = append(r.out, PaneCommand{Pane: pane, Command: tok})
		case tokenBundle:
			if err := r.resolveBundle(refGroup, refName); err != nil {
				return err
			}
		case tokenGroupAll:
			if err := r.resolveGroup(refGroup); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveGroup expands every bundle in the group, in declaration order.
// An empty group expands to nothing.
func (r *resolution) resolveGroup(group string) error {
	g, ok := r.cfg.Group(group)
	if !ok {
		return &NotFoundError{Ref: group + ".*"}
	}
	for _, b := range g.Bundles {
		if err := r.resolveBundle(group, b.Name); err != nil {
			return err
		}
	}
	return nil
}

// claimPane returns the bundle's explicit pane, or the next positional index
// for bundles without one. Either way the positional counter advances, so a
// later auto-assigned bundle lands after an earlier explicit one.
func (r *resolution) claimPane(bundle model.Bundle) int {
	pos := r.nextPane
	r.nextPane++
	if bundle.Pane != nil {
		return *bundle.Pane
	}
	return pos
}
