package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mikanfactory/sudare/internal/model"
)

// Reserved top-level keys. Every other top-level key is a bundle group.
const (
	keyDefaults   = "defaults"
	keyServers    = "servers"
	keyWorkspaces = "workspaces"
)

func reservedKey(key string) bool {
	return key == keyDefaults || key == keyServers || key == keyWorkspaces
}

// ShapeError reports a structurally invalid config entry.
type ShapeError struct {
	Key    string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("config entry %q: %s", e.Key, e.Reason)
}

// Raw decode targets. Command fields accept a string or a list of strings;
// model.Command normalizes both.
type bundleDoc struct {
	Cmd    model.Command `toml:"cmd"`
	Pane   *int          `toml:"pane"`
	Role   string        `toml:"role"`
	Layout string        `toml:"layout"`
}

type serverDoc struct {
	Host       string        `toml:"host"`
	Disconnect bool          `toml:"disconnect"`
	Cmd        model.Command `toml:"cmd"`
}

type windowDoc struct {
	Panes  int           `toml:"panes"`
	Layout string        `toml:"layout"`
	Cmd    model.Command `toml:"cmd"`
	Name   string        `toml:"name"`
}

type workspaceDoc struct {
	Host    string      `toml:"host"`
	Dir     string      `toml:"dir"`
	Windows []windowDoc `toml:"windows"`
}

type defaultsDoc struct {
	Layout string `toml:"layout"`
}

// Parse decodes TOML config data into a model.Config.
//
// Decoding is two-pass: the document is first read into raw primitives, then
// reserved keys (defaults, servers, workspaces) are decoded into their known
// shapes and every remaining top-level key becomes a bundle group. Group and
// bundle order follow document declaration order, taken from toml.MetaData.
func Parse(data string) (*model.Config, error) {
	var raw map[string]toml.Primitive
	md, err := toml.Decode(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	order := keyOrder(md)
	cfg := &model.Config{}

	if prim, ok := raw[keyDefaults]; ok {
		if err := decodeDefaults(md, prim, cfg); err != nil {
			return nil, err
		}
	}
	if prim, ok := raw[keyServers]; ok {
		if err := decodeServers(md, prim, order.servers, cfg); err != nil {
			return nil, err
		}
	}
	if prim, ok := raw[keyWorkspaces]; ok {
		if err := decodeWorkspaces(md, prim, order.workspaces, cfg); err != nil {
			return nil, err
		}
	}

	for _, groupName := range order.groups {
		group, err := decodeGroup(md, raw[groupName], groupName, order.bundles[groupName])
		if err != nil {
			return nil, err
		}
		cfg.Groups = append(cfg.Groups, group)
	}

	return cfg, nil
}

// docOrder records the declaration order of every dynamic key in the
// document: bundle groups, bundles within each group, servers, workspaces.
type docOrder struct {
	groups     []string
	bundles    map[string][]string
	servers    []string
	workspaces []string
}

// keyOrder walks md.Keys(), which reports keys in document order, and keeps
// the first appearance of each name. This is what makes @group.* expansion
// follow declaration order.
//
// A group table declared as [group.bundle] never shows up as a bare "group"
// key: Keys() reports the two-part key only. Groups are therefore recorded
// from both shapes, bare [group] tables and the first bundle under them.
func keyOrder(md toml.MetaData) docOrder {
	order := docOrder{bundles: map[string][]string{}}
	seenGroup := map[string]bool{}
	seenSub := map[string]bool{}

	addGroup := func(name string) {
		if !seenGroup[name] {
			seenGroup[name] = true
			order.groups = append(order.groups, name)
		}
	}

	for _, key := range md.Keys() {
		switch {
		case len(key) == 1:
			if !reservedKey(key[0]) {
				addGroup(key[0])
			}
		case len(key) == 2:
			sub := key[0] + "." + key[1]
			if seenSub[sub] {
				continue
			}
			seenSub[sub] = true
			switch key[0] {
			case keyServers:
				order.servers = append(order.servers, key[1])
			case keyWorkspaces:
				order.workspaces = append(order.workspaces, key[1])
			case keyDefaults:
			default:
				addGroup(key[0])
				order.bundles[key[0]] = append(order.bundles[key[0]], key[1])
			}
		}
	}
	return order
}

func decodeDefaults(md toml.MetaData, prim toml.Primitive, cfg *model.Config) error {
	var doc defaultsDoc
	if err := md.PrimitiveDecode(prim, &doc); err != nil {
		return &ShapeError{Key: keyDefaults, Reason: err.Error()}
	}
	layout, err := parseLayout(doc.Layout, keyDefaults)
	if err != nil {
		return err
	}
	cfg.Defaults.Layout = layout
	return nil
}

func decodeServers(md toml.MetaData, prim toml.Primitive, names []string, cfg *model.Config) error {
	var docs map[string]serverDoc
	if err := md.PrimitiveDecode(prim, &docs); err != nil {
		return &ShapeError{Key: keyServers, Reason: err.Error()}
	}
	for _, name := range names {
		doc, ok := docs[name]
		if !ok {
			continue
		}
		if doc.Host == "" {
			return &ShapeError{Key: keyServers + "." + name, Reason: "missing host"}
		}
		cfg.Servers = append(cfg.Servers, model.Server{
			Name:       name,
			Host:       doc.Host,
			Disconnect: doc.Disconnect,
			Commands:   doc.Cmd,
		})
	}
	return nil
}

func decodeWorkspaces(md toml.MetaData, prim toml.Primitive, names []string, cfg *model.Config) error {
	var docs map[string]workspaceDoc
	if err := md.PrimitiveDecode(prim, &docs); err != nil {
		return &ShapeError{Key: keyWorkspaces, Reason: err.Error()}
	}
	for _, name := range names {
		doc, ok := docs[name]
		if !ok {
			continue
		}
		key := keyWorkspaces + "." + name
		if len(doc.Windows) == 0 {
			return &ShapeError{Key: key, Reason: "missing windows"}
		}
		ws := model.Workspace{Name: name, Host: doc.Host, Dir: doc.Dir}
		for i, win := range doc.Windows {
			winKey := fmt.Sprintf("%s.windows[%d]", key, i)
			if win.Panes < 1 {
				return &ShapeError{Key: winKey, Reason: fmt.Sprintf("panes must be >= 1, got %d", win.Panes)}
			}
			layout, err := parseLayout(win.Layout, winKey)
			if err != nil {
				return err
			}
			ws.Windows = append(ws.Windows, model.WindowDef{
				Panes:    win.Panes,
				Layout:   layout,
				Name:     win.Name,
				Commands: win.Cmd,
			})
		}
		cfg.Workspaces = append(cfg.Workspaces, ws)
	}
	return nil
}

func decodeGroup(md toml.MetaData, prim toml.Primitive, groupName string, names []string) (model.Group, error) {
	var docs map[string]bundleDoc
	if err := md.PrimitiveDecode(prim, &docs); err != nil {
		return model.Group{}, &ShapeError{Key: groupName, Reason: err.Error()}
	}

	group := model.Group{Name: groupName}
	claimed := map[int]string{}

	for _, name := range names {
		doc, ok := docs[name]
		if !ok {
			continue
		}
		key := groupName + "." + name
		if len(doc.Cmd) == 0 {
			return model.Group{}, &ShapeError{Key: key, Reason: "missing cmd"}
		}
		if doc.Pane != nil {
			if *doc.Pane < 0 {
				return model.Group{}, &ShapeError{Key: key, Reason: fmt.Sprintf("pane must be >= 0, got %d", *doc.Pane)}
			}
			if other, taken := claimed[*doc.Pane]; taken {
				return model.Group{}, &ShapeError{
					Key:    key,
					Reason: fmt.Sprintf("pane %d already claimed by %s", *doc.Pane, other),
				}
			}
			claimed[*doc.Pane] = key
		}
		layout, err := parseLayout(doc.Layout, key)
		if err != nil {
			return model.Group{}, err
		}
		group.Bundles = append(group.Bundles, model.Bundle{
			Group:    groupName,
			Name:     name,
			Commands: doc.Cmd,
			Pane:     doc.Pane,
			Role:     doc.Role,
			Layout:   layout,
		})
	}
	return group, nil
}

func parseLayout(s string, key string) (model.Layout, error) {
	if s == "" {
		return "", nil
	}
	layout := model.Layout(s)
	if !layout.Valid() {
		return "", &ShapeError{Key: key, Reason: fmt.Sprintf("unknown layout %q", s)}
	}
	return layout, nil
}

// LoadFromFile reads and parses a TOML config file.
func LoadFromFile(path string) (*model.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(string(data))
}

// ResolveConfigPath determines the config file path from flag or default
// locations: $XDG_CONFIG_HOME/sudare/config.toml, then
// ~/.config/sudare/config.toml.
func ResolveConfigPath(flagPath string) (string, error) {
	if flagPath != "" {
		if _, err := os.Stat(flagPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", flagPath)
		}
		return flagPath, nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		path := filepath.Join(xdg, "sudare", "config.toml")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	defaultPath := filepath.Join(home, ".config", "sudare", "config.toml")
	if _, err := os.Stat(defaultPath); err != nil {
		return "", fmt.Errorf("default config not found at %s: create it or use --config flag", defaultPath)
	}

	return defaultPath, nil
}

// Load resolves the config path and loads the config.
func Load(flagPath string) (*model.Config, error) {
	path, err := ResolveConfigPath(flagPath)
	if err != nil {
		return nil, err
	}
	return LoadFromFile(path)
}
