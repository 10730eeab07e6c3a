package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/mikanfactory/sudare/internal/config"
	"github.com/mikanfactory/sudare/internal/model"
	"github.com/mikanfactory/sudare/internal/plan"
	"github.com/mikanfactory/sudare/internal/resolver"
	"github.com/mikanfactory/sudare/internal/tmux"
	"github.com/mikanfactory/sudare/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	bundle     string
	workspace  string
	server     string
	panes      int
	vertical   bool
	horizontal bool
	list       bool
	dryRun     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "sudare",
		Short: "Tmux pane orchestrator - create panes and windows from config",
		Long: `Sudare creates tmux panes and windows based on TOML configuration.

Define bundles for local commands or workspaces for multi-window setups,
then spawn them with a single command. Run without flags inside tmux to
pick a bundle or workspace interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to config file")
	cmd.Flags().StringVarP(&opts.bundle, "bundle", "b", "", "bundle to run (format: group.name)")
	cmd.Flags().StringVarP(&opts.workspace, "workspace", "w", "", "workspace to run (creates multiple windows)")
	cmd.Flags().StringVarP(&opts.server, "server", "s", "", "server to connect to in the current pane")
	cmd.Flags().IntVarP(&opts.panes, "num", "n", 0, "number of panes to create (default: derived from commands)")
	cmd.Flags().BoolVarP(&opts.vertical, "vertical", "v", false, "vertical split (panes side by side)")
	cmd.Flags().BoolVarP(&opts.horizontal, "horizontal", "H", false, "horizontal split (panes stacked)")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "list all available bundles, workspaces, and servers")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the operations instead of executing them")

	return cmd
}

// layoutOverride maps the -v / -H flags to a layout, empty when neither is set.
func layoutOverride(opts *options) model.Layout {
	if opts.vertical {
		return model.LayoutVertical
	}
	if opts.horizontal {
		return model.LayoutHorizontal
	}
	return ""
}

func run(out io.Writer, opts *options) error {
	setupDebugLog()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	if opts.list {
		printListing(out, cfg)
		return nil
	}

	switch {
	case opts.bundle != "":
		return runBundle(out, cfg, opts)
	case opts.workspace != "":
		return runWorkspace(out, cfg, opts)
	case opts.server != "":
		return runServer(out, cfg, opts)
	}

	item, err := runPicker(cfg)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}
	switch item.Kind {
	case tui.ItemKindBundle:
		opts.bundle = item.Label
		return runBundle(out, cfg, opts)
	case tui.ItemKindWorkspace:
		opts.workspace = item.Label
		return runWorkspace(out, cfg, opts)
	case tui.ItemKindServer:
		opts.server = item.Label
		return runServer(out, cfg, opts)
	}
	return nil
}

func runBundle(out io.Writer, cfg *model.Config, opts *options) error {
	group, name, found := strings.Cut(opts.bundle, ".")
	if !found || group == "" || name == "" {
		return fmt.Errorf("bundle must be in group.name format, got %q", opts.bundle)
	}

	cmds, err := resolver.Resolve(cfg, group, name)
	if err != nil {
		return err
	}

	// Layout precedence: CLI flag > bundle config > defaults > tiled
	bundle, _ := cfg.Bundle(group, name)
	layout := plan.PickLayout(layoutOverride(opts), bundle.Layout, cfg.Defaults.Layout)

	p, err := plan.Bundle(cmds, opts.panes, layout)
	if err != nil {
		return err
	}
	return deliver(out, p, opts)
}

func runWorkspace(out io.Writer, cfg *model.Config, opts *options) error {
	ws, ok := cfg.Workspace(opts.workspace)
	if !ok {
		return fmt.Errorf("workspace not found: %s", opts.workspace)
	}
	p, err := plan.Workspace(cfg, ws)
	if err != nil {
		return err
	}
	return deliver(out, p, opts)
}

func runServer(out io.Writer, cfg *model.Config, opts *options) error {
	srv, ok := cfg.Server(opts.server)
	if !ok {
		return fmt.Errorf("server not found: %s", opts.server)
	}
	p, err := plan.Server(cfg, srv)
	if err != nil {
		return err
	}
	return deliver(out, p, opts)
}

// deliver hands a finished plan to the driver, or prints it for dry runs.
// Planning is complete by this point: a dry run touches no live session.
func deliver(out io.Writer, p *plan.Plan, opts *options) error {
	if opts.dryRun {
		fmt.Fprint(out, p.String())
		return nil
	}
	if !tmux.IsInsideTmux() {
		return fmt.Errorf("not running inside tmux")
	}
	log.Printf("executing %d operations", len(p.Ops))
	return tmux.Execute(tmux.OSRunner{}, p)
}

func runPicker(cfg *model.Config) (*tui.Item, error) {
	zone.NewGlobal()

	p := tea.NewProgram(tui.NewModel(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	result, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running picker: %w", err)
	}

	finalModel, ok := result.(tui.Model)
	if !ok {
		return nil, nil
	}
	return finalModel.Selected(), nil
}

var (
	listHeaderStyle = lipgloss.NewStyle().Bold(true)
	listItemStyle   = lipgloss.NewStyle().PaddingLeft(2)
)

func printListing(out io.Writer, cfg *model.Config) {
	sections := []struct {
		header string
		names  []string
	}{
		{"Bundles:", cfg.BundlePaths()},
		{"Workspaces:", cfg.WorkspaceNames()},
		{"Servers:", cfg.ServerNames()},
	}

	first := true
	for _, section := range sections {
		if len(section.names) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(out)
		}
		first = false
		fmt.Fprintln(out, listHeaderStyle.Render(section.header))
		for _, name := range section.names {
			fmt.Fprintln(out, listItemStyle.Render(name))
		}
	}
}

func setupDebugLog() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	logPath := filepath.Join(home, ".config", "sudare", "debug.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(f)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
}
