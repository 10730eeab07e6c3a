package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikanfactory/sudare/internal/model"
)

const testConfig = `[defaults]
layout = "tiled"

[dev.frontend]
cmd = "npm run dev"
pane = 0

[dev.backend]
cmd = ["cd ~/api", "cargo run"]
pane = 1

[dev.all]
cmd = ["@dev.frontend", "@dev.backend"]
layout = "vertical"

[workspaces.api]
dir = "~/app"
windows = [
    { panes = 2, cmd = "@dev.frontend" },
]

[servers.staging]
host = "deploy@10.0.0.5"
cmd = "sudo -u {user} tail -f /var/log/app.log"
disconnect = true
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestLayoutOverride(t *testing.T) {
	tests := []struct {
		name string
		opts options
		want model.Layout
	}{
		{name: "neither", want: ""},
		{name: "vertical", opts: options{vertical: true}, want: model.LayoutVertical},
		{name: "horizontal", opts: options{horizontal: true}, want: model.LayoutHorizontal},
		{name: "vertical wins", opts: options{vertical: true, horizontal: true}, want: model.LayoutVertical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := layoutOverride(&tt.opts); got != tt.want {
				t.Errorf("layoutOverride = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDryRunBundle(t *testing.T) {
	out, err := runCommand(t, "--config", writeTestConfig(t), "-b", "dev.all", "--dry-run")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	wantLines := []string{
		"create-pane",
		"apply-layout vertical",
		`send-keys pane=0 "npm run dev"`,
		`send-keys pane=1 "cd ~/api"`,
		`send-keys pane=1 "cargo run"`,
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}

func TestDryRunBundle_LayoutFlagWins(t *testing.T) {
	out, err := runCommand(t, "--config", writeTestConfig(t), "-b", "dev.all", "-H", "--dry-run")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "apply-layout horizontal") {
		t.Errorf("flag did not override the bundle layout:\n%s", out)
	}
}

func TestDryRunBundle_ExplicitPaneCountTooSmall(t *testing.T) {
	_, err := runCommand(t, "--config", writeTestConfig(t), "-b", "dev.all", "-n", "1", "--dry-run")
	if err == nil {
		t.Fatal("expected error for command targeting pane 1 with only 1 pane requested")
	}
	if !strings.Contains(err.Error(), "pane 1") {
		t.Errorf("error %q does not name the offending pane", err)
	}
}

func TestDryRunWorkspace(t *testing.T) {
	out, err := runCommand(t, "--config", writeTestConfig(t), "-w", "api", "--dry-run")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	wantLines := []string{
		"create-pane",
		"apply-layout tiled",
		`send-keys pane=0 "cd ~/app"`,
		`send-keys pane=0 "npm run dev"`,
		`send-keys pane=1 "cd ~/app"`,
		"select-window 0",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}

func TestDryRunServer(t *testing.T) {
	out, err := runCommand(t, "--config", writeTestConfig(t), "-s", "staging", "--dry-run")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	wantLines := []string{
		`send-keys pane=0 "ssh deploy@10.0.0.5"`,
		`send-keys pane=0 "sudo -u deploy tail -f /var/log/app.log"`,
		`send-keys pane=0 "exit"`,
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}

func TestList(t *testing.T) {
	out, err := runCommand(t, "--config", writeTestConfig(t), "--list")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	for _, want := range []string{"Bundles:", "dev.all", "dev.backend", "dev.frontend", "Workspaces:", "api", "Servers:", "staging"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}

func TestBundleFormatErrors(t *testing.T) {
	tests := []string{"nodot", ".name", "group."}

	for _, bundle := range tests {
		t.Run(bundle, func(t *testing.T) {
			_, err := runCommand(t, "--config", writeTestConfig(t), "-b", bundle, "--dry-run")
			if err == nil {
				t.Fatal("expected format error")
			}
			if !strings.Contains(err.Error(), "group.name format") {
				t.Errorf("error %q does not explain the expected format", err)
			}
		})
	}
}

func TestUnknownSelections(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bundle", args: []string{"-b", "dev.missing"}},
		{name: "workspace", args: []string{"-w", "missing"}},
		{name: "server", args: []string{"-s", "missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", writeTestConfig(t), "--dry-run"}, tt.args...)
			if _, err := runCommand(t, args...); err == nil {
				t.Fatal("expected not-found error")
			}
		})
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := runCommand(t, "--config", "/nonexistent/config.toml", "--list")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
