package tmux

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CurrentWindowIndex returns the index of the currently active window.
func CurrentWindowIndex(runner Runner) (int, error) {
	out, err := runner.Run("display-message", "-p", "#{window_index}")
	if err != nil {
		return 0, fmt.Errorf("getting current window: %w", err)
	}
	index, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("parsing window index %q: %w", strings.TrimSpace(out), err)
	}
	return index, nil
}

// PaneIndices returns the pane indices of the current window in order.
// Querying tmux directly handles configurations where pane-base-index is
// set to 1 instead of 0.
func PaneIndices(runner Runner) ([]int, error) {
	out, err := runner.Run("list-panes", "-F", "#{pane_index}")
	if err != nil {
		return nil, fmt.Errorf("listing panes: %w", err)
	}
	return parsePaneIndices(out), nil
}

// parsePaneIndices parses `tmux list-panes -F '#{pane_index}'` output.
func parsePaneIndices(output string) []int {
	var indices []int
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			continue
		}
		indices = append(indices, n)
	}
	return indices
}

var nonAlphaHyphen = regexp.MustCompile(`[^a-z0-9-]`)
var multiHyphen = regexp.MustCompile(`-{2,}`)

// WindowSlug converts a window name into a tmux-safe slug.
// Example: "Café Logs" -> "cafe-logs".
func WindowSlug(name string) string {
	// NFD decomposition then remove diacritical marks
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, name)
	if err != nil {
		result = name
	}

	result = strings.ToLower(result)
	result = strings.ReplaceAll(result, " ", "-")
	result = nonAlphaHyphen.ReplaceAllString(result, "")
	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
