// Package ssh builds the shell commands used to reach remote hosts from
// tmux panes. Connections are plain ssh invocations typed into a pane; this
// package never opens a connection itself.
package ssh

import (
	"fmt"
	"strings"
)

// SplitHost splits a "user@address" host string into its parts.
// ok is false when the @ separator is missing.
func SplitHost(host string) (user, addr string, ok bool) {
	user, addr, ok = strings.Cut(host, "@")
	if !ok || user == "" || addr == "" {
		return "", "", false
	}
	return user, addr, true
}

// Interpolate replaces {user} and {ip} placeholders in a command string.
func Interpolate(command, user, addr string) string {
	command = strings.ReplaceAll(command, "{user}", user)
	return strings.ReplaceAll(command, "{ip}", addr)
}

// ConnectCommand returns the command that opens a session on host.
func ConnectCommand(host string) string {
	return "ssh " + host
}

// DisconnectCommand returns the command that ends a remote session.
func DisconnectCommand() string {
	return "exit"
}

// SessionCommand returns the command prepended to every pane of a workspace
// window, combining the optional host and directory:
//
//	host + dir: ssh -t host "cd dir && exec $SHELL -l"
//	host only:  ssh host
//	dir only:   cd dir
//
// Returns "" when neither is set.
func SessionCommand(host, dir string) string {
	switch {
	case host != "" && dir != "":
		return fmt.Sprintf("ssh -t %s \"cd %s && exec \\$SHELL -l\"", host, dir)
	case host != "":
		return ConnectCommand(host)
	case dir != "":
		return "cd " + dir
	default:
		return ""
	}
}
