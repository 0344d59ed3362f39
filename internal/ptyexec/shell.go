package ptyexec

import (
	"os"
	"os/exec"
	"runtime"
)

// detectShell picks a login-capable shell the same way the rest of the
// codebase's command execution does: respect $SHELL unless it names an
// interpreter with incompatible -lc/-c semantics, otherwise fall back per
// platform.
func detectShell() string {
	if s := os.Getenv("SHELL"); s != "" {
		switch s {
		case "/bin/fish", "/usr/bin/fish", "/bin/nu", "/usr/bin/nu":
		default:
			return s
		}
	}

	if runtime.GOOS == "darwin" {
		return "/bin/zsh"
	}

	if bash, err := exec.LookPath("bash"); err == nil {
		return bash
	}
	return "/bin/sh"
}
