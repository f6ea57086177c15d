// Package shell starts desktop programs on behalf of link clicks. Every call
// is best effort: processes are started and reaped in the background and
// their exit status is never reported.
package shell

import (
	"fmt"
	"os/exec"
	"runtime"
)

// System talks to the host OS.
type System struct {
	// GOOS overrides runtime.GOOS when picking the URL opener.
	GOOS string

	// start launches cmd; defaults to exec.Cmd.Start.
	start func(cmd *exec.Cmd) error
}

// OpenExternal opens url in the user's default browser.
func (s System) OpenExternal(url string) error {
	name, args := openCommand(s.goos(), url)
	return s.Launch(name, args...)
}

// Launch starts command with args without waiting for it. args are passed
// verbatim, never through a shell.
func (s System) Launch(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	start := s.start
	if start == nil {
		start = startAndReap
	}
	if err := start(cmd); err != nil {
		return fmt.Errorf("shell: start %s: %w", command, err)
	}
	return nil
}

func (s System) goos() string {
	if s.GOOS != "" {
		return s.GOOS
	}
	return runtime.GOOS
}

func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

func startAndReap(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
