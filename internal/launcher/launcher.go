// Package launcher starts the stampbot process and mirrors its exit status.
//
// Its observable behavior is deliberately small: print one startup line,
// hand the standard streams over to the child, wait, and exit with whatever
// code the child exited with. There is no retry and no recovery path; a
// child that cannot be started surfaces as exit code 127.
package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

// StartupNotice is the single line written to stdout before the target
// process starts.
const StartupNotice = "Starting Discord bot and web server..."

// DefaultTarget is the program the launcher starts when none is configured.
const DefaultTarget = "stampbot"

// ExitStartFailure is the exit code when the target cannot be located or
// started, matching the shell's "command not found" convention.
const ExitStartFailure = 127

// Launcher runs one target process with inherited streams and environment.
type Launcher struct {
	// Target is the program to start; DefaultTarget when empty. A name
	// without a path separator is resolved next to the launcher binary
	// first, then on PATH.
	Target string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run prints the startup notice, starts the target process, waits for it,
// and returns the code the launcher should exit with.
func (l *Launcher) Run() int {
	target := l.Target
	if target == "" {
		target = DefaultTarget
	}

	fmt.Fprintln(l.Stdout, StartupNotice)

	path, err := resolveTarget(target)
	if err != nil {
		fmt.Fprintf(l.Stderr, "launcher: %v\n", err)
		return ExitStartFailure
	}

	cmd := exec.Command(path)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(l.Stderr, "launcher: start %s: %v\n", target, err)
		return ExitStartFailure
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitStatus(exitErr)
		}
		fmt.Fprintf(l.Stderr, "launcher: wait %s: %v\n", target, err)
		return 1
	}
	return 0
}

// exitStatus maps a finished child to an exit code. A signal-killed child
// reports 128 + signal number, the way shells do.
func exitStatus(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return 1
}

// resolveTarget locates the target binary. Bare names are looked up next to
// the launcher executable first so an installed pair of binaries works
// without PATH setup, then fall back to a normal PATH lookup.
func resolveTarget(target string) (string, error) {
	if strings.ContainsRune(target, os.PathSeparator) {
		if _, err := os.Stat(target); err != nil {
			return "", fmt.Errorf("locate %s: %w", target, err)
		}
		return target, nil
	}

	if exe, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exe), target)
		if info, err := os.Stat(sibling); err == nil && !info.IsDir() {
			return sibling, nil
		}
	}

	path, err := exec.LookPath(target)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", target, err)
	}
	return path, nil
}
