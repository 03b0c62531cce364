// Command launcher is the deployment entry point: it prints the startup
// notice and hands the process's standard streams to the stampbot binary,
// exiting with stampbot's own exit code.
package main

import (
	"os"

	"stampbot/internal/launcher"
)

func main() {
	l := &launcher.Launcher{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(l.Run())
}
