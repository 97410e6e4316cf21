package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Launcher opens trailer URLs in an external player or browser
type Launcher struct {
	command string   // configured command, empty for system default
	args    []string // additional arguments for the command
	logger  *slog.Logger

	// start runs a prepared command; replaced in tests
	start func(cmd *exec.Cmd) error
}

// NewLauncher creates a new Launcher
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
		start:   func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// Open opens url in the configured command or the system default handler
func (l *Launcher) Open(url string) error {
	if url == "" {
		return fmt.Errorf("no URL to open")
	}

	// Tier 1: User configured a specific command (mpv, vlc, firefox, ...)
	if l.command != "" {
		return l.start(l.configuredCommand(url))
	}

	// Tier 2: System default (open/xdg-open/start)
	return l.start(l.defaultCommand(url))
}

// configuredCommand builds the command for the configured player
func (l *Launcher) configuredCommand(url string) *exec.Cmd {
	args := append([]string{}, l.args...)

	// On macOS, launch GUI apps with 'open -a' if command not in PATH
	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath(l.command); err != nil {
			app := strings.TrimSuffix(filepath.Base(l.command), filepath.Ext(l.command))
			cmdArgs := []string{"-a", app}
			if len(args) > 0 {
				cmdArgs = append(cmdArgs, "--args")
				cmdArgs = append(cmdArgs, args...)
			}
			cmdArgs = append(cmdArgs, url) // URL at the end
			l.logger.Info("using macOS 'open -a' to launch GUI app", "app", app, "args", cmdArgs)
			return exec.Command("open", cmdArgs...)
		}
	}

	args = append(args, url)
	l.logger.Info("launching trailer", "command", l.command, "args", args)
	return exec.Command(l.command, args...)
}

// defaultCommand builds the command for the system default handler
func (l *Launcher) defaultCommand(url string) *exec.Cmd {
	l.logger.Info("launching with system default", "os", runtime.GOOS, "url", url)

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", url)
	default:
		// Linux and other Unix-like systems
		return exec.Command("xdg-open", url)
	}
}
