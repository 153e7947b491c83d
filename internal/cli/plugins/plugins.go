// Package plugins runs external chatlens subcommands. A command "foo" that is
// not built in is served by an executable named chatlens-foo.
package plugins

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Prefix is prepended to a command name to form the plugin binary name.
const Prefix = "chatlens-"

// Environment passed to every plugin.
const (
	EnvVersion = "CHATLENS_VERSION"
	EnvConfig  = "CHATLENS_CONFIG"
)

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Finder locates plugin binaries in an ordered list of directories, then PATH.
type Finder struct {
	dirs    []string
	usePath bool
}

// FinderOption configures a Finder.
type FinderOption func(*Finder)

// WithDirs replaces the directories searched before PATH.
func WithDirs(dirs ...string) FinderOption {
	return func(f *Finder) {
		f.dirs = dirs
	}
}

// WithoutPath disables the PATH lookup.
func WithoutPath() FinderOption {
	return func(f *Finder) {
		f.usePath = false
	}
}

// NewFinder returns a Finder searching the directory of the running binary,
// ~/.chatlens/plugins and PATH, in that order.
func NewFinder(opts ...FinderOption) *Finder {
	f := &Finder{
		dirs:    DefaultDirs(),
		usePath: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// DefaultDirs returns the directories searched before PATH.
func DefaultDirs() []string {
	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(homeDir, ".chatlens", "plugins"))
	}
	return dirs
}

// Find returns the full path of the plugin serving command.
func (f *Finder) Find(command string) (string, error) {
	if command == "" || strings.ContainsRune(command, filepath.Separator) {
		return "", ErrPluginNotFound
	}
	name := Prefix + command

	for _, dir := range f.dirs {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if f.usePath {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", ErrPluginNotFound
}

// Command builds the process for a plugin. Stdio is inherited; version and
// the --config value found in args are exported to the child.
func Command(pluginPath string, args []string, version string) *exec.Cmd {
	cmd := exec.Command(pluginPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), EnvVersion+"="+version)
	if cfg := configArg(args); cfg != "" {
		cmd.Env = append(cmd.Env, EnvConfig+"="+cfg)
	}
	return cmd
}

// Run executes cmd and returns its exit code.
func Run(cmd *exec.Cmd) int {
	err := cmd.Run()
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "Error executing plugin: %v\n", err)
	return 2
}

// configArg returns the value of -c/--config in args, if any.
func configArg(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

// FormatNotFoundError describes where a plugin for command could be installed.
func FormatNotFoundError(command string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "unknown command %q for \"chatlens\"\n", command)
	sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	fmt.Fprintf(&sb, "  - %s%s in the same directory as chatlens\n", Prefix, command)
	fmt.Fprintf(&sb, "  - ~/.chatlens/plugins/%s%s\n", Prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)
	sb.WriteString("\nRun 'chatlens --help' for usage.")

	return sb.String()
}

// isExecutable reports whether path is a regular file with an execute bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0o111 != 0
}
