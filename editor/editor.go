// Package editor locates a VS Code compatible command line and installs
// extension packages with it.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

const installFlag = "--install-extension"

var (
	ErrEditorNotFound = errors.New("no VS Code CLI tool found")
	ErrInstallCommand = errors.New("extension installation failed")
)

// Candidates are probed in order when no editor command is given.
var Candidates = []string{"code", "codium", "vscodium"}

// Detect returns the editor command to use. If preferred is set only that
// command is considered, otherwise the first of Candidates found on the
// search path is returned.
func Detect(l Launcher, preferred string) (string, error) {
	if preferred != "" {
		if _, err := l.LookPath(preferred); err != nil {
			return "", fmt.Errorf("%w: specified CLI %s not found in PATH", ErrEditorNotFound, preferred)
		}
		log.Debug().Str("editor", preferred).Msg("using specified editor CLI")
		return preferred, nil
	}
	for _, cmd := range Candidates {
		if path, err := l.LookPath(cmd); err == nil {
			log.Debug().Str("editor", cmd).Str("path", path).Msg("auto-detected editor CLI")
			return cmd, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrEditorNotFound, strings.Join(Candidates, ", "))
}

// Install installs the package file with the editor command. Success is
// whatever the editor reports through its exit code.
func Install(ctx context.Context, l Launcher, cmd, file string) error {
	res, err := l.Run(ctx, cmd, installFlag, file)
	if err != nil {
		return fmt.Errorf("%w: running %s: %w", ErrInstallCommand, cmd, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: %s exited with status %v", ErrInstallCommand, cmd, res.ExitCode)
	}
	return nil
}
