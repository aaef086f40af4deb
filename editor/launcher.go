package editor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// Result is the outcome of a finished command.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Launcher finds and runs external commands.
type Launcher interface {
	// LookPath returns the path of the named command on the command search path.
	LookPath(name string) (string, error)
	// Run starts the command and waits for it to exit. A non-zero exit is
	// reported through Result, err is only set when the command could not
	// be run at all.
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecLauncher runs commands with os/exec. Commands inherit the environment,
// their output is written to Stdout and Stderr while also being captured.
type ExecLauncher struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecLauncher() ExecLauncher {
	return ExecLauncher{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (l ExecLauncher) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (l ExecLauncher) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = tee(&stdout, l.Stdout)
	cmd.Stderr = tee(&stderr, l.Stderr)

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
