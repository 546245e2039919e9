package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/sirupsen/logrus"
)

func (ts *Toolset) executeCommand(ctx context.Context, p ExecuteCommandParams) (string, error) {
	dir, err := ts.resolve(p.Directory)
	if err != nil {
		return "", err
	}
	args, err := shellwords.Parse(p.Command)
	if err != nil {
		return "", invalid(fmt.Errorf("parsing command: %w", err))
	}
	if len(args) == 0 {
		return "", invalid(errors.New("command is empty"))
	}

	timeout := ts.opts.ExecTimeout
	if p.TimeoutSeconds > 0 {
		if requested := time.Duration(p.TimeoutSeconds) * time.Second; requested < timeout {
			timeout = requested
		}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logrus.WithFields(logrus.Fields{"tool": "execute_command", "argv": args, "dir": ts.rel(dir)}).Info("running command")
	runErr := cmd.Run()

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return "", fmt.Errorf("running %s: %w", args[0], runErr)
		}
		exitCode = exitErr.ExitCode()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "exit code: %d\n", exitCode)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		fmt.Fprintf(&b, "command timed out after %s\n", timeout)
	}
	b.WriteString("stdout:\n")
	b.WriteString(stdout.String())
	b.WriteString("\nstderr:\n")
	b.WriteString(stderr.String())
	return b.String(), nil
}
