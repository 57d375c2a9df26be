package transcode

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Executor runs an external command, streaming stdout lines to onStdout.
// The returned string is the tail of stderr for diagnostics.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) (string, error)
}

const (
	stderrTailLines = 20
	maxStdoutLine   = 256 << 10
)

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) (string, error) {
	tail := &tailWriter{max: stderrTailLines}
	cmd := commandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stderr = tail
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start %s: %w", binary, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 4096), maxStdoutLine)
	for scanner.Scan() {
		if onStdout != nil {
			onStdout(scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return tail.String(), fmt.Errorf("read %s output: %w", binary, err)
	}
	if err := cmd.Wait(); err != nil {
		return tail.String(), fmt.Errorf("%s: %w", binary, err)
	}
	return tail.String(), nil
}

// tailWriter keeps the last max non-blank lines written to it. ffmpeg
// separates status updates with '\r', so both '\r' and '\n' end a line.
// exec copies stderr from a single goroutine and String is read after Wait.
type tailWriter struct {
	max     int
	lines   []string
	partial []byte
}

func (t *tailWriter) Write(p []byte) (int, error) {
	t.partial = append(t.partial, p...)
	for {
		i := bytes.IndexAny(t.partial, "\r\n")
		if i < 0 {
			break
		}
		t.push(string(t.partial[:i]))
		t.partial = t.partial[i+1:]
	}
	return len(p), nil
}

func (t *tailWriter) push(line string) {
	if line = strings.TrimSpace(line); line == "" {
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

func (t *tailWriter) String() string {
	lines := t.lines
	if rest := strings.TrimSpace(string(t.partial)); rest != "" {
		lines = append(lines[:len(lines):len(lines)], rest)
		if len(lines) > t.max {
			lines = lines[len(lines)-t.max:]
		}
	}
	return strings.Join(lines, "\n")
}
