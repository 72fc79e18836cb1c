package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/couchcryptid/forecast-screen/internal/screen"
)

// Controller is the subset of the render driver a terminal session drives.
type Controller interface {
	Retry() error
	Dismiss() error
	Toggle(i int) error
	Updates() <-chan screen.Snapshot
}

// Session paints driver updates to out and turns lines read from in into
// screen actions. All painting happens on the goroutine running Run.
type Session struct {
	ctrl        Controller
	in          io.Reader
	out         io.Writer
	logger      *slog.Logger
	clearFrames bool
}

// NewSession creates a terminal session. When clearFrames is set every frame
// starts by clearing the terminal.
func NewSession(ctrl Controller, in io.Reader, out io.Writer, clearFrames bool, logger *slog.Logger) *Session {
	return &Session{ctrl: ctrl, in: in, out: out, clearFrames: clearFrames, logger: logger}
}

// Run paints and handles input until ctx is done, the user quits, or the
// driver closes its updates. End of input stops command handling only.
func (s *Session) Run(ctx context.Context) error {
	lines := make(chan string)
	go s.readLines(ctx, lines)

	updates := s.ctrl.Updates()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if err := s.paint(snap); err != nil {
				return fmt.Errorf("paint: %w", err)
			}
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			if quit := s.handle(line); quit {
				return nil
			}
		}
	}
}

func (s *Session) readLines(ctx context.Context, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.logger.Warn("terminal input failed", "error", err)
	}
}

func (s *Session) paint(snap screen.Snapshot) error {
	if s.clearFrames {
		if _, err := io.WriteString(s.out, clearScreen); err != nil {
			return err
		}
	}
	return Paint(s.out, snap)
}

// handle runs one command and reports whether the session should end.
func (s *Session) handle(line string) bool {
	cmd := strings.ToLower(strings.TrimSpace(line))

	var err error
	switch cmd {
	case "":
		return false
	case "q", "quit":
		return true
	case "y", "r", "retry":
		err = s.ctrl.Retry()
	case "n", "d", "dismiss":
		err = s.ctrl.Dismiss()
	default:
		n, convErr := strconv.Atoi(cmd)
		if convErr != nil {
			fmt.Fprintf(s.out, "unknown command %q\n", cmd)
			return false
		}
		err = s.ctrl.Toggle(n - 1)
	}

	if err != nil {
		s.logger.Debug("terminal command rejected", "command", cmd, "error", err)
		fmt.Fprintf(s.out, "! %v\n", err)
	}
	return false
}
