// Package audio plays the clock's sound effects.
package audio

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Player plays a named sound such as "soundactivated" or "3pm".
type Player interface {
	Play(sound string) error
}

// Bell rings the terminal bell for every sound.
type Bell struct {
	W io.Writer
}

func (b Bell) Play(string) error {
	_, err := io.WriteString(b.W, "\a")
	return err
}

// Command plays <Dir>/<sound>.ogg with an external program, e.g. "paplay"
// or "afplay". The program runs in the background.
type Command struct {
	Program []string
	Dir     string
	Logger  *zap.Logger

	start func(*exec.Cmd) error
}

// NewCommand splits a command line like "mpv --really-quiet" into a player.
func NewCommand(cmdline, dir string, logger *zap.Logger) (*Command, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty sound command")
	}
	return &Command{Program: fields, Dir: dir, Logger: logger}, nil
}

// Path returns the file played for sound.
func (c *Command) Path(sound string) string {
	return filepath.Join(c.Dir, sound+".ogg")
}

func (c *Command) Play(sound string) error {
	path := c.Path(sound)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("play %s: %w", sound, err)
	}
	args := append(append([]string(nil), c.Program[1:]...), path)
	cmd := exec.Command(c.Program[0], args...)

	start := c.start
	if start == nil {
		start = runDetached(c.Logger)
	}
	if err := start(cmd); err != nil {
		return fmt.Errorf("play %s: %w", sound, err)
	}
	c.Logger.Debug("playing sound", zap.String("sound", sound), zap.String("path", path))
	return nil
}

func runDetached(logger *zap.Logger) func(*exec.Cmd) error {
	return func(cmd *exec.Cmd) error {
		if err := cmd.Start(); err != nil {
			return err
		}
		go func() {
			if err := cmd.Wait(); err != nil {
				logger.Warn("sound player exited", zap.Error(err))
			}
		}()
		return nil
	}
}

// Mute discards every sound.
type Mute struct{}

func (Mute) Play(string) error { return nil }

// New picks a player: the external command when one is configured, the
// terminal bell otherwise.
func New(cmdline, dir string, bell io.Writer, logger *zap.Logger) (Player, error) {
	if strings.TrimSpace(cmdline) == "" {
		if bell == nil {
			return Mute{}, nil
		}
		return Bell{W: bell}, nil
	}
	c, err := NewCommand(cmdline, dir, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}
