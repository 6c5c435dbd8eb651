package grid

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard is the grid's copy/paste backend. Failures never reach the user
// as errors; the grid logs them and leaves the status line alone.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// SystemClipboard uses the OS clipboard, falling back to the platform
// clipboard commands when atotto/clipboard has no backend.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if err := clipboard.WriteAll(s); err == nil {
		return nil
	}
	return copyWithCommand(s)
}

func (SystemClipboard) ReadText() (string, error) {
	return clipboard.ReadAll()
}

func copyWithCommand(s string) error {
	switch runtime.GOOS {
	case "darwin":
		return runClipboardCmd("pbcopy", nil, s)
	case "windows":
		return runClipboardCmd("cmd", []string{"/c", "clip"}, s)
	default:
		// Prefer Wayland if available, then X11.
		if err := runClipboardCmd("wl-copy", nil, s); err == nil {
			return nil
		}
		if err := runClipboardCmd("xclip", []string{"-selection", "clipboard"}, s); err == nil {
			return nil
		}
		return runClipboardCmd("xsel", []string{"--clipboard", "--input"}, s)
	}
}

func runClipboardCmd(name string, args []string, stdin string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	if err := cmd.Run(); err != nil {
		return errors.New(name + ": " + err.Error())
	}
	return nil
}

// MemoryClipboard keeps clipboard text in process. Used in tests and headless runs.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
	// Err, when set, is returned from WriteText.
	Err error
}

func (m *MemoryClipboard) WriteText(s string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text = s
	return nil
}

func (m *MemoryClipboard) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}
