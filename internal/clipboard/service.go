package clipboard

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// CopiedMsg reports the outcome of a clipboard write
type CopiedMsg struct {
	Text string
	Err  error
}

// Service copies text to the system clipboard
type Service interface {
	// Write returns a command that copies text and reports a CopiedMsg
	Write(text string) tea.Cmd
}

// Logger is the subset of slog.Logger the service uses
type Logger interface {
	Debug(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
}

type clipboardService struct {
	logger   Logger
	command  string
	writeAll func(string) error
}

// NewService creates a clipboard service. command, when set, is the fallback
// tool used if the native clipboard is unavailable.
func NewService(logger Logger, command string) Service {
	return &clipboardService{
		logger:   logger,
		command:  command,
		writeAll: clipboard.WriteAll,
	}
}

func (s *clipboardService) Write(text string) tea.Cmd {
	return func() tea.Msg {
		err := s.writeAll(text)
		if err == nil {
			s.logger.Debug("copied to clipboard", "text_length", len(text))
			return CopiedMsg{Text: text}
		}
		s.logger.Warn("native clipboard failed, trying fallback", "error", err)

		parts := parseCommand(s.command)
		if len(parts) == 0 {
			parts = s.defaultCommand()
		}
		if len(parts) == 0 {
			return CopiedMsg{Text: text, Err: fmt.Errorf("no clipboard tool available on %s: %w", runtime.GOOS, err)}
		}

		cmd := exec.Command(parts[0], parts[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if runErr := cmd.Run(); runErr != nil {
			return CopiedMsg{Text: text, Err: errors.Join(err, fmt.Errorf("%s: %w", parts[0], runErr))}
		}

		s.logger.Debug("copied to clipboard", "command", parts[0], "text_length", len(text))
		return CopiedMsg{Text: text}
	}
}

// defaultCommand picks a platform clipboard tool
func (s *clipboardService) defaultCommand() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{"clip.exe"}
	case "darwin":
		return []string{"pbcopy"}
	case "linux":
		if isWSL() {
			return []string{"clip.exe"}
		}
		candidates := [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
		for _, c := range candidates {
			if _, err := exec.LookPath(c[0]); err == nil {
				return c
			}
		}
	}
	return nil
}

// parseCommand splits a command line into arguments, respecting quotes
func parseCommand(command string) []string {
	var parts []string
	var current strings.Builder
	var quote rune

	for _, char := range command {
		switch {
		case quote == 0 && (char == '\'' || char == '"'):
			quote = char
		case quote != 0 && char == quote:
			quote = 0
		case quote == 0 && char == ' ':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// isWSL checks /proc/version for a Windows Subsystem for Linux kernel
func isWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}
