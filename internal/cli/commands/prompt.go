package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// errCancelled is returned when the user declines a confirmation
var errCancelled = errors.New("cancelled")

// promptValue asks for value when it is empty and the terminal is interactive
func (a *App) promptValue(label, value, flag string) (string, error) {
	if value != "" {
		return value, nil
	}
	if !a.interactive {
		return "", fmt.Errorf("%s is required in non-interactive mode (use --%s)", strings.ToLower(label), flag)
	}

	prompt := promptui.Prompt{
		Label: label,
	}
	result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s prompt cancelled: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(result), nil
}

// promptPassword reads a password without echo
func (a *App) promptPassword(label, value, flag string) (string, error) {
	if value != "" {
		return value, nil
	}
	if !a.interactive {
		return "", fmt.Errorf("%s is required in non-interactive mode (use --%s flag or GYMFEETRACK_PASSWORD env var)", strings.ToLower(label), flag)
	}

	fmt.Fprintf(a.out, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

// confirm asks a yes/no question. Without a terminal only --yes confirms.
func (a *App) confirm(label string, yes bool) error {
	if yes {
		return nil
	}
	if !a.interactive {
		return fmt.Errorf("refusing to continue without confirmation (use --yes)")
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		return errCancelled
	}
	return nil
}
