package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// ProgressStep represents a single step in a multi-step process
type ProgressStep struct {
	Message string
	Fn      func() error
}

// ShowProgress runs fn behind a spinner. It uses gum when available, a
// built-in spinner otherwise, and plain logging when stderr is not a terminal.
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !IsTerminal(os.Stderr) {
		LogInfo(message)
		return fn()
	}

	if GumAvailable() {
		return showProgressWithGum(ctx, message, fn)
	}

	return showProgressSimple(ctx, message, fn)
}

// ShowProgressWithSteps shows progress for multiple steps
func ShowProgressWithSteps(ctx context.Context, steps []ProgressStep) error {
	for i, step := range steps {
		msg := step.Message
		if IsTerminal(os.Stderr) {
			msg = fmt.Sprintf("[%d/%d] %s", i+1, len(steps), step.Message)
		}
		if err := ShowProgress(ctx, msg, step.Fn); err != nil {
			return fmt.Errorf("%s: %w", step.Message, err)
		}
	}
	return nil
}

// showProgressWithGum uses gum spinner for progress
func showProgressWithGum(ctx context.Context, message string, fn func() error) error {
	done := make(chan error, 1)
	spinnerDone := make(chan struct{})

	cmd := exec.CommandContext(ctx, "gum", "spin", "--spinner", "dot", "--title", message, "--", "sh", "-c", "while true; do sleep 0.1; done")
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stderr

	if err := cmd.Start(); err != nil {
		return showProgressSimple(ctx, message, fn)
	}
	go func() {
		defer close(spinnerDone)
		_ = cmd.Wait()
	}()

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		_ = cmd.Process.Kill()
		<-spinnerDone
		return finishLine(message, err)
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-spinnerDone
		return ctx.Err()
	}
}

// showProgressSimple uses a simple text-based spinner
func showProgressSimple(ctx context.Context, message string, fn func() error) error {
	spinnerChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	done := make(chan error, 1)
	stop := make(chan struct{})
	spinnerDone := make(chan struct{})

	go func() {
		defer close(spinnerDone)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			case <-ticker.C:
				char := spinnerChars[i%len(spinnerChars)]
				fmt.Fprintf(os.Stderr, "\r%s %s", progressStyle.Render(char), message)
			}
		}
	}()

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		close(stop)
		<-spinnerDone
		return finishLine(message, err)
	case <-ctx.Done():
		close(stop)
		<-spinnerDone
		fmt.Fprintln(os.Stderr)
		return ctx.Err()
	}
}

func finishLine(message string, err error) error {
	if err != nil {
		fmt.Fprintf(os.Stderr, "\r%s %s\n", errorStyle.Render("✗"), message)
		return err
	}
	fmt.Fprintf(os.Stderr, "\r%s %s\n", successStyle.Render("✓"), message)
	return nil
}

// GumAvailable checks if the gum binary is on PATH
func GumAvailable() bool {
	_, err := exec.LookPath("gum")
	return err == nil
}

// IsTerminal checks if the writer is a terminal
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	if IsTerminal(os.Stdout) {
		fmt.Printf("%s %s\n", successStyle.Render("✓"), message)
	} else {
		fmt.Println(message)
	}
}

// PrintError prints an error message
func PrintError(message string) {
	if IsTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("✗"), message)
	} else {
		fmt.Fprintf(os.Stderr, "%s\n", message)
	}
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	if IsTerminal(os.Stdout) {
		fmt.Printf("%s %s\n", progressStyle.Render("ℹ"), message)
	} else {
		fmt.Println(message)
	}
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	if IsTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "%s %s\n", warningStyle.Render("⚠"), message)
	} else {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", message)
	}
}
