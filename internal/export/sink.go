package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/iksnae/mychatbot/internal"
)

// SaveOutcome is the result of a negotiated save
type SaveOutcome int

const (
	SaveSuccess SaveOutcome = iota
	SaveCancelled
	SaveUnsupported
)

func (o SaveOutcome) String() string {
	switch o {
	case SaveSuccess:
		return "success"
	case SaveCancelled:
		return "cancelled"
	default:
		return "unsupported"
	}
}

// FileSink saves export bytes somewhere the user picks
type FileSink interface {
	Save(ctx context.Context, data []byte, suggestedName, mimeType string) SaveOutcome
}

// SaveDialog asks the user where to save. Choose returns ErrSaveCancelled
// when the user backs out.
type SaveDialog interface {
	Supported() bool
	Choose(ctx context.Context, suggestedName, mimeType string) (string, error)
}

// NegotiatingSink saves through a SaveDialog when one is available
type NegotiatingSink struct {
	Dialog SaveDialog
}

// NewNegotiatingSink creates a sink over dialog. A nil dialog makes every
// save Unsupported.
func NewNegotiatingSink(dialog SaveDialog) *NegotiatingSink {
	return &NegotiatingSink{Dialog: dialog}
}

// Save asks the dialog for a path and writes data there. Any failure other
// than a cancellation is reported as Unsupported so the caller falls back.
func (s *NegotiatingSink) Save(ctx context.Context, data []byte, suggestedName, mimeType string) SaveOutcome {
	if s.Dialog == nil || !s.Dialog.Supported() {
		return SaveUnsupported
	}

	path, err := s.Dialog.Choose(ctx, suggestedName, mimeType)
	if errors.Is(err, internal.ErrSaveCancelled) {
		internal.LogDebug("Save of %s cancelled", suggestedName)
		return SaveCancelled
	}
	if err != nil {
		internal.LogWarn("Save dialog failed: %v", err)
		return SaveUnsupported
	}

	if err := internal.AtomicWriteFile(path, data, 0644); err != nil {
		internal.LogWarn("Failed to save %s: %v", path, err)
		return SaveUnsupported
	}
	internal.LogInfo("Saved %s", path)
	return SaveSuccess
}

// gumCancelledExitCode is what gum exits with on ctrl+c or esc
const gumCancelledExitCode = 130

// GumDialog prompts for a save path with `gum input`
type GumDialog struct {
	// Dir is prefilled and resolves relative answers
	Dir string

	run func(ctx context.Context, args ...string) (string, error)
}

// NewGumDialog creates a dialog that proposes paths under dir
func NewGumDialog(dir string) *GumDialog {
	return &GumDialog{Dir: dir, run: runGum}
}

// Supported reports whether gum is installed and the session is interactive
func (d *GumDialog) Supported() bool {
	return internal.GumAvailable() && internal.IsTerminal(os.Stdin) && internal.IsTerminal(os.Stderr)
}

// Choose prompts for a path, prefilled with the suggested name
func (d *GumDialog) Choose(ctx context.Context, suggestedName, mimeType string) (string, error) {
	run := d.run
	if run == nil {
		run = runGum
	}
	out, err := run(ctx, "input",
		"--header", fmt.Sprintf("Save %s as", mimeType),
		"--value", filepath.Join(d.Dir, suggestedName),
		"--placeholder", suggestedName,
	)
	if err != nil {
		return "", err
	}

	path := strings.TrimSpace(out)
	if path == "" {
		return "", internal.ErrSaveCancelled
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.Dir, path)
	}
	return path, nil
}

func runGum(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "gum", args...)
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == gumCancelledExitCode {
		return "", internal.ErrSaveCancelled
	}
	if err != nil {
		return "", fmt.Errorf("gum input failed: %w", err)
	}
	return string(out), nil
}

// Downloader is the fallback used when no save dialog is available. It
// returns where the file went.
type Downloader interface {
	Download(ctx context.Context, data []byte, name, mimeType string) (string, error)
}

// DirDownloader drops files into a fixed directory, never overwriting
type DirDownloader struct {
	Dir string
}

// Download writes data to Dir/name, adding " (n)" before the extension when
// the name is taken
func (d *DirDownloader) Download(_ context.Context, data []byte, name, _ string) (string, error) {
	path, err := reservePath(d.Dir, filepath.Base(name))
	if err != nil {
		return "", &internal.ExportError{Format: filepath.Ext(name), Path: filepath.Join(d.Dir, filepath.Base(name)), Err: err}
	}
	if err := internal.AtomicWriteFile(path, data, 0644); err != nil {
		_ = os.Remove(path)
		return "", &internal.ExportError{Format: filepath.Ext(name), Path: path, Err: err}
	}
	return path, nil
}

// reservePath creates an empty file at the first free name in dir. The
// create is exclusive, so a file that appears concurrently is skipped rather
// than replaced.
func reservePath(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	path := filepath.Join(dir, name)
	for n := 1; ; n++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return path, f.Close()
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		path = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
	}
}

// Delivery reports how an export reached the user
type Delivery struct {
	Outcome SaveOutcome
	// Path is set when the fallback downloader wrote the file
	Path string
}

// Deliver saves result through sink and, only when the sink reports
// Unsupported, through fallback
func Deliver(ctx context.Context, result Result, sink FileSink, fallback Downloader) (Delivery, error) {
	outcome := SaveUnsupported
	if sink != nil {
		outcome = sink.Save(ctx, result.Data, result.FileName, result.MIMEType)
	}
	if outcome != SaveUnsupported {
		return Delivery{Outcome: outcome}, nil
	}

	if fallback == nil {
		return Delivery{Outcome: outcome}, &internal.ExportError{
			Format: result.Kind.String(), Path: result.FileName,
			Err: errors.New("no save dialog and no download directory"),
		}
	}
	path, err := fallback.Download(ctx, result.Data, result.FileName, result.MIMEType)
	if err != nil {
		return Delivery{Outcome: outcome}, err
	}
	internal.LogInfo("Downloaded %s", path)
	return Delivery{Outcome: outcome, Path: path}, nil
}
