package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"reviewmsg/pkg/clipboard"
	"reviewmsg/pkg/config"
	"reviewmsg/pkg/errors"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	// FormatTable is the default human-readable format
	FormatTable OutputFormat = "table"
	// FormatJSON outputs as JSON
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs as YAML
	FormatYAML OutputFormat = "yaml"
)

// OutputWriter handles structured output formatting
type OutputWriter struct {
	format OutputFormat
	writer io.Writer
}

// NewOutputWriter creates a new output writer with the specified format
func NewOutputWriter(format string, writer io.Writer) *OutputWriter {
	f := OutputFormat(format)
	if f != FormatJSON && f != FormatYAML {
		f = FormatTable // default
	}
	return &OutputWriter{
		format: f,
		writer: writer,
	}
}

// IsStructured returns true if the format is JSON or YAML
func (w *OutputWriter) IsStructured() bool {
	return w.format == FormatJSON || w.format == FormatYAML
}

// Write outputs the data in the configured format
func (w *OutputWriter) Write(data interface{}) error {
	switch w.format {
	case FormatJSON:
		encoder := json.NewEncoder(w.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case FormatYAML:
		encoder := yaml.NewEncoder(w.writer)
		defer encoder.Close()
		return encoder.Encode(data)
	default:
		// Table format is handled by individual commands
		return nil
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var openTTY = func() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_WRONLY, 0)
}

// legacyTarget is where OSC 52 sequences go: the controlling terminal when
// it can be opened, stderr otherwise. The returned func releases it.
func legacyTarget() (*os.File, func()) {
	if tty, err := openTTY(); err == nil {
		return tty, func() { tty.Close() }
	}
	return os.Stderr, func() {}
}

// newCopier wires the native clipboard, the OSC 52 fallback and terminal
// notifications from cfg. Call release once the copier is no longer used.
func newCopier(cfg *config.Config) (*clipboard.Copier, func()) {
	target, release := legacyTarget()
	return clipboard.NewCopier(
		clipboard.NewSystemWriter(),
		clipboard.NewOSC52Command(target),
		clipboard.NewTerminalNotifier(os.Stderr, cfg.Clipboard.SuccessMessage, isTerminal(os.Stderr)),
		clipboard.NewTerminalAlerter(os.Stderr),
		clipboard.Options{
			NotifyDuration: cfg.Clipboard.NotifyDuration,
			SelectionLimit: cfg.Clipboard.SelectionLimit,
			FailureMessage: cfg.Clipboard.FailureMessage,
		},
	), release
}

// copySource copies src and, when wait is set, keeps the notification up
// for its full duration before returning.
func copySource(cfg *config.Config, src clipboard.Source, wait bool) error {
	ctx, cancel := GetContext()
	defer cancel()

	copier, release := newCopier(cfg)
	defer release()

	outcome := copier.Copy(ctx, src)
	if wait {
		copier.Wait()
	}
	return outcome.Err()
}

// ShouldCopyOutput checks if the --copy flag was set on the command.
func ShouldCopyOutput(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("copy") {
		copyFlag, _ := cmd.Flags().GetBool("copy")
		return copyFlag
	}
	return copyToClipboardFlag
}

// readInput returns the text of path, or stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.NewWithError(errors.ExitCodeFileOperation, "failed to read stdin", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewWithError(errors.ExitCodeFileOperation, fmt.Sprintf("failed to read %s", path), err)
	}
	return string(data), nil
}

// printMessage writes text to stdout, terminated by exactly one newline.
func printMessage(w io.Writer, text string) {
	fmt.Fprint(w, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(w)
	}
}
