package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"reviewmsg/pkg/logger"

	"github.com/fatih/color"
)

type ExitCode int

const (
	ExitCodeSuccess       ExitCode = 0
	ExitCodeGeneral       ExitCode = 1
	ExitCodeConfig        ExitCode = 2
	ExitCodeClipboard     ExitCode = 3
	ExitCodeResolve       ExitCode = 4
	ExitCodeNotFound      ExitCode = 5
	ExitCodeValidation    ExitCode = 6
	ExitCodeFileOperation ExitCode = 7
	ExitCodeCancellation  ExitCode = 8
	ExitCodeStorage       ExitCode = 9
)

// Standardized error messages for consistent user-facing errors
const (
	ErrMsgCopyFailed    = "クリップボードへのコピーに失敗しました。手動でコピーしてください。"
	ErrMsgResolveFailed = "Failed to resolve shop URL"
	ErrMsgStoreFailed   = "Shop store operation failed"
	ErrMsgInvalidInput  = "Invalid input provided"
)

type Error struct {
	Code       ExitCode
	Message    string
	Underlying error
	Suggestion string
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func New(code ExitCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewWithError(code ExitCode, message string, err error) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

func NewWithSuggestion(code ExitCode, message string, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var wrapped *Error
	if stderrors.As(err, &wrapped) {
		return &Error{
			Code:       wrapped.Code,
			Message:    message + ": " + wrapped.Message,
			Underlying: wrapped.Underlying,
			Suggestion: wrapped.Suggestion,
		}
	}

	return &Error{
		Code:       ExitCodeGeneral,
		Message:    message,
		Underlying: err,
	}
}

func IsExitCode(err error, code ExitCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the exit code carried by err, or ExitCodeGeneral.
func CodeOf(err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ExitCodeGeneral
}

// HandleReturn logs err, prints it to stderr and returns the exit code.
// The caller is responsible for exiting the program.
func HandleReturn(err error) ExitCode {
	return handleTo(os.Stderr, err)
}

func handleTo(w io.Writer, err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}

	exitCode := ExitCodeGeneral
	var message string
	var suggestion string

	var e *Error
	if stderrors.As(err, &e) {
		exitCode = e.Code
		message = e.Message
		suggestion = e.Suggestion

		if e.Underlying != nil {
			logger.Error().Err(e.Underlying).Msg(e.Message)
		} else {
			logger.Error().Msg(e.Message)
		}
	} else {
		message = err.Error()
		logger.Error().Msg(message)
	}

	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(w)
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, message)

	if suggestion != "" {
		yellow.Fprint(w, "Suggestion: ")
		lines := strings.Split(suggestion, "\n")
		for i, line := range lines {
			if i == 0 {
				fmt.Fprintln(w, line)
			} else if strings.HasPrefix(line, "  -") {
				cyan.Fprintln(w, line)
			} else {
				fmt.Fprintln(w, "           "+line)
			}
		}
	}

	fmt.Fprintln(w)

	return exitCode
}

func ConfigError(message string) *Error {
	return &Error{
		Code:       ExitCodeConfig,
		Message:    message,
		Suggestion: "Check your configuration file (~/.config/reviewmsg/config.yaml) or set the required environment variables.",
	}
}

// StorageError reports a failed shop store operation, prefixed with op.
func StorageError(op string, err error) *Error {
	return Wrap(NewWithError(ExitCodeStorage, ErrMsgStoreFailed, err), op)
}

// InvalidInputError reports a malformed flag value.
func InvalidInputError(err error) *Error {
	return NewWithError(ExitCodeValidation, ErrMsgInvalidInput, err)
}

func ValidationError(message string) *Error {
	return &Error{
		Code:    ExitCodeValidation,
		Message: message,
	}
}

func ShopNotFoundError(shopID string, known []string) *Error {
	suggestion := "Use 'reviewmsg shops list' to see all shops."
	if len(known) > 0 {
		suggestion = "Known shops:\n"
		for _, id := range known {
			suggestion += fmt.Sprintf("  - %s\n", id)
		}
	}
	return &Error{
		Code:       ExitCodeNotFound,
		Message:    fmt.Sprintf("Shop '%s' not found", shopID),
		Suggestion: strings.TrimRight(suggestion, "\n"),
	}
}

func ClipboardError(reason string) *Error {
	return &Error{
		Code:       ExitCodeClipboard,
		Message:    ErrMsgCopyFailed,
		Underlying: stderrors.New(reason),
		Suggestion: "Install xclip, xsel or wl-copy, or run inside a terminal that supports OSC 52.",
	}
}

func CancelledError(operation string) *Error {
	return &Error{
		Code:       ExitCodeCancellation,
		Message:    fmt.Sprintf("Operation cancelled: %s", operation),
		Suggestion: "The operation was interrupted. No changes were made.",
	}
}
