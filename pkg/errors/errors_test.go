package errors

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "basic error without underlying",
			err:      &Error{Code: ExitCodeGeneral, Message: "test error"},
			expected: "test error",
		},
		{
			name:     "error with underlying",
			err:      &Error{Code: ExitCodeConfig, Message: "config error", Underlying: errors.New("file not found")},
			expected: "config error: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := NewWithError(ExitCodeResolve, "test error", underlying)

	if !errors.Is(err, underlying) {
		t.Errorf("errors.Is(err, underlying) = false, want true")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "msg") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	plain := Wrap(errors.New("boom"), "loading")
	if plain.Code != ExitCodeGeneral {
		t.Errorf("Code = %d, want %d", plain.Code, ExitCodeGeneral)
	}

	inner := NewWithSuggestion(ExitCodeConfig, "bad file", "fix it")
	wrapped := Wrap(inner, "startup")
	if wrapped.Code != ExitCodeConfig {
		t.Errorf("Code = %d, want %d", wrapped.Code, ExitCodeConfig)
	}
	if wrapped.Message != "startup: bad file" {
		t.Errorf("Message = %q", wrapped.Message)
	}
	if wrapped.Suggestion != "fix it" {
		t.Errorf("Suggestion = %q", wrapped.Suggestion)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ExitCode
	}{
		{"nil", nil, ExitCodeSuccess},
		{"plain", errors.New("x"), ExitCodeGeneral},
		{"typed", ValidationError("x"), ExitCodeValidation},
		{"wrapped by fmt", fmt.Errorf("ctx: %w", ClipboardError("no tty")), ExitCodeClipboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("database is locked")
	err := StorageError("seeding shop store", cause)

	if err.Code != ExitCodeStorage {
		t.Errorf("Code = %d, want %d", err.Code, ExitCodeStorage)
	}
	if err.Message != "seeding shop store: "+ErrMsgStoreFailed {
		t.Errorf("Message = %q", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("StorageError should unwrap to its cause")
	}
}

func TestInvalidInputError(t *testing.T) {
	err := InvalidInputError(errors.New("unknown filter mode 'glob'"))
	if !IsExitCode(err, ExitCodeValidation) {
		t.Errorf("Code = %d, want %d", err.Code, ExitCodeValidation)
	}
	if !strings.Contains(err.Error(), ErrMsgInvalidInput) {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIsExitCode(t *testing.T) {
	err := fmt.Errorf("sync: %w", ConfigError("missing server url"))
	if !IsExitCode(err, ExitCodeConfig) {
		t.Error("expected ExitCodeConfig through fmt.Errorf wrapping")
	}
	if IsExitCode(errors.New("plain"), ExitCodeConfig) {
		t.Error("plain errors carry no exit code")
	}
}

func TestShopNotFoundError(t *testing.T) {
	err := ShopNotFoundError("shop_999", []string{"shop_001", "shop_002"})
	if err.Code != ExitCodeNotFound {
		t.Errorf("Code = %d, want %d", err.Code, ExitCodeNotFound)
	}
	if !strings.Contains(err.Suggestion, "  - shop_001") {
		t.Errorf("Suggestion missing known shop: %q", err.Suggestion)
	}

	bare := ShopNotFoundError("x", nil)
	if !strings.Contains(bare.Suggestion, "reviewmsg shops list") {
		t.Errorf("Suggestion = %q", bare.Suggestion)
	}
}

func TestHandleTo(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	code := handleTo(&buf, ShopNotFoundError("shop_999", []string{"shop_001"}))
	if code != ExitCodeNotFound {
		t.Errorf("code = %d, want %d", code, ExitCodeNotFound)
	}
	out := buf.String()
	if !strings.Contains(out, "Error: Shop 'shop_999' not found") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "Suggestion: Known shops:") {
		t.Errorf("output missing suggestion: %q", out)
	}

	if handleTo(&buf, nil) != ExitCodeSuccess {
		t.Error("nil error should map to success")
	}
}
