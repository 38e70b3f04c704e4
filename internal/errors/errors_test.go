package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewRegisteredCode(t *testing.T) {
	err := New("E101")
	if err.Code != "E101" {
		t.Errorf("expected code E101, got %s", err.Code)
	}
	if err.Category != CategoryManifest {
		t.Errorf("expected manifest category, got %s", err.Category)
	}
	if err.Message == "" {
		t.Error("expected a message from the registry")
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")
	if err.Message != "Unknown error" {
		t.Errorf("expected unknown error message, got %q", err.Message)
	}
}

func TestErrorStringIncludesCodeAndCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := New("E501").Wrap(cause)
	msg := err.Error()
	if !strings.Contains(msg, "E501") {
		t.Errorf("error string should include the code: %q", msg)
	}
	if !strings.Contains(msg, "disk full") {
		t.Errorf("error string should include the cause: %q", msg)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("E301").Wrap(cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var ce *CatalystError
	if !stderrors.As(err, &ce) {
		t.Error("errors.As should unwrap to *CatalystError")
	}
}

func TestFormatSections(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E301").
		WithSuggestion("Check the page function for panics").
		Wrap(stderrors.New("render: nil node"))

	out := err.Format()
	for _, want := range []string{"ERROR E301", "Caused by: render: nil node", "Hint:", "Learn more:"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted output missing %q:\n%s", want, out)
		}
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "bad flag %q", "--frob")
	if err.Category != CategoryCLI {
		t.Errorf("expected cli category, got %s", err.Category)
	}
	if !strings.Contains(err.Error(), "--frob") {
		t.Errorf("formatted message lost arguments: %q", err.Error())
	}
}
