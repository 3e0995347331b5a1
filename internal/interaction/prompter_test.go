// Where: cli/internal/interaction/prompter_test.go
// What: Unit tests for the huh-backed prompter.
// Why: Exercise the prompt plumbing without a real terminal.
package interaction

import (
	"errors"
	"testing"

	"github.com/charmbracelet/huh"
)

func TestHuhPrompterInput(t *testing.T) {
	original := runInputPrompt
	defer func() { runInputPrompt = original }()

	var gotTitle string
	var gotSuggestions []string
	runInputPrompt = func(title string, suggestions []string, input *string) error {
		gotTitle = title
		gotSuggestions = suggestions
		*input = "answer"
		return nil
	}

	value, err := HuhPrompter{}.Input("Path to certificate:", []string{"~/cert.p12"})
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	if value != "answer" {
		t.Errorf("value = %q", value)
	}
	if gotTitle != "Path to certificate:" {
		t.Errorf("title = %q", gotTitle)
	}
	if len(gotSuggestions) != 1 || gotSuggestions[0] != "~/cert.p12" {
		t.Errorf("suggestions = %v", gotSuggestions)
	}
}

func TestHuhPrompterInputError(t *testing.T) {
	original := runInputPrompt
	defer func() { runInputPrompt = original }()

	cause := errors.New("terminal gone")
	runInputPrompt = func(string, []string, *string) error { return cause }

	if _, err := (HuhPrompter{}).Input("Question", nil); !errors.Is(err, cause) {
		t.Fatalf("err = %v", err)
	}
}

func TestHuhPrompterSecret(t *testing.T) {
	original := runSecretPrompt
	defer func() { runSecretPrompt = original }()

	runSecretPrompt = func(title string, input *string) error {
		*input = "hunter2"
		return nil
	}

	value, err := HuhPrompter{}.Secret("Certificate password:")
	if err != nil {
		t.Fatalf("Secret: %v", err)
	}
	if value != "hunter2" {
		t.Errorf("value = %q", value)
	}
}

func TestHuhPrompterSelect(t *testing.T) {
	original := runSelectPrompt
	defer func() { runSelectPrompt = original }()

	var gotOptions []huh.Option[string]
	runSelectPrompt = func(title string, options []huh.Option[string], selected *string) error {
		gotOptions = options
		*selected = options[1].Value
		return nil
	}

	value, err := HuhPrompter{}.Select("Choose one", []string{"generate", "provide"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if value != "provide" {
		t.Errorf("value = %q", value)
	}
	if len(gotOptions) != 2 {
		t.Errorf("options = %v", gotOptions)
	}
}

// An empty option list must error rather than hand back an empty
// choice the caller would misread as a selection.
func TestHuhPrompterSelectNoOptions(t *testing.T) {
	if _, err := (HuhPrompter{}).Select("Choose one", nil); err == nil {
		t.Fatal("expected error for an empty option list")
	}
}
