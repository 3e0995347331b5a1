// Where: cli/internal/interaction/prompter.go
// What: Prompter implementation using the huh library.
// Why: Provide keyboard-based input and selection for credential prompts.
package interaction

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

var runInputPrompt = func(title string, suggestions []string, input *string) error {
	field := huh.NewInput().
		Title(title).
		Suggestions(suggestions).
		Value(input)
	if len(suggestions) > 0 {
		field.Placeholder(suggestions[0])
	}
	return field.Run()
}

var runSecretPrompt = func(title string, input *string) error {
	return huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(input).
		Run()
}

var runSelectPrompt = func(title string, options []huh.Option[string], selected *string) error {
	return huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(selected).
		Run()
}

// HuhPrompter implements the Prompter interface using the huh TUI library.
type HuhPrompter struct{}

func (p HuhPrompter) Input(title string, suggestions []string) (string, error) {
	var input string
	err := runInputPrompt(title, suggestions, &input)
	if err != nil {
		return "", fmt.Errorf("prompt input: %w", err)
	}
	return input, nil
}

func (p HuhPrompter) Secret(title string) (string, error) {
	var input string
	err := runSecretPrompt(title, &input)
	if err != nil {
		return "", fmt.Errorf("prompt secret: %w", err)
	}
	return input, nil
}

func (p HuhPrompter) Select(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("prompt select %q: no options to choose from", title)
	}
	var selected string
	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt, opt)
	}

	err := runSelectPrompt(title, huhOptions, &selected)
	if err != nil {
		return "", fmt.Errorf("prompt select: %w", err)
	}
	return selected, nil
}
