// Where: cli/internal/credentials/collector.go
// What: Interactive collection of user-provided credentials.
// Why: Walk the catalog so prompts always match the declared fields.
package credentials

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

const expertWarning = `WARNING! In this mode we cannot verify that your Distribution Certificate,
Push Notifications service key or Provisioning Profile are valid. Double check
that the files you upload match your app, otherwise builds may fail in
surprising ways. Make sure your app ID exists on the developer portal and that
the provisioning profile matches that team ID and app ID.`

// Prompter is the interactive input surface used during collection.
type Prompter interface {
	Input(title string, suggestions []string) (string, error)
	Secret(title string) (string, error)
	Select(title string, options []string) (string, error)
}

// FileLoader resolves a user-supplied path and loads its content,
// optionally base64-encoding it.
type FileLoader interface {
	Load(path string, base64Encode bool) (string, error)
}

// Collector gathers user-provided credential values for missing kinds
// and classifies the rest for generation.
type Collector struct {
	Prompter    Prompter
	Loader      FileLoader
	Out         io.Writer
	Interactive bool
}

// Collect asks, for each missing kind, whether the user wants to
// supply the artifact or have it generated, then collects the declared
// fields for self-supplied kinds. In non-interactive runs every
// missing kind is classified for generation.
func (c Collector) Collect(missing []Kind) (Bundle, []Kind, error) {
	if !c.Interactive {
		return Bundle{}, append([]Kind(nil), missing...), nil
	}

	provided := Bundle{}
	var toGenerate []Kind
	warned := false

	for _, kind := range missing {
		entry, ok := CatalogFor(kind)
		if !ok {
			return nil, nil, fmt.Errorf("unknown credential kind: %s", kind)
		}

		generateLabel := fmt.Sprintf("Generate a new %s on the developer portal", entry.Name)
		provideLabel := fmt.Sprintf("I will provide my own %s", entry.Name)
		choice, err := c.Prompter.Select(
			fmt.Sprintf("Missing: %s", entry.Name),
			[]string{generateLabel, provideLabel},
		)
		if err != nil {
			return nil, nil, fmt.Errorf("choose source for %s: %w", kind, err)
		}
		if choice != provideLabel {
			toGenerate = append(toGenerate, kind)
			continue
		}

		if !warned {
			fmt.Fprintln(c.Out, expertWarning)
			warned = true
		}

		value, err := c.collectEntry(entry)
		if err != nil {
			return nil, nil, err
		}
		provided[kind] = value
	}

	return provided, toGenerate, nil
}

func (c Collector) collectEntry(entry CatalogEntry) (Value, error) {
	fmt.Fprintf(c.Out, "Please provide your %s:\n", entry.Name)
	collected := make(map[string]string, len(entry.Fields))
	for _, field := range entry.Fields {
		answer, err := c.askField(field)
		if err != nil {
			return Value{}, err
		}
		collected[field.Key] = answer
	}
	return NewValue(entry, collected), nil
}

// askField prompts until the answer passes validation. Empty text and
// nonexistent files re-prompt; prompt transport errors abort.
func (c Collector) askField(field FieldSpec) (string, error) {
	for {
		raw, err := c.promptOnce(field)
		if err != nil {
			return "", fmt.Errorf("prompt %s: %w", field.Key, err)
		}

		answer, verr := c.processAnswer(field, raw)
		if verr == nil {
			return answer, nil
		}
		var invalid *ValidationError
		if !errors.As(verr, &invalid) {
			return "", verr
		}
		fmt.Fprintf(c.Out, "%v\n", verr)
	}
}

func (c Collector) promptOnce(field FieldSpec) (string, error) {
	if field.Type == FieldSecret {
		return c.Prompter.Secret(field.Question)
	}
	return c.Prompter.Input(field.Question, nil)
}

func (c Collector) processAnswer(field FieldSpec, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &ValidationError{Field: field.Key, Reason: "value must not be empty"}
	}
	if field.Type != FieldFile {
		return trimmed, nil
	}

	content, err := c.Loader.Load(trimmed, field.Base64Encode)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &ValidationError{Field: field.Key, Reason: fmt.Sprintf("file not found: %s", trimmed)}
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", field.Key, err)
	}
	return content, nil
}
