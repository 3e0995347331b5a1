// Where: cli/internal/credentials/collector_test.go
// What: Unit tests for interactive credential collection.
// Why: Prompting must follow the catalog and re-prompt on bad input.
package credentials

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

type scriptedPrompter struct {
	inputs   []string
	secrets  []string
	selects  []string
	inputIdx int
	secret   int
	selIdx   int
	titles   []string
}

func (p *scriptedPrompter) Input(title string, _ []string) (string, error) {
	p.titles = append(p.titles, title)
	if p.inputIdx >= len(p.inputs) {
		return "", fmt.Errorf("unexpected input prompt: %s", title)
	}
	answer := p.inputs[p.inputIdx]
	p.inputIdx++
	return answer, nil
}

func (p *scriptedPrompter) Secret(title string) (string, error) {
	p.titles = append(p.titles, title)
	if p.secret >= len(p.secrets) {
		return "", fmt.Errorf("unexpected secret prompt: %s", title)
	}
	answer := p.secrets[p.secret]
	p.secret++
	return answer, nil
}

func (p *scriptedPrompter) Select(title string, options []string) (string, error) {
	p.titles = append(p.titles, title)
	if p.selIdx >= len(p.selects) {
		return "", fmt.Errorf("unexpected select prompt: %s", title)
	}
	choice := p.selects[p.selIdx]
	p.selIdx++
	// "provide" and "generate" select the matching option label.
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt), choice) {
			return opt, nil
		}
	}
	return "", fmt.Errorf("no option matching %q", choice)
}

type fakeLoader struct {
	files map[string]string
}

func (l fakeLoader) Load(path string, base64Encode bool) (string, error) {
	content, ok := l.files[path]
	if !ok {
		return "", fmt.Errorf("stat %s: %w", path, fs.ErrNotExist)
	}
	if base64Encode {
		return "b64:" + content, nil
	}
	return content, nil
}

func TestCollectNonInteractiveGeneratesEverything(t *testing.T) {
	collector := Collector{Interactive: false, Out: &bytes.Buffer{}}
	missing := []Kind{KindPushKey, KindProvisioningProfile}

	provided, toGenerate, err := collector.Collect(missing)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(provided) != 0 {
		t.Fatalf("provided = %v", provided)
	}
	if len(toGenerate) != 2 {
		t.Fatalf("toGenerate = %v", toGenerate)
	}
}

func TestCollectUserProvidesDistributionCert(t *testing.T) {
	out := &bytes.Buffer{}
	prompter := &scriptedPrompter{
		selects: []string{"provide my own", "generate"},
		inputs:  []string{"/certs/dist.p12"},
		secrets: []string{"p12-password"},
	}
	loader := fakeLoader{files: map[string]string{"/certs/dist.p12": "cert-bytes"}}
	collector := Collector{
		Prompter:    prompter,
		Loader:      loader,
		Out:         out,
		Interactive: true,
	}

	provided, toGenerate, err := collector.Collect([]Kind{KindDistributionCert, KindProvisioningProfile})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	value, ok := provided[KindDistributionCert]
	if !ok {
		t.Fatal("expected user-provided distribution cert")
	}
	if value.IsScalar() {
		t.Fatal("distribution cert has two fields; it must not collapse")
	}
	if value.Fields["certP12"] != "b64:cert-bytes" {
		t.Fatalf("certP12 = %q, want base64-encoded content", value.Fields["certP12"])
	}
	if value.Fields["certPassword"] != "p12-password" {
		t.Fatalf("certPassword = %q", value.Fields["certPassword"])
	}

	if len(toGenerate) != 1 || toGenerate[0] != KindProvisioningProfile {
		t.Fatalf("toGenerate = %v", toGenerate)
	}
	if !strings.Contains(out.String(), "WARNING!") {
		t.Fatal("expected the expert warning before manual entry")
	}
}

func TestCollectSingleFieldKindCollapsesToScalar(t *testing.T) {
	prompter := &scriptedPrompter{
		selects: []string{"provide my own"},
		inputs:  []string{"~/profiles/app.mobileprovision"},
	}
	loader := fakeLoader{files: map[string]string{"~/profiles/app.mobileprovision": "profile"}}
	collector := Collector{
		Prompter:    prompter,
		Loader:      loader,
		Out:         &bytes.Buffer{},
		Interactive: true,
	}

	provided, _, err := collector.Collect([]Kind{KindProvisioningProfile})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	value := provided[KindProvisioningProfile]
	if !value.IsScalar() {
		t.Fatal("single-field kind must collapse to a scalar")
	}
	if value.Scalar != "b64:profile" {
		t.Fatalf("Scalar = %q", value.Scalar)
	}
}

func TestCollectRepromptsOnEmptyAndMissingFile(t *testing.T) {
	out := &bytes.Buffer{}
	prompter := &scriptedPrompter{
		selects: []string{"provide my own"},
		// First an empty path, then a nonexistent one, then a valid one;
		// then key id: empty once, then valid.
		inputs: []string{"", "/missing/key.p8", "/keys/apns.p8", "  ", "ABC123"},
	}
	loader := fakeLoader{files: map[string]string{"/keys/apns.p8": "p8-content"}}
	collector := Collector{
		Prompter:    prompter,
		Loader:      loader,
		Out:         out,
		Interactive: true,
	}

	provided, _, err := collector.Collect([]Kind{KindPushKey})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	value := provided[KindPushKey]
	if value.Fields["apnsKeyP8"] != "p8-content" {
		t.Fatalf("apnsKeyP8 = %q", value.Fields["apnsKeyP8"])
	}
	if value.Fields["apnsKeyId"] != "ABC123" {
		t.Fatalf("apnsKeyId = %q", value.Fields["apnsKeyId"])
	}
	if !strings.Contains(out.String(), "must not be empty") {
		t.Fatal("expected empty-value validation message")
	}
	if !strings.Contains(out.String(), "file not found") {
		t.Fatal("expected missing-file validation message")
	}
}
