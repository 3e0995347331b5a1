// Where: cli/internal/authority/naming.go
// What: Artifact display-name rendering.
// Why: Generated artifacts need portal names derived from the app identity.
package authority

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/poruru/mobile-signing-box/cli/internal/credentials"
)

// Default name templates for generated artifacts.
const (
	DefaultCertNameTemplate    = `{{ .BundleIdentifier }} Distribution {{ now | date "20060102" }}`
	DefaultPushKeyNameTemplate = `{{ .BundleIdentifier }} APNs Key`
	DefaultProfileNameTemplate = `{{ .BundleIdentifier }} AppStore`
)

// NameData is the identity exposed to name templates.
type NameData struct {
	Account          string
	BundleIdentifier string
	TeamName         string
}

var nameTemplateCache sync.Map

// RenderName renders an artifact name template with sprig functions
// available. Compiled templates are cached by source.
func RenderName(tmpl string, data NameData) (string, error) {
	var parsed *template.Template
	if cached, ok := nameTemplateCache.Load(tmpl); ok {
		parsed = cached.(*template.Template)
	} else {
		compiled, err := template.New("artifact-name").Funcs(sprig.TxtFuncMap()).Parse(tmpl)
		if err != nil {
			return "", fmt.Errorf("parse name template: %w", err)
		}
		nameTemplateCache.Store(tmpl, compiled)
		parsed = compiled
	}

	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render name template: %w", err)
	}
	return buf.String(), nil
}

func nameDataFor(session *credentials.Session) NameData {
	return NameData{
		Account:          session.Account,
		BundleIdentifier: session.BundleIdentifier,
		TeamName:         session.TeamName,
	}
}
