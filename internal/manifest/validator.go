// Where: cli/internal/manifest/validator.go
// What: Schema validation for the local publish manifest.
// Why: Catch malformed identity fields before they scope remote calls.
package manifest

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	sigsyaml "sigs.k8s.io/yaml"
)

//go:embed schema/app.schema.json
var schemaFS embed.FS

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// InvalidProjectError reports a structurally invalid project identity.
type InvalidProjectError struct {
	Field  string
	Reason string
}

func (e *InvalidProjectError) Error() string {
	return fmt.Sprintf("invalid project: %s: %s", e.Field, e.Reason)
}

// Platform SDK versions this release pipeline knows how to build.
var supportedSDKVersions = map[string]struct{}{
	"51.0.0": {},
	"52.0.0": {},
	"53.0.0": {},
}

// Validate checks the identity against structural rules: non-empty
// bundle identifier and a supported SDK version.
func Validate(identity Identity) error {
	if strings.TrimSpace(identity.BundleIdentifier) == "" {
		return &InvalidProjectError{Field: "bundleIdentifier", Reason: "must not be empty"}
	}
	if _, ok := supportedSDKVersions[identity.SDKVersion]; !ok {
		return &InvalidProjectError{Field: "sdkVersion", Reason: fmt.Sprintf("%q is not supported", identity.SDKVersion)}
	}
	return nil
}

func validateManifest(content []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}

	jsonData, err := sigsyaml.YAMLToJSON(content)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	return sch.Validate(document)
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := schemaFS.ReadFile("schema/app.schema.json")
		if err != nil {
			schemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("app.schema.json", bytes.NewReader(raw)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("app.schema.json")
	})
	return compiledSchema, schemaErr
}
