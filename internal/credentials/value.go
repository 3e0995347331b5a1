// Where: cli/internal/credentials/value.go
// What: Resolved credential value and bundle types.
// Why: Model the scalar-vs-fields shape once, decided by the catalog.
package credentials

// Value holds the resolved material for one credential kind. A kind
// whose catalog entry declares exactly one field collapses to a bare
// scalar; kinds with multiple fields keep the field mapping. The two
// forms are mutually exclusive.
type Value struct {
	Scalar string
	Fields map[string]string
}

// IsScalar reports whether the value carries the collapsed form.
func (v Value) IsScalar() bool {
	return v.Fields == nil
}

// NewValue builds a Value from collected fields, collapsing to a
// scalar when the catalog entry declares a single field.
func NewValue(entry CatalogEntry, collected map[string]string) Value {
	if len(entry.Fields) == 1 {
		return Value{Scalar: collected[entry.Fields[0].Key]}
	}
	fields := make(map[string]string, len(collected))
	for key, val := range collected {
		fields[key] = val
	}
	return Value{Fields: fields}
}

// Bundle maps credential kinds to their resolved values.
type Bundle map[Kind]Value

// StoredCredential is an opaque handle-plus-value pair as returned by
// the remote credential store.
type StoredCredential struct {
	HandleID string
	Value    Value
}

// Existing is the subset of kinds already present in the remote store.
// A kind absent from the map is missing.
type Existing map[Kind]StoredCredential

// MissingKinds returns the complement of the existing set within the
// fixed kind universe, in catalog order.
func MissingKinds(existing Existing) []Kind {
	var missing []Kind
	for _, kind := range AllKinds() {
		if _, ok := existing[kind]; !ok {
			missing = append(missing, kind)
		}
	}
	return missing
}

// Scope identifies the remote-store partition for one app. All store
// operations are scoped by it.
type Scope struct {
	Account          string
	AppSlug          string
	BundleIdentifier string
	Platform         string
}

// Session is the authenticated authority session shared by every
// portal call within one run. It is created lazily and never
// refreshed; process end invalidates it.
type Session struct {
	AuthToken        string
	TeamID           string
	TeamName         string
	BundleIdentifier string
	Account          string
}
