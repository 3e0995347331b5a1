// Where: cli/internal/credentials/catalog.go
// What: Static per-kind credential catalog.
// Why: Declare once which fields each signing artifact requires.
package credentials

// FieldType distinguishes how a catalog field is collected.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldSecret FieldType = "secret"
	FieldFile   FieldType = "file"
)

// FieldSpec describes a single required input for a credential kind.
type FieldSpec struct {
	Key          string
	Type         FieldType
	Question     string
	Base64Encode bool
}

// CatalogEntry is the read-only descriptor for one credential kind.
type CatalogEntry struct {
	Name   string
	Fields []FieldSpec
}

var catalog = map[Kind]CatalogEntry{
	KindDistributionCert: {
		Name: "Apple Distribution Certificate",
		Fields: []FieldSpec{
			{Key: "certP12", Type: FieldFile, Question: "Path to P12 file:", Base64Encode: true},
			{Key: "certPassword", Type: FieldSecret, Question: "P12 password:"},
		},
	},
	KindPushKey: {
		Name: "Apple Push Notifications service key",
		Fields: []FieldSpec{
			{Key: "apnsKeyP8", Type: FieldFile, Question: "Path to P8 file:"},
			{Key: "apnsKeyId", Type: FieldText, Question: "Key ID:"},
		},
	},
	KindProvisioningProfile: {
		Name: "Apple Provisioning Profile",
		Fields: []FieldSpec{
			{Key: "provisioningProfile", Type: FieldFile, Question: "Path to .mobileprovision file:", Base64Encode: true},
		},
	},
}

// CatalogFor returns the catalog entry for a kind (after alias
// resolution).
func CatalogFor(kind Kind) (CatalogEntry, bool) {
	entry, ok := catalog[Canonical(kind)]
	return entry, ok
}
