// Where: cli/internal/credentials/value_test.go
// What: Unit tests for value collapsing and missing-kind computation.
// Why: The scalar-vs-fields shape is decided by the catalog, not the data.
package credentials

import (
	"reflect"
	"testing"
)

func TestNewValueCollapsesSingleField(t *testing.T) {
	entry, _ := CatalogFor(KindProvisioningProfile)
	value := NewValue(entry, map[string]string{"provisioningProfile": "cHJvZmlsZQ=="})
	if !value.IsScalar() {
		t.Fatal("expected scalar value for single-field entry")
	}
	if value.Scalar != "cHJvZmlsZQ==" {
		t.Fatalf("Scalar = %q", value.Scalar)
	}
}

func TestNewValueKeepsFieldsForMultiFieldEntry(t *testing.T) {
	entry, _ := CatalogFor(KindDistributionCert)
	value := NewValue(entry, map[string]string{
		"certP12":      "YmFzZTY0",
		"certPassword": "secret",
	})
	if value.IsScalar() {
		t.Fatal("expected field mapping for multi-field entry")
	}
	if value.Fields["certPassword"] != "secret" {
		t.Fatalf("Fields = %v", value.Fields)
	}
}

func TestMissingKinds(t *testing.T) {
	tests := []struct {
		name     string
		existing Existing
		want     []Kind
	}{
		{
			name:     "empty store misses everything",
			existing: Existing{},
			want:     []Kind{KindDistributionCert, KindPushKey, KindProvisioningProfile},
		},
		{
			name: "partial store",
			existing: Existing{
				KindDistributionCert: {HandleID: "h1"},
			},
			want: []Kind{KindPushKey, KindProvisioningProfile},
		},
		{
			name: "complete store misses nothing",
			existing: Existing{
				KindDistributionCert:    {HandleID: "h1"},
				KindPushKey:             {HandleID: "h2"},
				KindProvisioningProfile: {HandleID: "h3"},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MissingKinds(tt.existing); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("MissingKinds() = %v, want %v", got, tt.want)
			}
		})
	}
}
