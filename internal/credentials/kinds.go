// Where: cli/internal/credentials/kinds.go
// What: Credential kind enumeration and alias handling.
// Why: Keep the closed set of signing-artifact kinds in one place.
package credentials

// Kind identifies one signing-artifact kind.
type Kind string

const (
	KindDistributionCert    Kind = "distributionCert"
	KindPushKey             Kind = "pushKey"
	KindProvisioningProfile Kind = "provisioningProfile"

	// KindPushCert is a deprecated alias kept for users who have not
	// migrated to push keys yet. It always resolves to KindPushKey.
	KindPushCert Kind = "pushCert"
)

// aliasTable maps deprecated kinds onto their replacements.
var aliasTable = map[Kind]Kind{
	KindPushCert: KindPushKey,
}

// AllKinds returns every credential kind required for a signed release
// build, in catalog order.
func AllKinds() []Kind {
	return []Kind{KindDistributionCert, KindPushKey, KindProvisioningProfile}
}

// Canonical resolves deprecated aliases to their current kind.
func Canonical(kind Kind) Kind {
	if target, ok := aliasTable[kind]; ok {
		return target
	}
	return kind
}

// Known reports whether the kind (after alias resolution) belongs to
// the fixed credential universe.
func Known(kind Kind) bool {
	switch Canonical(kind) {
	case KindDistributionCert, KindPushKey, KindProvisioningProfile:
		return true
	}
	return false
}
