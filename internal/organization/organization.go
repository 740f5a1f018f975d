// Package organization maps between client-facing organization codes and
// ledger-facing organization identifiers. The mapping is static: two known
// codes, each bound to one ledger org.
package organization

// Organization describes one participating organization
type Organization struct {
	Code          string
	LedgerID      string
	Name          string
	DefaultPeer   string
	AdminIdentity string
}

// DefaultCode is the fallback for unrecognized ledger org IDs. Callers that
// need strict validation must check IsKnownLedgerID first.
const DefaultCode = "HCA"

var organizations = []Organization{
	{
		Code:          "HCA",
		LedgerID:      "org2",
		Name:          "Hospital Care Authority",
		DefaultPeer:   "peer0.org2.example.com",
		AdminIdentity: "hca-admin",
	},
	{
		Code:          "HQA",
		LedgerID:      "org3",
		Name:          "Health Quality Agency",
		DefaultPeer:   "peer0.org3.example.com",
		AdminIdentity: "hqa-admin",
	},
}

// ByCode looks up an organization by its two-letter code
func ByCode(code string) (Organization, bool) {
	for _, org := range organizations {
		if org.Code == code {
			return org, true
		}
	}
	return Organization{}, false
}

// CodeToLedgerID translates an organization code to its ledger org ID.
// Unknown codes resolve through the default organization.
func CodeToLedgerID(code string) string {
	if org, ok := ByCode(code); ok {
		return org.LedgerID
	}
	org, _ := ByCode(DefaultCode)
	return org.LedgerID
}

// LedgerIDToCode translates a ledger org ID back to its organization code.
// Unrecognized IDs fall back to DefaultCode rather than failing.
func LedgerIDToCode(ledgerID string) string {
	for _, org := range organizations {
		if org.LedgerID == ledgerID {
			return org.Code
		}
	}
	return DefaultCode
}

// IsKnownLedgerID reports whether a ledger org ID belongs to a known
// organization
func IsKnownLedgerID(ledgerID string) bool {
	for _, org := range organizations {
		if org.LedgerID == ledgerID {
			return true
		}
	}
	return false
}

// Codes returns all known organization codes
func Codes() []string {
	codes := make([]string, 0, len(organizations))
	for _, org := range organizations {
		codes = append(codes, org.Code)
	}
	return codes
}
