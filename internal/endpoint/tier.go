package endpoint

// Tier is the authentication level a route is classified under.
type Tier int

const (
	// TierPublic routes run no credential checks.
	TierPublic Tier = iota
	// TierAPIKey routes require only the shared-secret API key.
	TierAPIKey
	// TierFull routes require the API key plus a live JWT pair. Paths
	// that were never classified are also handled at this tier.
	TierFull
)

func (t Tier) String() string {
	switch t {
	case TierPublic:
		return "public"
	case TierAPIKey:
		return "api_key"
	default:
		return "full"
	}
}
