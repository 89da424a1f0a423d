package models

// RedeemResult is the outcome of a successful reward redemption
type RedeemResult struct {
	RewardName    string
	Price         int64
	NewBalance    int64
	StockLeft     int64
	PublicMessage string
	LogMessage    string
}

// SlotLabel is the rendered state of one drop slot, used by the
// presentation layer to redraw the full claim surface after every claim
type SlotLabel struct {
	Index   int
	Label   string
	Claimed bool
}

// ClaimResult is the outcome of a successful drop slot claim
type ClaimResult struct {
	EventID       string
	SlotIndex     int
	Payout        int64
	NewBalance    int64
	Labels        []SlotLabel
	ClaimedCount  int
	TotalSlots    int
	PublicMessage string
	LogMessage    string
}

// KeyRedeemResult is the outcome of a successful key redemption.
// RoleGrant names a capability the external layer should apply; Warning
// is set when a best-effort side effect failed after the committed grant.
type KeyRedeemResult struct {
	Token         string
	Points        int64
	NewBalance    int64
	RoleGrant     string
	PublicMessage string
	LogMessage    string
	Warning       string
}

// BulkCreditResult reports a sequence of independent per-account credits
type BulkCreditResult struct {
	Credited int
	Failed   int
}
