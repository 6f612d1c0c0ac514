package rules

// Label values emitted by the detectors in this package.
const (
	LabelTrustAndSafety = "t-and-s"
	LabelLikelyBot      = "Likely Bot Giveaway"
	LabelLikelyHuman    = "Likely Human Giveaway"
	LabelUnsafeLink     = "Unsafe Link Giveaway"
	LabelSafeLink       = "Safe Link Giveaway"
	LabelDog            = "dog"
)
