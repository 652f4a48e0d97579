package pricing

import "strings"

// Tier is the ordinal rank of a membership plan. Higher rank means a
// more generous booking discount. Plans with unrecognized names get
// TierUnknown and are never offered as upgrade targets.
type Tier int

const (
	TierUnknown  Tier = 0
	TierMetal    Tier = 1
	TierSilver   Tier = 2
	TierGold     Tier = 3
	TierPlatinum Tier = 4
)

func (t Tier) String() string {
	switch t {
	case TierMetal:
		return "Metal"
	case TierSilver:
		return "Silver"
	case TierGold:
		return "Gold"
	case TierPlatinum:
		return "Platinum"
	default:
		return "Unknown"
	}
}

// RankOf maps a plan name to its tier rank. Matching is
// case-insensitive; anything outside the four known tiers ranks as
// TierUnknown.
func RankOf(planName string) Tier {
	switch strings.ToLower(strings.TrimSpace(planName)) {
	case "metal":
		return TierMetal
	case "silver":
		return TierSilver
	case "gold":
		return TierGold
	case "platinum":
		return TierPlatinum
	default:
		return TierUnknown
	}
}
