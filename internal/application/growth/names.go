package growth

import (
	"fmt"
	"math/rand"
	"strings"
)

// Word lists for the deterministic merchant naming scheme:
// "<Adjective> <Noun> <Location>", id = initials + random numeric suffix.
var (
	nameAdjectives = []string{
		"Urban", "Coastal", "Golden", "Rustic", "Modern", "Vintage",
		"Happy", "Bright", "Cozy", "Wild", "Silver", "Emerald",
	}
	nameNouns = []string{
		"Thread", "Harvest", "Bloom", "Anchor", "Lantern", "Maple",
		"Willow", "Summit", "Harbor", "Meadow", "Canyon", "Ember",
	}
	nameLocations = []string{
		"Trading Co", "Outfitters", "Supply", "Market", "Goods",
		"Collective", "Works", "Emporium", "Boutique", "Depot",
	}
)

// GenerateMerchantName composes a merchant name from the word lists
func GenerateMerchantName(rng *rand.Rand) string {
	return fmt.Sprintf("%s %s %s",
		nameAdjectives[rng.Intn(len(nameAdjectives))],
		nameNouns[rng.Intn(len(nameNouns))],
		nameLocations[rng.Intn(len(nameLocations))],
	)
}

// MerchantIDFromName derives an id from a merchant name: the lowercased
// initials of each word plus a random 4-digit suffix
func MerchantIDFromName(name string, rng *rand.Rand) string {
	var initials strings.Builder
	for _, word := range strings.Fields(name) {
		initials.WriteByte(byte(word[0] | 0x20))
	}
	return fmt.Sprintf("%s-%04d", initials.String(), rng.Intn(10000))
}
