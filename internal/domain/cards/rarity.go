package cards

import (
	"fmt"
	"strings"
)

// Rarity is ordered: a higher value is a rarer card. RarityUnknown ranks below
// everything so unrecognised catalog strings never qualify for a hit slot.
type Rarity int

const (
	RarityUnknown Rarity = iota
	RarityCommon
	RarityUncommon
	RarityRare
	RarityRareHolo
	RarityDoubleRare
	RarityUltraRare
	RarityIllustrationRare
	RaritySpecialIllustrationRare
	RarityHyperRare
)

var rarityNames = map[Rarity]string{
	RarityUnknown:                 "Unknown",
	RarityCommon:                  "Common",
	RarityUncommon:                "Uncommon",
	RarityRare:                    "Rare",
	RarityRareHolo:                "Rare Holo",
	RarityDoubleRare:              "Double Rare",
	RarityUltraRare:               "Ultra Rare",
	RarityIllustrationRare:        "Illustration Rare",
	RaritySpecialIllustrationRare: "Special Illustration Rare",
	RarityHyperRare:               "Hyper Rare",
}

// aliases maps older catalog spellings onto the closed set.
var rarityAliases = map[string]Rarity{
	"rare holo ex":      RarityDoubleRare,
	"rare holo gx":      RarityDoubleRare,
	"rare holo v":       RarityDoubleRare,
	"rare holo vmax":    RarityUltraRare,
	"rare ultra":        RarityUltraRare,
	"rare secret":       RarityHyperRare,
	"rare rainbow":      RarityHyperRare,
	"secret rare":       RarityHyperRare,
	"rare illustration": RarityIllustrationRare,
}

func (r Rarity) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rarity(%d)", int(r))
}

func (r Rarity) Rank() int {
	return int(r)
}

// AtLeast reports whether r ranks at or above min.
func (r Rarity) AtLeast(min Rarity) bool {
	return r.Rank() >= min.Rank()
}

// ParseRarity resolves a catalog display string. Unrecognised values map to
// RarityUnknown with ok=false.
func ParseRarity(s string) (Rarity, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for r, name := range rarityNames {
		if r != RarityUnknown && strings.ToLower(name) == key {
			return r, true
		}
	}
	if r, ok := rarityAliases[key]; ok {
		return r, true
	}
	return RarityUnknown, false
}

type Supertype string

const (
	SupertypePokemon Supertype = "pokemon"
	SupertypeTrainer Supertype = "trainer"
	SupertypeEnergy  Supertype = "energy"
)

func ParseSupertype(s string) (Supertype, error) {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "é", "e"))) {
	case "pokemon":
		return SupertypePokemon, nil
	case "trainer":
		return SupertypeTrainer, nil
	case "energy":
		return SupertypeEnergy, nil
	}
	return "", fmt.Errorf("unknown supertype %q", s)
}
