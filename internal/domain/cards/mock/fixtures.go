package mock

import cards "github.com/gohye/cardtrade/internal/domain/cards"

var Cards = []*cards.Card{
	{ID: 1, Name: "Pikachu", SetID: "base1", Rarity: cards.RarityCommon, Supertype: cards.SupertypePokemon},
	{ID: 2, Name: "Charizard", SetID: "base1", Rarity: cards.RarityRareHolo, Supertype: cards.SupertypePokemon},
	{ID: 3, Name: "Professor Oak", SetID: "base1", Rarity: cards.RarityUncommon, Supertype: cards.SupertypeTrainer},
	{ID: 4, Name: "Fire Energy", SetID: "base1", Rarity: cards.RarityCommon, Supertype: cards.SupertypeEnergy},
}
