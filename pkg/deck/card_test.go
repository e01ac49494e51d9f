package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_constants(t *testing.T) {
	assert.Equal(t, 11, Jack)
	assert.Equal(t, 12, Queen)
	assert.Equal(t, 13, King)
	assert.Equal(t, 14, Ace)
}

func TestCard_String(t *testing.T) {
	card := Card{
		Rank: 2,
		Suit: Hearts,
	}

	assert.Equal(t, "2♡", card.String())

	card = Card{
		Rank: 11,
		Suit: Clubs,
	}

	assert.Equal(t, "J♣", card.String())

	card = Card{
		Rank: 12,
		Suit: Diamonds,
	}

	assert.Equal(t, "Q♢", card.String())

	card = Card{
		Rank: 13,
		Suit: Spades,
	}

	assert.Equal(t, "K♠", card.String())

	card = Card{
		Rank: 14,
		Suit: Spades,
	}

	assert.Equal(t, "A♠", card.String())
}

func TestCard_Equal(t *testing.T) {
	assert.True(t, CardFromString("2c").Equal(CardFromString("2c")))
	assert.False(t, CardFromString("2c").Equal(CardFromString("2d")))
	assert.False(t, CardFromString("2c").Equal(CardFromString("3c")))
}

func TestCard_AceLowRank(t *testing.T) {
	assert.Equal(t, 1, CardFromString("14c").AceLowRank())
	assert.Equal(t, 13, CardFromString("13c").AceLowRank())
	assert.Equal(t, 2, CardFromString("2c").AceLowRank())
}

func TestCardFromString(t *testing.T) {
	card := CardFromString("14s")
	assert.Equal(t, Card{Rank: 14, Suit: Spades}, *card)

	card = CardFromString("2d")
	assert.Equal(t, Card{Rank: 2, Suit: Diamonds}, *card)

	assert.Nil(t, CardFromString(""))

	assert.PanicsWithValue(t, "could not parse card: 15s", func() {
		CardFromString("15s")
	})
}

func TestCardsToString(t *testing.T) {
	cards := CardsFromString("2c,3h,14s")
	assert.Equal(t, "2c,3h,14s", CardsToString(cards))
	assert.Equal(t, 3, len(cards))
}
