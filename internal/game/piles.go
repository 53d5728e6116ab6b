package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
)

const bonusCopies = 5

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// instanceID derives a card instance id from the game's rng so a seeded game
// replays with identical ids.
func instanceID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Card is a bird card copy in a hand, tray or tucked pile.
type Card struct {
	InstanceID string `json:"instanceId"`
	catalog.Bird
}

// Bonus is a bonus card copy.
type Bonus struct {
	InstanceID string `json:"instanceId"`
	catalog.BonusCard
}

// findCard returns the index of the card matching id, preferring instance ids
// over catalog ids. It returns -1 when nothing matches.
func findCard(cards []Card, id string) int {
	for i, c := range cards {
		if c.InstanceID == id {
			return i
		}
	}
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func findBonus(cards []Bonus, id string) int {
	for i, c := range cards {
		if c.InstanceID == id {
			return i
		}
	}
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Deck is the shuffled bird draw pile. When it runs dry it is rebuilt from a
// fresh shuffle of the catalog.
type Deck struct {
	source []catalog.Bird
	cards  []catalog.Bird
	rng    *rand.Rand
}

// NewDeck creates a shuffled deck over birds.
func NewDeck(birds []catalog.Bird, rng *rand.Rand) *Deck {
	d := &Deck{source: append([]catalog.Bird(nil), birds...), rng: rng}
	d.replenish()
	return d
}

func (d *Deck) replenish() {
	d.cards = append(d.cards[:0], d.source...)
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw takes the top card. It only fails when the catalog has no birds.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		d.replenish()
	}
	if len(d.cards) == 0 {
		return Card{}, false
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return Card{InstanceID: instanceID(d.rng), Bird: top}, true
}

// DrawN draws up to n cards.
func (d *Deck) DrawN(n int) []Card {
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		c, ok := d.Draw()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

// Len returns the number of cards left before the next replenish.
func (d *Deck) Len() int {
	return len(d.cards)
}

// BonusDeck holds several copies of every bonus card so players may share
// objectives.
type BonusDeck struct {
	cards []Bonus
	rng   *rand.Rand
}

// NewBonusDeck creates a shuffled bonus deck.
func NewBonusDeck(cards []catalog.BonusCard, rng *rand.Rand) *BonusDeck {
	d := &BonusDeck{rng: rng}
	for i := 0; i < bonusCopies; i++ {
		for _, c := range cards {
			d.cards = append(d.cards, Bonus{InstanceID: instanceID(rng), BonusCard: c})
		}
	}
	d.shuffle()
	return d
}

func (d *BonusDeck) shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw takes the top bonus card.
func (d *BonusDeck) Draw() (Bonus, bool) {
	if len(d.cards) == 0 {
		return Bonus{}, false
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return top, true
}

// DrawN draws up to n bonus cards.
func (d *BonusDeck) DrawN(n int) []Bonus {
	out := make([]Bonus, 0, n)
	for i := 0; i < n; i++ {
		c, ok := d.Draw()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

// Return puts cards back and reshuffles.
func (d *BonusDeck) Return(cards ...Bonus) {
	if len(cards) == 0 {
		return
	}
	d.cards = append(d.cards, cards...)
	d.shuffle()
}

// Len returns the number of bonus cards left.
func (d *BonusDeck) Len() int {
	return len(d.cards)
}

// DiceTray is the birdfeeder. Taking a die re-rolls it in place, so the tray
// never changes size.
type DiceTray struct {
	dice []food.Kind
	rng  *rand.Rand
}

// NewDiceTray rolls n dice.
func NewDiceTray(n int, rng *rand.Rand) *DiceTray {
	t := &DiceTray{dice: make([]food.Kind, n), rng: rng}
	for i := range t.dice {
		t.dice[i] = t.roll()
	}
	return t
}

func (t *DiceTray) roll() food.Kind {
	return food.Kinds[t.rng.Intn(len(food.Kinds))]
}

// Dice returns a copy of the current faces.
func (t *DiceTray) Dice() []food.Kind {
	return append([]food.Kind(nil), t.dice...)
}

// Counts returns the faces as a store.
func (t *DiceTray) Counts() food.Store {
	s := food.NewStore()
	for _, k := range t.dice {
		s.Add(k, 1)
	}
	return s
}

// Has reports whether a die shows k.
func (t *DiceTray) Has(k food.Kind) bool {
	for _, d := range t.dice {
		if d == k {
			return true
		}
	}
	return false
}

// Take removes the first die showing k and re-rolls it.
func (t *DiceTray) Take(k food.Kind) bool {
	for i, d := range t.dice {
		if d == k {
			t.dice[i] = t.roll()
			return true
		}
	}
	return false
}

// TakeFirst takes whatever the first die shows.
func (t *DiceTray) TakeFirst() (food.Kind, bool) {
	if len(t.dice) == 0 {
		return "", false
	}
	k := t.dice[0]
	t.dice[0] = t.roll()
	return k, true
}

// Len returns the number of dice.
func (t *DiceTray) Len() int {
	return len(t.dice)
}

// BirdTray is the face-up row of bird cards.
type BirdTray struct {
	cards []Card
	size  int
}

// NewBirdTray creates an empty tray with size slots.
func NewBirdTray(size int) *BirdTray {
	return &BirdTray{size: size}
}

// Refill tops the tray up from deck.
func (t *BirdTray) Refill(deck *Deck) {
	for len(t.cards) < t.size {
		c, ok := deck.Draw()
		if !ok {
			return
		}
		t.cards = append(t.cards, c)
	}
}

// Take removes the card matching id.
func (t *BirdTray) Take(id string) (Card, bool) {
	i := findCard(t.cards, id)
	if i < 0 {
		return Card{}, false
	}
	c := t.cards[i]
	t.cards = append(t.cards[:i], t.cards[i+1:]...)
	return c, true
}

// Cards returns a copy of the face-up cards.
func (t *BirdTray) Cards() []Card {
	return append([]Card(nil), t.cards...)
}

// Len returns the number of face-up cards.
func (t *BirdTray) Len() int {
	return len(t.cards)
}
