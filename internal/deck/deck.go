// Package deck orders practice cards.
package deck

import (
	"math/rand"
	"time"
)

// Deck walks card indexes in sequential or shuffled order.
type Deck struct {
	rnd     *rand.Rand
	order   []int
	pos     int
	shuffle bool
}

// New returns a Deck over n cards seeded with the current time.
func New(n int, shuffle bool) *Deck {
	return NewWithSource(n, shuffle, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Deck using the given random source.
func NewWithSource(n int, shuffle bool, src rand.Source) *Deck {
	if n < 0 {
		n = 0
	}
	d := &Deck{rnd: rand.New(src), order: make([]int, n), shuffle: shuffle}
	d.Reset()
	return d
}

// Reset restores the first position and reshuffles when enabled.
func (d *Deck) Reset() {
	for i := range d.order {
		d.order[i] = i
	}
	if d.shuffle {
		d.rnd.Shuffle(len(d.order), func(i, j int) {
			d.order[i], d.order[j] = d.order[j], d.order[i]
		})
	}
	d.pos = 0
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	return len(d.order)
}

// Position returns the zero-based position within the deck.
func (d *Deck) Position() int {
	return d.pos
}

// Current returns the record index at the current position.
func (d *Deck) Current() (int, bool) {
	if len(d.order) == 0 {
		return 0, false
	}
	return d.order[d.pos], true
}

// Next advances one card, wrapping past the end.
func (d *Deck) Next() (int, bool) {
	if len(d.order) == 0 {
		return 0, false
	}
	d.pos = (d.pos + 1) % len(d.order)
	return d.order[d.pos], true
}

// Prev steps back one card, wrapping before the start.
func (d *Deck) Prev() (int, bool) {
	if len(d.order) == 0 {
		return 0, false
	}
	d.pos = (d.pos - 1 + len(d.order)) % len(d.order)
	return d.order[d.pos], true
}
