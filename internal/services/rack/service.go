package rack

import (
	"github.com/mcoot/wordgrid-go/internal/dependencies/random"
	"github.com/mcoot/wordgrid-go/internal/model"
)

// Letter pools
const (
	Vowels     = "AEIOU"
	Consonants = "BCDFGHJKLMNPQRSTVWXYZ"
)

// MaxPerLetter caps how many copies of one letter a generated rack holds
const MaxPerLetter = 2

// Generator draws fresh racks
type Generator struct {
	random random.Random
}

// NewGenerator creates a rack generator using the given random source
func NewGenerator(random random.Random) *Generator {
	return &Generator{random: random}
}

// Generate returns a full rack of letters: two or three vowels, the rest
// consonants, no letter more than MaxPerLetter times, in shuffled order.
func (g *Generator) Generate() []rune {
	letters := make([]rune, 0, model.RackCapacity)
	counts := make(map[rune]int, model.RackCapacity)

	vowelCount := 2 + g.intn(2)
	for i := 0; i < vowelCount; i++ {
		letters = append(letters, g.draw(Vowels, counts))
	}
	for len(letters) < model.RackCapacity {
		letters = append(letters, g.draw(Consonants, counts))
	}

	random.Shuffle(g.random, letters)
	return letters
}

// draw picks uniformly among pool letters still under the cap
func (g *Generator) draw(pool string, counts map[rune]int) rune {
	eligible := make([]rune, 0, len(pool))
	for _, l := range pool {
		if counts[l] < MaxPerLetter {
			eligible = append(eligible, l)
		}
	}
	letter := eligible[g.intn(len(eligible))]
	counts[letter]++
	return letter
}

// intn keeps out-of-range values from a mocked source inside [0, n)
func (g *Generator) intn(n int) int {
	v := g.random.Intn(n)
	if v < 0 || v >= n {
		v = ((v % n) + n) % n
	}
	return v
}

// Shuffle reorders the rack in place
func (g *Generator) Shuffle(r *model.Rack) {
	random.Shuffle(g.random, r.Letters)
}

// Redraw replaces the rack with a freshly generated one
func (g *Generator) Redraw(r *model.Rack) {
	r.Letters = g.Generate()
	r.Drawn = nil
}

// Refill tops the rack up to capacity with the leading letters of a
// freshly generated rack. Returns the letters added.
func (g *Generator) Refill(r *model.Rack) []rune {
	need := model.RackCapacity - len(r.Letters)
	if need <= 0 {
		return nil
	}
	added := g.Generate()[:need]
	r.Letters = append(r.Letters, added...)
	r.Drawn = append(r.Drawn, added...)
	return added
}

// Take removes one instance of letter from the rack. Drawn bookkeeping is
// trimmed so it never lists more copies of a letter than the rack holds.
func Take(r *model.Rack, letter rune) bool {
	if !r.Take(letter) {
		return false
	}
	held := 0
	for _, l := range r.Letters {
		if l == letter {
			held++
		}
	}
	drawn := 0
	for _, l := range r.Drawn {
		if l == letter {
			drawn++
		}
	}
	if drawn > held {
		removeLast(&r.Drawn, letter)
	}
	return true
}

// Return appends a letter coming back from the board. If that takes the
// rack over capacity, the most recently drawn letter still in the rack is
// dropped, or the returned letter itself when no drawn letter remains.
// Returns false if the returned letter was dropped.
func Return(r *model.Rack, letter rune) bool {
	r.Letters = append(r.Letters, letter)
	if len(r.Letters) <= model.RackCapacity {
		return true
	}

	for i := len(r.Drawn) - 1; i >= 0; i-- {
		d := r.Drawn[i]
		// Search the letters held before the return first
		idx := lastIndex(r.Letters[:len(r.Letters)-1], d)
		if idx == -1 {
			r.Drawn = append(r.Drawn[:i], r.Drawn[i+1:]...)
			continue
		}
		r.Letters = append(r.Letters[:idx], r.Letters[idx+1:]...)
		r.Drawn = append(r.Drawn[:i], r.Drawn[i+1:]...)
		return true
	}

	r.Letters = r.Letters[:len(r.Letters)-1]
	return false
}

func lastIndex(letters []rune, letter rune) int {
	for i := len(letters) - 1; i >= 0; i-- {
		if letters[i] == letter {
			return i
		}
	}
	return -1
}

func removeLast(letters *[]rune, letter rune) {
	if i := lastIndex(*letters, letter); i >= 0 {
		*letters = append((*letters)[:i], (*letters)[i+1:]...)
	}
}
