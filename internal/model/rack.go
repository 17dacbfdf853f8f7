package model

// RackCapacity is the maximum number of letters a rack holds
const RackCapacity = 8

// Rack is the player's pool of unplaced letters
type Rack struct {
	Letters []rune
	// Drawn holds letters added by automatic refills, most recent last.
	// Used to trim the rack back to capacity when letters are returned.
	Drawn []rune
}

// NewRack creates a rack holding the given letters
func NewRack(letters []rune) *Rack {
	l := make([]rune, len(letters))
	copy(l, letters)
	return &Rack{Letters: l}
}

// Len returns the number of letters in the rack
func (r *Rack) Len() int {
	return len(r.Letters)
}

// IsFull returns true if the rack is at capacity
func (r *Rack) IsFull() bool {
	return len(r.Letters) >= RackCapacity
}

// Index returns the index of the first instance of letter, or -1
func (r *Rack) Index(letter rune) int {
	for i, l := range r.Letters {
		if l == letter {
			return i
		}
	}
	return -1
}

// Contains returns true if the letter is in the rack
func (r *Rack) Contains(letter rune) bool {
	return r.Index(letter) >= 0
}

// Take removes one instance of the letter, preserving order.
// Returns false if the letter is not in the rack.
func (r *Rack) Take(letter rune) bool {
	i := r.Index(letter)
	if i == -1 {
		return false
	}
	r.Letters = append(r.Letters[:i], r.Letters[i+1:]...)
	return true
}

// Counts returns the rack contents as a multiset
func (r *Rack) Counts() map[rune]int {
	counts := make(map[rune]int, len(r.Letters))
	for _, l := range r.Letters {
		counts[l]++
	}
	return counts
}

// String returns the letters in rack order
func (r *Rack) String() string {
	return string(r.Letters)
}

// Clone returns a deep copy of the rack
func (r *Rack) Clone() *Rack {
	if r == nil {
		return nil
	}
	letters := make([]rune, len(r.Letters))
	copy(letters, r.Letters)
	var drawn []rune
	if len(r.Drawn) > 0 {
		drawn = make([]rune, len(r.Drawn))
		copy(drawn, r.Drawn)
	}
	return &Rack{Letters: letters, Drawn: drawn}
}
