package poker

// Result is the outcome of evaluating a hand: the best category the cards can
// make, plus the ordered ranks used to break ties within that category.
// Results are totally ordered by (Category, TieBreakers) compared lexicographically.
type Result struct {
	Category    Category `json:"category"`
	TieBreakers []int    `json:"tieBreakers"`
}

// Compare returns >0 if r beats other, <0 if other beats r, and 0 on an exact tie
func (r *Result) Compare(other *Result) int {
	if r.Category != other.Category {
		return int(r.Category) - int(other.Category)
	}

	n := len(r.TieBreakers)
	if len(other.TieBreakers) < n {
		n = len(other.TieBreakers)
	}

	for i := 0; i < n; i++ {
		if r.TieBreakers[i] != other.TieBreakers[i] {
			return r.TieBreakers[i] - other.TieBreakers[i]
		}
	}

	return 0
}

// Beats returns true if r strictly beats other
func (r *Result) Beats(other *Result) bool {
	return r.Compare(other) > 0
}

// Ties returns true if the two results are equal on every element
func (r *Result) Ties(other *Result) bool {
	return r.Compare(other) == 0
}

// Strength packs (category, tiebreakers) into a single integer so two results
// can be compared with a subtraction. Each tiebreaker slot holds a rank < 15.
func (r *Result) Strength() int {
	strength := int(r.Category)
	for i := 0; i < 5; i++ {
		val := 0
		if i < len(r.TieBreakers) {
			val = r.TieBreakers[i]
		}

		strength = strength*15 + val
	}

	return strength
}

// Name returns the display name of the result's category
func (r *Result) Name() string {
	return r.Category.String()
}
