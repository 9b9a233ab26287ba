package models

// ScaleType names one of the built-in estimation scales.
type ScaleType string

const (
	ScaleFibonacci ScaleType = "fibonacci"
	ScaleModified  ScaleType = "modified"
	ScaleTShirt    ScaleType = "tshirt"
	ScalePowers    ScaleType = "powers"
)

// Sentinel vote values accepted on every scale.
const (
	VoteUnsure = "?"
	VoteCoffee = "☕"
)

var scaleValues = map[ScaleType][]string{
	ScaleFibonacci: {"0", "1", "2", "3", "5", "8", "13", "21", "34", "55", "89"},
	ScaleModified:  {"0", "0.5", "1", "2", "3", "5", "8", "13", "20", "40", "100"},
	ScaleTShirt:    {"XS", "S", "M", "L", "XL", "XXL"},
	ScalePowers:    {"1", "2", "4", "8", "16", "32", "64"},
}

func (s ScaleType) Valid() bool {
	_, ok := scaleValues[s]
	return ok
}

// Values returns the scale members without the sentinels.
func (s ScaleType) Values() []string {
	vals := scaleValues[s]
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Contains reports whether value is a castable vote on this scale.
func (s ScaleType) Contains(value string) bool {
	if value == VoteUnsure || value == VoteCoffee {
		return true
	}
	for _, v := range scaleValues[s] {
		if v == value {
			return true
		}
	}
	return false
}
