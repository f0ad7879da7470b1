package busx

// Priority controls the order handlers run in for a single post. Higher
// values run first; equal values run in registration order. Any integer is
// accepted, the named levels just cover the common cases.
type Priority int

const (
	Highest Priority = 100
	High    Priority = 75
	Normal  Priority = 50
	Low     Priority = 25
	Lowest  Priority = 0
)
