package bench

import "fmt"

// Scale is one dataset size the runner benchmarks at.
type Scale struct {
	Name    string
	Authors int
	Books   int
}

// DefaultScales returns the small and large scales: 5 authors with 10 books,
// and 250,000 authors with 500,000 books.
func DefaultScales() []Scale {
	return []Scale{
		{Name: "small", Authors: 5, Books: 10},
		{Name: "large", Authors: 250_000, Books: 500_000},
	}
}

// Validate reports whether the scale can be generated.
func (s Scale) Validate() error {
	if s.Authors < 1 {
		return fmt.Errorf("%w: %q needs at least one author, got %d", ErrInvalidScale, s.Name, s.Authors)
	}
	if s.Books < 0 {
		return fmt.Errorf("%w: %q has a negative book count %d", ErrInvalidScale, s.Name, s.Books)
	}
	return nil
}

func (s Scale) String() string {
	return fmt.Sprintf("%s (%d authors, %d books)", s.Name, s.Authors, s.Books)
}
