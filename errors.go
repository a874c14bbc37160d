package lsystem

import "fmt"

// UnknownSymbolError reports a reference to a symbol type that is not, or no
// longer, defined in the registry.
type UnknownSymbolError struct {
	Name rune
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown symbol type: %q", e.Name)
}

// TooLargeError stops an expansion whose next generation would exceed the
// sequence length ceiling. The last complete generation stays available.
type TooLargeError struct {
	Generation uint
	Length     int
	Limit      int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("generation %d too large: more than %d symbols (limit %d)", e.Generation, e.Length, e.Limit)
}
