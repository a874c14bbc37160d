// Package interchange imports & defines an L-System from a grammar file
package interchange

import lsystem "github.com/hananel42/L-system-studio"

// Format is a decoded grammar file.
type Format interface {
	Import() (lsystem.Grammar, error)
}
