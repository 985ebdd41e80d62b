package generator

// Generator is the common capability every numeric producer in this
// package satisfies: advance-and-return, and re-read the last value
// without advancing.
type Generator interface {
	Next() uint64
	Last() uint64
}
