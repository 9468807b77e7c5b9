package lexicon

// Validator decides whether a single word is a real word. The segmenter
// consults it for tokens the lexicon does not know.
//
// Two kinds of implementations exist: static set membership (*Lexicon) and
// delegation to an external spell-checking capability (ValidatorFunc).
type Validator interface {
	Valid(word string) bool
}

// ValidatorFunc adapts a function, typically a call into a spell checker, to
// the Validator interface.
type ValidatorFunc func(word string) bool

// Valid calls f(word).
func (f ValidatorFunc) Valid(word string) bool {
	return f(word)
}

// Any returns a Validator that accepts a word when at least one of vs accepts
// it. Nil validators are ignored.
func Any(vs ...Validator) Validator {
	kept := make([]Validator, 0, len(vs))
	for _, v := range vs {
		if v != nil {
			kept = append(kept, v)
		}
	}
	return anyOf(kept)
}

type anyOf []Validator

func (a anyOf) Valid(word string) bool {
	for _, v := range a {
		if v.Valid(word) {
			return true
		}
	}
	return false
}
