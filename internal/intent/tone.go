package intent

import "slices"

const (
	// ChildTemperature is used for child-like messages and bare greetings.
	ChildTemperature = 0.7
	// DefaultTemperature keeps informative answers consistent.
	DefaultTemperature = 0.5

	shortMessageWords = 6
)

// IsChildLike guesses whether a child rather than a parent wrote text. It is a
// tone hint only: a child-idiomatic phrase, or a short message that does not
// talk about money.
func IsChildLike(text string) bool {
	w := words(text)
	padded := pad(text)
	if containsAny(padded, childPhrases) {
		return true
	}
	return len(w) < shortMessageWords && !containsAny(padded, pricingKeywords)
}

// IsExactGreeting reports whether text is nothing but a greeting, e.g. "Hi!" or
// "good morning".
func IsExactGreeting(text string) bool {
	padded := pad(text)
	if padded == "  " {
		return false
	}
	return slices.Contains(greetingKeywords, padded) ||
		slices.Contains(greetingKeywords, padded[1:len(padded)-1])
}

// Temperature picks the sampling temperature for the live model from the
// message text alone, independent of the classified category.
func Temperature(text string) float64 {
	if IsChildLike(text) || IsExactGreeting(text) {
		return ChildTemperature
	}
	return DefaultTemperature
}
