// Package intent classifies inbound chat messages into a fixed set of topics
// and estimates whether a child wrote them.
package intent

import (
	"strings"
	"unicode"

	"buzzy-agent/internal/domain"
)

// message is the pre-normalized view of a user utterance shared by all rules.
type message struct {
	padded    string
	childLike bool
}

// rule pairs a predicate with the category it assigns. Rules are evaluated in
// order and the first match wins.
type rule struct {
	category domain.IntentCategory
	match    func(m message) bool
}

// Classifier maps a message to exactly one domain.IntentCategory.
// The zero value is not usable; construct with NewClassifier.
type Classifier struct {
	rules []rule
}

func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules()}
}

func defaultRules() []rule {
	return []rule{
		{category: domain.IntentEnrollment, match: isEnrollment},
		{category: domain.IntentGreeting, match: keywordRule(greetingKeywords)},
		{category: domain.IntentChildTone, match: func(m message) bool {
			return m.childLike && containsAny(m.padded, childToneKeywords)
		}},
		{category: domain.IntentPricing, match: keywordRule(pricingKeywords)},
		{category: domain.IntentBooking, match: keywordRule(bookingKeywords)},
		{category: domain.IntentPrograms, match: keywordRule(programsKeywords)},
		{category: domain.IntentProjects, match: keywordRule(projectsKeywords)},
		{category: domain.IntentTeachers, match: keywordRule(teachersKeywords)},
		{category: domain.IntentEquipment, match: keywordRule(equipmentKeywords)},
		{category: domain.IntentProgress, match: keywordRule(progressKeywords)},
		{category: domain.IntentScheduling, match: keywordRule(schedulingKeywords)},
	}
}

// Classify returns the category of text. childLike is the result of IsChildLike
// for the same text; it only gates the child-tone rule. Any input, including the
// empty string, yields a defined category.
func (c *Classifier) Classify(text string, childLike bool) domain.IntentCategory {
	m := message{padded: pad(text), childLike: childLike}
	for _, r := range c.rules {
		if r.match(m) {
			return r.category
		}
	}
	return domain.IntentGeneral
}

func isEnrollment(m message) bool {
	if containsAny(m.padded, enrollmentKeywords) {
		return true
	}
	return strings.Contains(m.padded, " how ") && containsAny(m.padded, enrollmentHowVerbs)
}

func keywordRule(keywords []string) func(message) bool {
	return func(m message) bool {
		return containsAny(m.padded, keywords)
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// words lower-cases text and splits it on anything that is not a letter, digit
// or apostrophe.
func words(text string) []string {
	text = strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func pad(text string) string {
	return " " + strings.Join(words(text), " ") + " "
}
