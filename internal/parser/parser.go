// Package parser extracts a reminder from a free-form utterance such as
// "call mom at 5:30 pm".
//
// Extraction happens in two explicit steps: MatchTime finds the first
// clock phrase and converts it to 24-hour form, then StripTimePhrase removes
// the "at <phrase>" suffix from the utterance to produce the title. A phrase
// that is not introduced by "at" is left in the title untouched.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nadzzz/chime/internal/reminder"
)

// reTime matches a 1-2 digit hour, an optional ':' or '.', exactly two minute
// digits, an optional space and a mandatory am/pm marker.
var reTime = regexp.MustCompile(`(?i)(\d{1,2})[:.]?(\d{2})\s?(a\.?m\.?|p\.?m\.?)`)

// Match is a time phrase found in an utterance.
type Match struct {
	// Phrase is the matched substring exactly as it appears in the utterance.
	Phrase string

	// Time is the phrase converted to 24-hour form.
	Time reminder.Clock
}

// MatchTime finds the first time phrase in utterance. It returns false when
// there is no phrase or when the converted time is not a valid time of day
// (e.g. "99:00 pm").
func MatchTime(utterance string) (Match, bool) {
	groups := reTime.FindStringSubmatch(utterance)
	if groups == nil {
		return Match{}, false
	}

	hour, err := strconv.Atoi(groups[1])
	if err != nil {
		return Match{}, false
	}
	minute, err := strconv.Atoi(groups[2])
	if err != nil {
		return Match{}, false
	}

	// Hours above 12 are not rejected: "13:00 pm" passes through as 13:00.
	pm := strings.HasPrefix(strings.ToLower(groups[3]), "p")
	switch {
	case pm && hour < 12:
		hour += 12
	case !pm && hour == 12:
		hour = 0
	}

	clock, err := reminder.NewClock(hour, minute)
	if err != nil {
		return Match{}, false
	}
	return Match{Phrase: groups[0], Time: clock}, true
}

// StripTimePhrase removes every case-insensitive occurrence of
// "<whitespace>at<whitespace><phrase>" from utterance and trims the result.
func StripTimePhrase(utterance, phrase string) string {
	re := regexp.MustCompile(`(?i)\s+at\s+` + regexp.QuoteMeta(phrase))
	return strings.TrimSpace(re.ReplaceAllString(utterance, ""))
}

// Extract turns an utterance into a reminder. It returns false when no time
// is recognized or when nothing is left for the title.
func Extract(utterance string) (reminder.Reminder, bool) {
	m, ok := MatchTime(utterance)
	if !ok {
		return reminder.Reminder{}, false
	}
	title := StripTimePhrase(utterance, m.Phrase)
	if title == "" {
		return reminder.Reminder{}, false
	}
	return reminder.Reminder{Title: title, Time: m.Time}, true
}
