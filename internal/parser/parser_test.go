package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		utterance string
		title     string
		time      string
	}{
		{utterance: "call mom at 5:30 pm", title: "call mom", time: "17:30"},
		{utterance: "meeting at 9.00 am", title: "meeting", time: "09:00"},
		{utterance: "lunch at 12:15 pm", title: "lunch", time: "12:15"},
		{utterance: "take pills at 12:05 am", title: "take pills", time: "00:05"},
		{utterance: "dinner AT 7:45 P.M.", title: "dinner", time: "19:45"},
		{utterance: "stretch at 1015am", title: "stretch", time: "10:15"},
		{utterance: "standup at 9:00am tomorrow", title: "standup tomorrow", time: "09:00"},
		{utterance: "  feed the cat at 6:00 a.m.  ", title: "feed the cat", time: "06:00"},
		{utterance: "nap at 13:00 pm", title: "nap", time: "13:00"},
		{utterance: "5:30 pm call mom", title: "5:30 pm call mom", time: "17:30"},
		{utterance: "call at 5:30 pm or 6:00 pm", title: "call or 6:00 pm", time: "17:30"},
	}

	for _, tc := range cases {
		t.Run(tc.utterance, func(t *testing.T) {
			r, ok := Extract(tc.utterance)
			require.True(t, ok)
			assert.Equal(t, tc.title, r.Title)
			assert.Equal(t, tc.time, r.Time.String())
		})
	}
}

func TestExtractNotRecognized(t *testing.T) {
	cases := []string{
		"water the plants",
		"meeting at 14:30",
		"call at 5:3 pm",
		"call at 99:00 pm",
		"dentist at 5:75 am",
		" at 5:30 pm",
		"",
	}

	for _, utterance := range cases {
		t.Run(utterance, func(t *testing.T) {
			_, ok := Extract(utterance)
			assert.False(t, ok)
		})
	}
}

func TestExtractAllTwelveHourTimes(t *testing.T) {
	for hour := 1; hour <= 12; hour++ {
		for _, minute := range []int{0, 1, 30, 59} {
			for _, meridiem := range []string{"am", "pm", "a.m.", "PM"} {
				phrase := fmt.Sprintf("%d:%02d %s", hour, minute, meridiem)
				r, ok := Extract("ping the team at " + phrase)
				require.True(t, ok, phrase)
				assert.Equal(t, "ping the team", r.Title, phrase)

				want := hour
				pm := meridiem[0] == 'p' || meridiem[0] == 'P'
				if pm && hour < 12 {
					want += 12
				}
				if !pm && hour == 12 {
					want = 0
				}
				assert.Equal(t, fmt.Sprintf("%02d:%02d", want, minute), r.Time.String(), phrase)
			}
		}
	}
}

func TestStripTimePhraseOnlyTargetsAtForm(t *testing.T) {
	assert.Equal(t, "call mom", StripTimePhrase("call mom at 5:30 pm", "5:30 pm"))
	assert.Equal(t, "call mom 5:30 pm", StripTimePhrase("call mom 5:30 pm", "5:30 pm"))
	assert.Equal(t, "call mom", StripTimePhrase("call mom At   5.30pm", "5.30pm"))
}

func TestMatchTimeUsesFirstMatch(t *testing.T) {
	m, ok := MatchTime("between 3:15 pm and 4:45 pm")
	require.True(t, ok)
	assert.Equal(t, "3:15 pm", m.Phrase)
	assert.Equal(t, "15:15", m.Time.String())
}
