package extractor

import (
	"regexp"
	"strings"
	"time"
)

// Machine-readable datetime attribute layouts, in the order they are tried.
var attrLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Free-text layouts. Date-only parses to midnight, which is the required
// default when the listing carries no time of day.
var textLayouts = []string{
	"2 January 2006 3:04 pm",
	"2 January 2006 15:04",
	"2 January 2006",
}

// dateTextPattern pulls "12 March 2025" with an optional "10:30" or
// "10:30 am" out of the element's free text.
var dateTextPattern = regexp.MustCompile(`(?i)(\d{1,2} [A-Za-z]+ \d{4})(?: (\d{1,2}:\d{2}(?: ?(?:am|pm))?))?`)

// parseWalkDate resolves the walk date from the datetime attribute first,
// then from free text. It returns nil when nothing parses; callers must not
// substitute "now" because downstream ordering treats a missing date as
// unscheduled.
func parseWalkDate(attr, text string) *time.Time {
	if attr != "" {
		for _, layout := range attrLayouts {
			if t, err := time.Parse(layout, attr); err == nil {
				return &t
			}
		}
	}
	return parseDateText(text)
}

func parseDateText(text string) *time.Time {
	match := dateTextPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	candidate := match[1]
	if match[2] != "" {
		// Normalize "10:30am" to "10:30 am" so a single layout covers both.
		timePart := strings.ToLower(match[2])
		timePart = strings.Replace(timePart, "am", " am", 1)
		timePart = strings.Replace(timePart, "pm", " pm", 1)
		candidate += " " + strings.Join(strings.Fields(timePart), " ")
	}

	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return &t
		}
	}
	return nil
}
