// Package appointment keeps an appointment date inside a note's free-text
// content. The notes backend has no date field, so the date rides at the end
// of the body as a marker line:
//
//	<body>
//
//	📅 Appointment Date: March 14, 2025
//
// Nothing outside this package should look for the marker.
package appointment

import (
	"regexp"
	"strings"

	"sinta/internal/calendar"
)

// Marker introduces the date line. Encoding and both decoders share this one
// constant; a copy that drifts (say, through a charset round trip) makes
// decoding fail silently.
const Marker = "\U0001F4C5 Appointment Date:"

var (
	extractPattern  = regexp.MustCompile(regexp.QuoteMeta(Marker) + ` (.+)`)
	trailingPattern = regexp.MustCompile(`\n\n` + regexp.QuoteMeta(Marker) + ` .+$`)
)

// Encode returns the content to store for body and an optional yyyy-mm-dd
// date. An empty or unparseable date stores the trimmed body alone.
func Encode(body, isoDate string) string {
	body = strings.TrimSpace(body)
	date, ok := calendar.Parse(isoDate)
	if !ok {
		return body
	}
	return body + "\n\n" + Marker + " " + date.Long()
}

// Reencode replaces whatever date content carries with isoDate. Editors use
// it instead of Encode so a second marker is never appended.
func Reencode(content, isoDate string) string {
	return Encode(CleanContent(content), isoDate)
}

// KeepDate replaces the body of content and carries its trailing date line
// over exactly as written, whether or not that text parses.
func KeepDate(content, body string) string {
	body = CleanContent(body)
	segment := trailingPattern.FindString(strings.TrimSpace(content))
	if segment == "" {
		return body
	}
	return body + segment
}

// ExtractDate returns the text following the marker on its line.
func ExtractDate(content string) (string, bool) {
	m := extractPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// CleanContent strips a trailing marker segment and returns the trimmed body.
// Content without a trailing marker comes back trimmed and otherwise intact.
// The result is a fixed point: cleaning it again changes nothing.
func CleanContent(content string) string {
	for {
		if loc := trailingPattern.FindStringIndex(content); loc != nil {
			content = content[:loc[0]]
			continue
		}
		trimmed := strings.TrimSpace(content)
		if trimmed == content {
			return content
		}
		content = trimmed
	}
}

// Decoded is a note's content split into body and appointment date.
type Decoded struct {
	Body     string
	DateText string
	HasDate  bool
	// Date is only meaningful when DateValid; a marker whose text does not
	// parse still counts as HasDate for display.
	Date      calendar.Date
	DateValid bool
}

// Decode splits content into its parts.
func Decode(content string) Decoded {
	d := Decoded{Body: CleanContent(content)}
	text, ok := ExtractDate(content)
	if !ok {
		return d
	}
	d.DateText = text
	d.HasDate = true
	d.Date, d.DateValid = calendar.ParseLong(text)
	return d
}

// ISODate returns the decoded date as yyyy-mm-dd, or "" when there is none.
func (d Decoded) ISODate() string {
	if !d.DateValid {
		return ""
	}
	return d.Date.String()
}
