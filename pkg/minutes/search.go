package minutes

import (
	"regexp"
	"strings"
	"time"
)

// Query is a compiled free-text search. Inclusion checks and highlighting
// both go through the same pattern, so what is shown and what is highlighted
// cannot disagree.
type Query struct {
	raw     string
	pattern *regexp.Regexp
}

// NewQuery compiles raw. Surrounding whitespace is ignored; a blank query
// matches every record and highlights nothing.
func NewQuery(raw string) Query {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Query{}
	}
	return Query{
		raw:     trimmed,
		pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(trimmed)),
	}
}

// String returns the trimmed query text.
func (q Query) String() string {
	return q.raw
}

// IsEmpty reports whether the query places no restriction.
func (q Query) IsEmpty() bool {
	return q.pattern == nil
}

// Matches reports whether text contains the query, case-insensitively.
func (q Query) Matches(text string) bool {
	if q.pattern == nil || text == "" {
		return false
	}
	return q.pattern.MatchString(text)
}

// Segment is a run of text that either matches the query or does not.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match,omitempty"`
}

// Highlight splits text into alternating plain and matching segments. With an
// empty query or no match it returns the original text as a single plain
// segment.
func Highlight(text string, q Query) []Segment {
	if q.pattern == nil || text == "" {
		return []Segment{{Text: text}}
	}
	locs := q.pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []Segment{{Text: text}}
	}

	segments := make([]Segment, 0, len(locs)*2+1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// Field is one searchable text field of a record.
type Field struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// MeetingFields lists every searchable field of a meeting, including nested
// vote, discussion and public comment text.
func MeetingFields(m Meeting, loc *time.Location) []Field {
	fields := []Field{
		{Name: "filename", Text: m.Filename},
		{Name: "date", Text: m.Date},
		{Name: "display_date", Text: displayDateOrEmpty(m.Date, loc)},
		{Name: "type", Text: m.Type},
		{Name: "subtype", Text: m.Subtype},
		{Name: "summary", Text: m.Summary},
	}
	for _, v := range m.Votes {
		fields = append(fields,
			Field{Name: "vote.motion", Text: v.Motion},
			Field{Name: "vote.context", Text: v.Context},
			Field{Name: "vote.addendum", Text: v.Addendum},
			Field{Name: "vote.mover", Text: v.Mover},
			Field{Name: "vote.seconder", Text: v.Seconder},
		)
		for _, d := range v.Discussion {
			fields = append(fields,
				Field{Name: "discussion.speaker", Text: d.Speaker},
				Field{Name: "discussion.statement", Text: d.Statement},
			)
		}
	}
	for _, c := range m.PublicComments {
		fields = append(fields,
			Field{Name: "public_comment.speaker", Text: c.Speaker},
			Field{Name: "public_comment.comment", Text: c.Comment},
			Field{Name: "public_comment.summary", Text: c.Summary},
		)
	}
	return fields
}

// DocumentFields lists the searchable fields of a document.
func DocumentFields(d VillageDocument) []Field {
	return []Field{
		{Name: "title", Text: d.Title},
		{Name: "summary", Text: d.Summary},
		{Name: "event", Text: d.Event},
	}
}

// MatchesMeeting reports whether any searchable field of m contains q. An
// empty query matches every meeting.
func MatchesMeeting(m Meeting, q Query, loc *time.Location) bool {
	if q.IsEmpty() {
		return true
	}
	return anyFieldMatches(MeetingFields(m, loc), q)
}

// MatchesDocument reports whether the title, summary or event of d contains
// q. An empty query matches every document.
func MatchesDocument(d VillageDocument, q Query) bool {
	if q.IsEmpty() {
		return true
	}
	return anyFieldMatches(DocumentFields(d), q)
}

// MatchingFields returns the fields of a meeting that contain q, for
// rendering search hits.
func MatchingFields(m Meeting, q Query, loc *time.Location) []Field {
	var out []Field
	for _, f := range MeetingFields(m, loc) {
		if q.Matches(f.Text) {
			out = append(out, f)
		}
	}
	return out
}

// MatchingDocumentFields returns the fields of a document that contain q.
func MatchingDocumentFields(d VillageDocument, q Query) []Field {
	var out []Field
	for _, f := range DocumentFields(d) {
		if q.Matches(f.Text) {
			out = append(out, f)
		}
	}
	return out
}

func anyFieldMatches(fields []Field, q Query) bool {
	for _, f := range fields {
		if q.Matches(f.Text) {
			return true
		}
	}
	return false
}

func displayDateOrEmpty(raw string, loc *time.Location) string {
	formatted := FormatDisplayDate(raw, loc)
	if formatted == Placeholder {
		return ""
	}
	return formatted
}
