// Package minutes provides the filtering and aggregation engine behind the
// village records browser. It works over an immutable, in-memory snapshot of
// board meetings (votes, discussion, public comments, announcements) and
// village documents, and derives filter vocabularies, filtered record sets,
// speaker groupings and search highlights from it.
//
// Every exported operation is a pure function of its inputs: records are never
// mutated, and selection state is replaced wholesale rather than edited.
package minutes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coolbeans/villagerecords/pkg/names"
)

// Placeholder is rendered wherever a value is missing from the source data.
const Placeholder = "—"

// DefaultBody is the governing body every meeting in the dataset belongs to.
const DefaultBody = "Board of Trustees"

// AnnouncementKind distinguishes the sources of board announcements.
type AnnouncementKind int

const (
	// AnnouncementMayor is a mayor's announcement.
	AnnouncementMayor AnnouncementKind = iota
	// AnnouncementBoard is an announcement made by a trustee or the board.
	AnnouncementBoard
	// AnnouncementLiaison is a trustee liaison report.
	AnnouncementLiaison
)

// String returns a human-readable label for the announcement kind.
func (k AnnouncementKind) String() string {
	switch k {
	case AnnouncementMayor:
		return "mayor"
	case AnnouncementBoard:
		return "board"
	case AnnouncementLiaison:
		return "liaison"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind as its label.
func (k AnnouncementKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseAnnouncementKind maps a label back to a kind. Unknown labels are
// treated as board announcements.
func ParseAnnouncementKind(s string) AnnouncementKind {
	switch names.Normalize(s) {
	case "mayor":
		return AnnouncementMayor
	case "liaison":
		return AnnouncementLiaison
	default:
		return AnnouncementBoard
	}
}

// UnmarshalText decodes a kind label.
func (k *AnnouncementKind) UnmarshalText(text []byte) error {
	*k = ParseAnnouncementKind(string(text))
	return nil
}

// Meeting is one session of the governing body, as extracted from its
// minutes.
type Meeting struct {
	// Filename is the stable identifier of the source minutes.
	Filename string `json:"filename"`

	// Date is the meeting date exactly as extracted; it may be empty or use
	// any of several formats.
	Date string `json:"date,omitempty"`

	// Type is the meeting type (e.g. "Board of Trustees").
	Type string `json:"type,omitempty"`

	// Subtype is the session kind (e.g. "Regular", "Special").
	Subtype string `json:"subtype,omitempty"`

	// Summary is the free-text meeting summary.
	Summary string `json:"summary,omitempty"`

	Votes          []Vote          `json:"votes"`
	PublicComments []PublicComment `json:"public_comments"`
	Announcements  []Announcement  `json:"announcements"`
}

// ID returns the meeting's stable identifier.
func (m Meeting) ID() string {
	return m.Filename
}

// Officials returns the officials column set for the meeting. The first vote
// with a non-empty breakdown fixes the order; officials only seen on later
// votes are appended in encounter order. A later spelling that resolves to a
// listed official ("Price-Bush" after "Trustee Price-Bush") adds no column.
func (m Meeting) Officials() []string {
	officials := []string{}
	for _, vote := range m.Votes {
		for _, cast := range vote.Breakdown {
			name := strings.TrimSpace(cast.Official)
			if name == "" || names.IsSameOfficial(name, officials) {
				continue
			}
			officials = append(officials, name)
		}
	}
	return officials
}

// Vote is a single motion voted on during a meeting.
type Vote struct {
	// Section is the agenda section label (e.g. "8h"). It is order-significant
	// but not necessarily numeric.
	Section string `json:"section,omitempty"`

	// Motion is the free-text motion description.
	Motion string `json:"motion_description,omitempty"`

	Context  string `json:"context,omitempty"`
	Addendum string `json:"addendum,omitempty"`
	Mover    string `json:"mover,omitempty"`
	Seconder string `json:"seconder,omitempty"`

	// Result is the free-text vote result (e.g. "Passed 4-1").
	Result string `json:"vote_result,omitempty"`

	// Breakdown maps each official to their vote, in source order.
	Breakdown VoteBreakdown `json:"votes"`

	Discussion []DiscussionEntry `json:"discussion"`
}

// Cell returns the recorded vote of official, or Placeholder when the
// breakdown has no entry for them.
func (v Vote) Cell(official string) string {
	value, ok := v.Breakdown.Value(official)
	if !ok || value == "" {
		return Placeholder
	}
	return value
}

// Category classifies the vote result.
func (v Vote) Category() ResultCategory {
	return CategorizeResult(v.Result)
}

// VoteCast is one official's recorded vote.
type VoteCast struct {
	Official string
	Value    string
}

// VoteBreakdown is the ordered mapping of official name to vote value. It
// decodes from a JSON object and keeps the object's key order.
type VoteBreakdown []VoteCast

// Value returns the vote recorded for official. An exact normalized match
// wins; otherwise the first entry naming the same official by surname is used.
func (b VoteBreakdown) Value(official string) (string, bool) {
	for _, cast := range b {
		if names.Equivalent(cast.Official, official) {
			return cast.Value, true
		}
	}
	for _, cast := range b {
		if names.IsSameOfficial(cast.Official, []string{official}) {
			return cast.Value, true
		}
	}
	return "", false
}

// Officials returns the official names in breakdown order.
func (b VoteBreakdown) Officials() []string {
	out := make([]string, 0, len(b))
	for _, cast := range b {
		out = append(out, cast.Official)
	}
	return out
}

// UnmarshalJSON decodes a JSON object, preserving key order. Non-string
// values are kept as their JSON text; null decodes to an empty value.
func (b *VoteBreakdown) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*b = VoteBreakdown{}
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	token, err := decoder.Token()
	if err != nil {
		return fmt.Errorf("failed to read vote breakdown: %w", err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("vote breakdown must be an object, got %v", token)
	}

	casts := VoteBreakdown{}
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return fmt.Errorf("failed to read vote breakdown key: %w", err)
		}
		official, _ := keyToken.(string)

		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return fmt.Errorf("failed to read vote for %q: %w", official, err)
		}
		casts = append(casts, VoteCast{Official: official, Value: rawVoteValue(raw)})
	}

	*b = casts
	return nil
}

// MarshalJSON encodes the breakdown as a JSON object in breakdown order.
func (b VoteBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cast := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cast.Official)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(cast.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func rawVoteValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

// DiscussionEntry is one statement made while a motion was discussed.
type DiscussionEntry struct {
	Speaker   string `json:"speaker"`
	Statement string `json:"statement"`
}

// PublicComment is one resident statement made during public comment.
type PublicComment struct {
	Speaker        string         `json:"speaker_name"`
	Address        string         `json:"address,omitempty"`
	Comment        string         `json:"comment_text"`
	Classification string         `json:"classification,omitempty"`
	Summary        string         `json:"summary,omitempty"`
	AgendaItems    []string       `json:"agenda_items"`
	Response       *BoardResponse `json:"board_response,omitempty"`
}

// BoardResponse is the board's reply to a public comment.
type BoardResponse struct {
	Responder string `json:"responder"`
	Response  string `json:"response"`
}

// Announcement is a board-side statement not tied to a motion: a mayor or
// board announcement or a liaison report.
type Announcement struct {
	Kind      AnnouncementKind `json:"kind"`
	Speaker   string           `json:"speaker"`
	Statement string           `json:"statement"`
	Topic     string           `json:"topic,omitempty"`
}

// VillageDocument is a published village document (agenda, minutes,
// ordinance, newsletter, ...).
type VillageDocument struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Summary  string `json:"summary,omitempty"`
	Event    string `json:"event,omitempty"`
	PageURL  string `json:"pageUrl,omitempty"`
}
