package minutes

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/coolbeans/villagerecords/pkg/names"
)

// CommentEntry is one board or public statement flattened out of a meeting.
type CommentEntry struct {
	MeetingID string `json:"meeting_id"`
	Date      string `json:"date"`
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Topic     string `json:"topic"`
	Section   string `json:"section,omitempty"`
}

// CollectBoardEntries gathers every board-side statement of a meeting:
// motion discussion, announcements and liaison reports, and board responses
// to public comments, in that order.
func CollectBoardEntries(meeting Meeting) []CommentEntry {
	var entries []CommentEntry
	for _, vote := range meeting.Votes {
		for _, d := range vote.Discussion {
			entries = append(entries, CommentEntry{
				MeetingID: meeting.ID(),
				Date:      meeting.Date,
				Speaker:   d.Speaker,
				Text:      d.Statement,
				Topic:     ResolveTopic(vote.Motion, vote.Section, d.Statement),
				Section:   vote.Section,
			})
		}
	}
	for _, a := range meeting.Announcements {
		topic := strings.TrimSpace(a.Topic)
		if topic == "" {
			topic = Placeholder
		}
		entries = append(entries, CommentEntry{
			MeetingID: meeting.ID(),
			Date:      meeting.Date,
			Speaker:   a.Speaker,
			Text:      a.Statement,
			Topic:     topic,
		})
	}
	for _, c := range meeting.PublicComments {
		if c.Response == nil || strings.TrimSpace(c.Response.Responder) == "" {
			continue
		}
		topic := Placeholder
		if speaker := strings.TrimSpace(c.Speaker); speaker != "" {
			topic = "In response to " + speaker
		}
		entries = append(entries, CommentEntry{
			MeetingID: meeting.ID(),
			Date:      meeting.Date,
			Speaker:   c.Response.Responder,
			Text:      c.Response.Response,
			Topic:     topic,
		})
	}
	return entries
}

// CollectPublicEntries gathers the public comments of a meeting. A comment's
// topic comes from the vote its agenda items point at, falling back to an
// explicitly mentioned agenda item and then to its summary.
func CollectPublicEntries(meeting Meeting) []CommentEntry {
	entries := make([]CommentEntry, 0, len(meeting.PublicComments))
	for _, c := range meeting.PublicComments {
		topic := Placeholder
		section := ""
		if vote, ok := voteForAgendaItems(meeting, c.AgendaItems); ok {
			topic = ResolveTopic(vote.Motion, vote.Section, c.Comment)
			section = vote.Section
		} else {
			for _, item := range c.AgendaItems {
				if MentionsIdentifier(c.Comment, item) {
					topic = strings.TrimSpace(item)
					section = topic
					break
				}
			}
		}
		if topic == Placeholder && strings.TrimSpace(c.Summary) != "" {
			topic = strings.TrimSpace(c.Summary)
		}
		entries = append(entries, CommentEntry{
			MeetingID: meeting.ID(),
			Date:      meeting.Date,
			Speaker:   c.Speaker,
			Text:      c.Comment,
			Topic:     topic,
			Section:   section,
		})
	}
	return entries
}

// SpeakerGroup is the ephemeral grouping of entries that share a normalized
// speaker name.
type SpeakerGroup struct {
	// Key is the normalized speaker name.
	Key string `json:"key"`

	// Name is the first-encountered spelling of the speaker.
	Name string `json:"name"`

	// Entries keep their original encounter order.
	Entries []CommentEntry `json:"entries"`
}

// GroupBySpeaker groups entries by normalized speaker. Groups are ordered by
// display name using case-insensitive English collation. Entries without a
// speaker are kept under a placeholder identity rather than dropped.
func GroupBySpeaker(entries []CommentEntry) []SpeakerGroup {
	var groups []SpeakerGroup
	index := make(map[string]int)
	for _, entry := range entries {
		key := names.Normalize(entry.Speaker)
		name := strings.TrimSpace(entry.Speaker)
		if key == "" {
			key, name = "", Placeholder
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, SpeakerGroup{Key: key, Name: name})
		}
		groups[i].Entries = append(groups[i].Entries, entry)
	}

	collator := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(groups, func(i, j int) bool {
		return collator.CompareString(groups[i].Name, groups[j].Name) < 0
	})
	return groups
}

// RowKind identifies how a speaker row renders.
type RowKind int

const (
	// RowSingle is a group with one entry, shown inline.
	RowSingle RowKind = iota
	// RowParent summarizes a group with several entries.
	RowParent
	// RowChild is one entry of an expanded parent.
	RowChild
)

// String returns a human-readable label for the row kind.
func (k RowKind) String() string {
	switch k {
	case RowSingle:
		return "single"
	case RowParent:
		return "parent"
	case RowChild:
		return "child"
	default:
		return "unknown"
	}
}

// SpeakerRow is one renderable row of a comment section.
type SpeakerRow struct {
	Kind     RowKind
	Section  string
	GroupKey string
	Speaker  string
	Count    int
	Expanded bool
	Entry    CommentEntry
}

// CountLabel returns the "N topics" summary of a parent row.
func (r SpeakerRow) CountLabel() string {
	if r.Count == 1 {
		return "1 topic"
	}
	return fmt.Sprintf("%d topics", r.Count)
}

// SpeakerRows flattens groups into display rows. Single-entry groups become
// one row with the entry inline; larger groups become a parent row followed,
// when expanded in section, by one child row per entry.
func SpeakerRows(section string, groups []SpeakerGroup, expansion ExpansionState) []SpeakerRow {
	var rows []SpeakerRow
	for _, group := range groups {
		expanded := expansion.IsExpanded(section, group.Key)
		if len(group.Entries) == 1 {
			rows = append(rows, SpeakerRow{
				Kind:     RowSingle,
				Section:  section,
				GroupKey: group.Key,
				Speaker:  group.Name,
				Count:    1,
				Expanded: expanded,
				Entry:    group.Entries[0],
			})
			continue
		}
		rows = append(rows, SpeakerRow{
			Kind:     RowParent,
			Section:  section,
			GroupKey: group.Key,
			Speaker:  group.Name,
			Count:    len(group.Entries),
			Expanded: expanded,
		})
		if !expanded {
			continue
		}
		for _, entry := range group.Entries {
			rows = append(rows, SpeakerRow{
				Kind:     RowChild,
				Section:  section,
				GroupKey: group.Key,
				Speaker:  group.Name,
				Count:    1,
				Expanded: true,
				Entry:    entry,
			})
		}
	}
	return rows
}

// ViewMode selects the dimension documents are grouped by.
type ViewMode string

const (
	ViewByCategory ViewMode = "category"
	ViewByType     ViewMode = "type"
	ViewByMonth    ViewMode = "month"
)

// ParseViewMode maps a flag value to a ViewMode, defaulting to category.
func ParseViewMode(s string) ViewMode {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewByType:
		return ViewByType
	case ViewByMonth:
		return ViewByMonth
	default:
		return ViewByCategory
	}
}

// DocumentGroup is one group of documents under a view mode.
type DocumentGroup struct {
	Label     string            `json:"label"`
	Documents []VillageDocument `json:"documents"`
}

// GroupDocuments groups docs by mode. Groups appear in first-encountered
// order and only non-empty groups are returned.
func GroupDocuments(docs []VillageDocument, mode ViewMode, loc *time.Location) []DocumentGroup {
	var groups []DocumentGroup
	index := make(map[string]int)
	for _, doc := range docs {
		label := documentGroupLabel(doc, mode, loc)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, DocumentGroup{Label: label})
		}
		groups[i].Documents = append(groups[i].Documents, doc)
	}
	return groups
}

func documentGroupLabel(doc VillageDocument, mode ViewMode, loc *time.Location) string {
	var label string
	switch mode {
	case ViewByType:
		label = strings.TrimSpace(doc.Type)
	case ViewByMonth:
		label = FormatMonthYear(doc.Date, loc)
	default:
		label = strings.TrimSpace(doc.Category)
	}
	if label == "" {
		return Placeholder
	}
	return label
}
