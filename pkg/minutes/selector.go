package minutes

import (
	"strings"
	"time"

	"github.com/coolbeans/villagerecords/pkg/names"
)

// SelectMeetings applies the type, year and meeting facets (AND across
// facets, OR within one) and then the free-text query. Input order is kept.
// Simple facets treat an empty selection like All.
func SelectMeetings(meetings []Meeting, facets Facets, loc *time.Location) []Meeting {
	query := NewQuery(facets.Query)
	out := make([]Meeting, 0, len(meetings))
	for _, m := range meetings {
		if !matchesType(m, facets.Types) {
			continue
		}
		if !unrestricted(facets.Years) && !facets.Years.Has(Year(m.Date, loc)) {
			continue
		}
		if !unrestricted(facets.Meetings) && !facets.Meetings.Has(m.ID()) {
			continue
		}
		if !MatchesMeeting(m, query, loc) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// FilterByType applies only the type facet. The attribute taxonomy and the
// meeting options are built from this list.
func FilterByType(meetings []Meeting, types Selection) []Meeting {
	out := make([]Meeting, 0, len(meetings))
	for _, m := range meetings {
		if matchesType(m, types) {
			out = append(out, m)
		}
	}
	return out
}

func unrestricted(s Selection) bool {
	return s.IsAll() || s.IsEmpty()
}

// matchesType reports whether m belongs to one of the selected types. The
// dataset only holds Board of Trustees minutes, so selecting that body
// matches every meeting.
func matchesType(m Meeting, types Selection) bool {
	if unrestricted(types) {
		return true
	}
	for _, t := range types.Values() {
		if names.Equivalent(t, DefaultBody) || names.Equivalent(t, m.Type) {
			return true
		}
	}
	return false
}

// MotionRow is one vote in the motions table.
type MotionRow struct {
	Section  string         `json:"section"`
	Title    string         `json:"title"`
	Mover    string         `json:"mover,omitempty"`
	Seconder string         `json:"seconder,omitempty"`
	Result   string         `json:"result"`
	Category ResultCategory `json:"category"`

	// Cells holds one value per table column, Placeholder where the vote
	// has no record for that official.
	Cells []string `json:"cells"`
}

// MotionsTable is the attribute-scoped motions table of a meeting. The Title
// column is always present when the table is visible; Columns lists the
// official columns after it.
type MotionsTable struct {
	Visible bool        `json:"visible"`
	Columns []string    `json:"columns"`
	Rows    []MotionRow `json:"rows"`
}

// MeetingView is the attribute-scoped rendering model of one meeting.
type MeetingView struct {
	Meeting       Meeting        `json:"meeting"`
	DisplayDate   string         `json:"display_date"`
	Motions       MotionsTable   `json:"motions"`
	BoardEntries  []CommentEntry `json:"board_entries"`
	PublicEntries []CommentEntry `json:"public_entries"`
}

// attributeScope is an expanded attribute selection split by group.
type attributeScope struct {
	all     bool
	title   bool
	members []string
	results map[string]struct{}
	board   []string
	public  []string
}

func newAttributeScope(attrs Selection, taxonomy Taxonomy) attributeScope {
	scope := attributeScope{results: make(map[string]struct{})}
	if attrs.IsAll() {
		scope.all = true
		return scope
	}
	for _, value := range attrs.ExpandGroups(taxonomy).Values() {
		group, id, ok := ParseAttributeKey(value)
		if !ok || id == "" {
			continue
		}
		switch group {
		case GroupMotions:
			scope.title = true
		case GroupMembers:
			scope.members = append(scope.members, id)
		case GroupResults:
			scope.results[ResultKey(id)] = struct{}{}
		case GroupBoardComments:
			scope.board = append(scope.board, id)
		case GroupPublicComments:
			scope.public = append(scope.public, id)
		}
	}
	return scope
}

func (s attributeScope) motionsVisible() bool {
	return s.all || s.title || len(s.members) > 0 || len(s.results) > 0
}

func (s attributeScope) showsOfficial(official string) bool {
	if s.all {
		return true
	}
	return names.IsSameOfficial(official, s.members)
}

func (s attributeScope) keepsResult(result string) bool {
	if s.all || len(s.results) == 0 {
		return true
	}
	_, ok := s.results[ResultKey(result)]
	return ok
}

func filterEntries(entries []CommentEntry, all bool, speakers []string) []CommentEntry {
	if all {
		if entries == nil {
			return []CommentEntry{}
		}
		return entries
	}
	out := make([]CommentEntry, 0, len(entries))
	for _, e := range entries {
		for _, speaker := range speakers {
			if names.Equivalent(speaker, e.Speaker) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// BuildMeetingView scopes one meeting to the attribute selection. Group keys
// in attrs stand for all of their children in taxonomy.
func BuildMeetingView(m Meeting, attrs Selection, taxonomy Taxonomy, loc *time.Location) MeetingView {
	scope := newAttributeScope(attrs, taxonomy)
	view := MeetingView{
		Meeting:       m,
		DisplayDate:   FormatDisplayDate(m.Date, loc),
		Motions:       MotionsTable{Columns: []string{}, Rows: []MotionRow{}},
		BoardEntries:  filterEntries(CollectBoardEntries(m), scope.all, scope.board),
		PublicEntries: filterEntries(CollectPublicEntries(m), scope.all, scope.public),
	}

	if !scope.motionsVisible() {
		return view
	}
	view.Motions.Visible = true
	for _, official := range m.Officials() {
		if scope.showsOfficial(official) {
			view.Motions.Columns = append(view.Motions.Columns, official)
		}
	}
	for _, vote := range m.Votes {
		if !scope.keepsResult(vote.Result) {
			continue
		}
		row := MotionRow{
			Section:  vote.Section,
			Title:    orPlaceholder(vote.Motion),
			Mover:    vote.Mover,
			Seconder: vote.Seconder,
			Result:   orPlaceholder(vote.Result),
			Category: vote.Category(),
			Cells:    make([]string, 0, len(view.Motions.Columns)),
		}
		for _, official := range view.Motions.Columns {
			row.Cells = append(row.Cells, vote.Cell(official))
		}
		view.Motions.Rows = append(view.Motions.Rows, row)
	}
	return view
}

// ViewStatus describes why a view may have nothing to render.
type ViewStatus int

const (
	// StatusReady means there is content to render.
	StatusReady ViewStatus = iota
	// StatusLoading means no dataset has been received yet.
	StatusLoading
	// StatusNoMatches means the facets and query exclude every meeting.
	StatusNoMatches
	// StatusNothingSelected means the attribute facet is empty.
	StatusNothingSelected
)

// String returns a human-readable message for the status.
func (s ViewStatus) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusLoading:
		return "loading"
	case StatusNoMatches:
		return "no meetings match"
	case StatusNothingSelected:
		return "select one or more attributes"
	default:
		return "unknown"
	}
}

// View is everything the presentation layer needs for the meetings page.
type View struct {
	Status         ViewStatus     `json:"status"`
	Taxonomy       Taxonomy       `json:"taxonomy"`
	TypeOptions    []Option       `json:"type_options"`
	MeetingOptions []Option       `json:"meeting_options"`
	Meetings       []MeetingView  `json:"meetings"`
	BoardGroups    []SpeakerGroup `json:"board_groups"`
	PublicGroups   []SpeakerGroup `json:"public_groups"`
}

// Empty reports whether the view has no meetings to show.
func (v View) Empty() bool {
	return len(v.Meetings) == 0
}

// BuildView composes selection, taxonomy, per-meeting scoping and speaker
// grouping. An empty dataset yields a valid view with StatusLoading.
func BuildView(meetings []Meeting, facets Facets, loc *time.Location) View {
	typed := FilterByType(meetings, facets.Types)
	view := View{
		Taxonomy:       BuildTaxonomy(typed),
		TypeOptions:    BuildTypeOptions(meetings),
		MeetingOptions: BuildMeetingOptions(typed, loc),
		Meetings:       []MeetingView{},
	}

	var board, public []CommentEntry
	for _, m := range SelectMeetings(meetings, facets, loc) {
		mv := BuildMeetingView(m, facets.Attributes, view.Taxonomy, loc)
		view.Meetings = append(view.Meetings, mv)
		board = append(board, mv.BoardEntries...)
		public = append(public, mv.PublicEntries...)
	}
	view.BoardGroups = GroupBySpeaker(board)
	view.PublicGroups = GroupBySpeaker(public)

	switch {
	case len(meetings) == 0:
		view.Status = StatusLoading
	case len(view.Meetings) == 0:
		view.Status = StatusNoMatches
	case facets.Attributes.IsEmpty():
		view.Status = StatusNothingSelected
	default:
		view.Status = StatusReady
	}
	return view
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}
