package minutes

import (
	"testing"
	"time"
)

func TestSelectMeetings_Facets(t *testing.T) {
	meetings := sampleMeetings()

	tests := []struct {
		name     string
		facets   Facets
		expected []string
	}{
		{"default", DefaultFacets(), []string{"bd._mtg._01.26.26", "bd._mtg._02.09.26"}},
		{"board type matches uniformly", DefaultFacets().WithTypes(NewSelection("Board of Trustees")), []string{"bd._mtg._01.26.26", "bd._mtg._02.09.26"}},
		{"unknown type", DefaultFacets().WithTypes(NewSelection("Plan Commission")), []string{}},
		{"year", DefaultFacets().WithYears(NewSelection("2026")), []string{"bd._mtg._01.26.26", "bd._mtg._02.09.26"}},
		{"other year", DefaultFacets().WithYears(NewSelection("2025")), []string{}},
		{"meeting", DefaultFacets().WithMeetings(NewSelection("bd._mtg._02.09.26")), []string{"bd._mtg._02.09.26"}},
		{"empty simple facet behaves like all", DefaultFacets().WithMeetings(Selection{}), []string{"bd._mtg._01.26.26", "bd._mtg._02.09.26"}},
		{"query", DefaultFacets().WithQuery("budget"), []string{"bd._mtg._02.09.26"}},
		{"blank query", DefaultFacets().WithQuery("   "), []string{"bd._mtg._01.26.26", "bd._mtg._02.09.26"}},
		{"facets and query conjunctive", DefaultFacets().WithMeetings(NewSelection("bd._mtg._01.26.26")).WithQuery("budget"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := meetingIDs(SelectMeetings(meetings, tt.facets, time.UTC))
			if !equalStrings(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSelectMeetings_Idempotent(t *testing.T) {
	meetings := sampleMeetings()
	facets := DefaultFacets().WithYears(NewSelection("2026")).WithQuery("fence")

	first := meetingIDs(SelectMeetings(meetings, facets, time.UTC))
	second := meetingIDs(SelectMeetings(meetings, facets, time.UTC))
	if !equalStrings(first, second) {
		t.Errorf("expected identical results, got %v and %v", first, second)
	}
	if len(meetings[0].Votes) != 2 {
		t.Error("expected source meetings untouched")
	}
}

func TestSelectMeetings_SearchInsideDiscussion(t *testing.T) {
	meetings := sampleMeetings()
	got := SelectMeetings(meetings, DefaultFacets().WithQuery("zoning"), time.UTC)
	if len(got) != 1 || got[0].ID() != "bd._mtg._01.26.26" {
		t.Fatalf("expected only the January meeting, got %v", meetingIDs(got))
	}
}

func TestSelectMeetings_EmptyInput(t *testing.T) {
	if got := SelectMeetings(nil, DefaultFacets(), time.UTC); len(got) != 0 {
		t.Errorf("expected no meetings, got %d", len(got))
	}
}

func TestBuildMeetingView_AllAttributes(t *testing.T) {
	meetings := sampleMeetings()
	taxonomy := BuildTaxonomy(meetings)
	view := BuildMeetingView(meetings[0], All(), taxonomy, time.UTC)

	if !view.Motions.Visible {
		t.Fatal("expected motions table visible")
	}
	if !equalStrings(view.Motions.Columns, []string{"Mayor Rossi", "Baskin"}) {
		t.Errorf("expected columns [Mayor Rossi Baskin], got %v", view.Motions.Columns)
	}
	if len(view.Motions.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(view.Motions.Rows))
	}
	if !equalStrings(view.Motions.Rows[0].Cells, []string{"YES", "NO"}) {
		t.Errorf("unexpected first row cells %v", view.Motions.Rows[0].Cells)
	}
	if !equalStrings(view.Motions.Rows[1].Cells, []string{"YES", Placeholder}) {
		t.Errorf("expected missing Baskin placeholder, got %v", view.Motions.Rows[1].Cells)
	}
	if view.Motions.Rows[1].Title != Placeholder {
		t.Errorf("expected placeholder title, got %q", view.Motions.Rows[1].Title)
	}
	if view.DisplayDate != "January 26, 2026" {
		t.Errorf("unexpected display date %q", view.DisplayDate)
	}
	if len(view.BoardEntries) != 5 {
		t.Errorf("expected 5 board entries, got %d", len(view.BoardEntries))
	}
	if len(view.PublicEntries) != 3 {
		t.Errorf("expected 3 public entries, got %d", len(view.PublicEntries))
	}
}

func TestBuildMeetingView_SingleMemberSelected(t *testing.T) {
	meetings := sampleMeetings()
	taxonomy := BuildTaxonomy(meetings)
	attrs := NewSelection("resolutions|votes-member|Mayor Rossi")

	view := BuildMeetingView(meetings[0], attrs, taxonomy, time.UTC)
	if !view.Motions.Visible {
		t.Fatal("expected motions table visible")
	}
	if !equalStrings(view.Motions.Columns, []string{"Mayor Rossi"}) {
		t.Errorf("expected only Mayor Rossi column, got %v", view.Motions.Columns)
	}
	for _, row := range view.Motions.Rows {
		if row.Title == "" {
			t.Error("expected title present on every row")
		}
		if len(row.Cells) != 1 || row.Cells[0] != "YES" {
			t.Errorf("unexpected cells %v", row.Cells)
		}
	}
	if len(view.BoardEntries) != 0 || len(view.PublicEntries) != 0 {
		t.Error("expected comment sections empty")
	}

	group, _ := taxonomy.Group(GroupMembers)
	if len(group.Leaves) != 3 {
		t.Errorf("expected other member leaves still listed, got %v", leafLabels(group))
	}
}

func TestBuildMeetingView_SurnameVariants(t *testing.T) {
	meetings := []Meeting{priceBushMeeting()}
	taxonomy := BuildTaxonomy(meetings)

	view := BuildMeetingView(meetings[0], All(), taxonomy, time.UTC)
	if !equalStrings(view.Motions.Columns, []string{"Trustee Price-Bush", "Mayor Rossi"}) {
		t.Fatalf("expected two official columns, got %v", view.Motions.Columns)
	}
	if cells := view.Motions.Rows[1].Cells; !equalStrings(cells, []string{"NO", "YES"}) {
		t.Errorf("expected second vote cells [NO YES], got %v", cells)
	}

	attrs := NewSelection(LeafKey(GroupMembers, "Price-Bush"))
	scoped := BuildMeetingView(meetings[0], attrs, taxonomy, time.UTC)
	if !equalStrings(scoped.Motions.Columns, []string{"Trustee Price-Bush"}) {
		t.Fatalf("expected Price-Bush leaf to select the Trustee Price-Bush column, got %v", scoped.Motions.Columns)
	}
	for i, expected := range []string{"YES", "NO"} {
		if cells := scoped.Motions.Rows[i].Cells; len(cells) != 1 || cells[0] != expected {
			t.Errorf("row %d: expected [%s], got %v", i, expected, cells)
		}
	}
}

func TestBuildMeetingView_ResultFilter(t *testing.T) {
	meetings := sampleMeetings()
	taxonomy := BuildTaxonomy(meetings)
	view := BuildMeetingView(meetings[0], NewSelection("resolutions|votes-result|FAILED"), taxonomy, time.UTC)

	if len(view.Motions.Rows) != 1 || view.Motions.Rows[0].Section != "9a" {
		t.Fatalf("expected only the failed 9a vote, got %+v", view.Motions.Rows)
	}
	if view.Motions.Rows[0].Category != ResultFailed {
		t.Errorf("expected failed category, got %s", view.Motions.Rows[0].Category)
	}
	if len(view.Motions.Columns) != 0 {
		t.Errorf("expected no member columns, got %v", view.Motions.Columns)
	}
}

func TestBuildMeetingView_CommentSpeakers(t *testing.T) {
	meetings := sampleMeetings()
	taxonomy := BuildTaxonomy(meetings)
	attrs := NewSelection("comments|board|Baskin", "comments|public|Jane Smith")

	view := BuildMeetingView(meetings[0], attrs, taxonomy, time.UTC)
	if view.Motions.Visible {
		t.Error("expected motions hidden")
	}
	if len(view.BoardEntries) != 2 {
		t.Errorf("expected 2 Baskin entries (case variants), got %d", len(view.BoardEntries))
	}
	if len(view.PublicEntries) != 2 {
		t.Errorf("expected 2 Jane Smith entries, got %d", len(view.PublicEntries))
	}
}

func TestBuildMeetingView_NothingSelected(t *testing.T) {
	meetings := sampleMeetings()
	view := BuildMeetingView(meetings[0], Selection{}, BuildTaxonomy(meetings), time.UTC)
	if view.Motions.Visible || len(view.BoardEntries) != 0 || len(view.PublicEntries) != 0 {
		t.Error("expected empty view for empty attribute selection")
	}
}

func TestBuildView(t *testing.T) {
	view := BuildView(sampleMeetings(), DefaultFacets(), time.UTC)

	if view.Status != StatusReady {
		t.Errorf("expected ready, got %s", view.Status)
	}
	if len(view.Meetings) != 2 {
		t.Fatalf("expected 2 meeting views, got %d", len(view.Meetings))
	}

	var boardNames []string
	for _, g := range view.BoardGroups {
		boardNames = append(boardNames, g.Name)
	}
	if !equalStrings(boardNames, []string{"Baskin", "Mayor Rossi", "Trustee Price-Bush"}) {
		t.Errorf("unexpected board groups %v", boardNames)
	}

	var publicNames []string
	for _, g := range view.PublicGroups {
		publicNames = append(publicNames, g.Name)
	}
	if !equalStrings(publicNames, []string{"Ann Cole", "Bob Lee", "Jane Smith"}) {
		t.Errorf("unexpected public groups %v", publicNames)
	}
}

func TestBuildView_Statuses(t *testing.T) {
	meetings := sampleMeetings()

	tests := []struct {
		name     string
		meetings []Meeting
		facets   Facets
		expected ViewStatus
	}{
		{"loading", nil, DefaultFacets(), StatusLoading},
		{"no matches", meetings, DefaultFacets().WithQuery("no such text"), StatusNoMatches},
		{"nothing selected", meetings, DefaultFacets().WithAttributes(Selection{}), StatusNothingSelected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := BuildView(tt.meetings, tt.facets, time.UTC)
			if view.Status != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, view.Status)
			}
			if tt.expected != StatusNothingSelected && !view.Empty() {
				t.Error("expected empty view")
			}
		})
	}
}
