package minutes

import (
	"testing"
	"time"
)

func TestToggleSimple(t *testing.T) {
	tests := []struct {
		name     string
		item     string
		current  Selection
		expected []string
	}{
		{"all resets", AllValue, NewSelection("2025", "2026"), []string{AllValue}},
		{"all from all stays all", AllValue, All(), []string{AllValue}},
		{"concrete clears all", "2026", All(), []string{"2026"}},
		{"adds second value", "2025", NewSelection("2026"), []string{"2025", "2026"}},
		{"removes value", "2025", NewSelection("2025", "2026"), []string{"2026"}},
		{"last removal restores all", "2026", NewSelection("2026"), []string{AllValue}},
		{"from empty", "2026", Selection{}, []string{"2026"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToggleSimple(tt.item, tt.current)
			if !equalStrings(got.Values(), tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got.Values())
			}
		})
	}
}

func TestToggleSimple_AllNeverMixed(t *testing.T) {
	items := []string{"2024", AllValue, "2025", "2024", "2026", AllValue, "2025", "2025"}
	current := All()
	for _, item := range items {
		current = ToggleSimple(item, current)
		if current.IsAll() && current.Len() != 1 {
			t.Fatalf("All mixed with concrete values after %q: %v", item, current.Values())
		}
		if current.IsEmpty() {
			t.Fatalf("simple facet became empty after %q", item)
		}
	}
}

func TestToggleSimple_DoesNotMutateInput(t *testing.T) {
	current := NewSelection("2025")
	_ = ToggleSimple("2026", current)
	if current.Len() != 1 || !current.Has("2025") {
		t.Errorf("expected input selection unchanged, got %v", current.Values())
	}
}

func TestToggleHierarchical(t *testing.T) {
	leaves := []string{"a|x", "a|y", "b|z"}

	tests := []struct {
		name     string
		item     string
		current  Selection
		expected []string
	}{
		{"all to none", AllValue, All(), []string{}},
		{"none to all", AllValue, Selection{}, []string{AllValue}},
		{"concrete to all", AllValue, NewSelection("a|x"), []string{AllValue}},
		{"narrow from all", "a|y", All(), []string{"a|x", "b|z"}},
		{"add leaf", "b|z", NewSelection("a|x"), []string{"a|x", "b|z"}},
		{"remove last leaf leaves empty", "a|x", NewSelection("a|x"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToggleHierarchical(tt.item, tt.current, leaves)
			if !equalStrings(got.Values(), tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got.Values())
			}
		})
	}
}

func TestToggleHierarchical_GroupKey(t *testing.T) {
	taxonomy := BuildTaxonomy(sampleMeetings())
	leaves := taxonomy.AllLeafValues()
	members := taxonomy.ChildrenOf(GroupMembers)

	fromAll := ToggleHierarchical(GroupMembers, All(), leaves)
	if fromAll.IsAll() {
		t.Fatal("expected group click to expand All")
	}
	for _, m := range members {
		if fromAll.Has(m) {
			t.Errorf("expected %s deselected", m)
		}
	}
	if !fromAll.Has(TitleLeaf) {
		t.Error("expected other groups kept")
	}

	for _, current := range []Selection{All(), Selection{}, NewSelection(members[0]), NewSelection(GroupMembers, TitleLeaf)} {
		expected := ToggleGroup(GroupMembers, current, taxonomy)
		if got := ToggleHierarchical(GroupMembers, current, leaves); !equalStrings(got.Values(), expected.Values()) {
			t.Errorf("from %v: expected %v, got %v", current.Values(), expected.Values(), got.Values())
		}
	}
}

func TestToggleGroup(t *testing.T) {
	taxonomy := BuildTaxonomy(sampleMeetings())
	members := taxonomy.ChildrenOf(GroupMembers)

	selected := ToggleGroup(GroupMembers, Selection{}, taxonomy)
	for _, m := range members {
		if !selected.Has(m) {
			t.Errorf("expected %s selected", m)
		}
	}
	if selected.Len() != len(members) {
		t.Errorf("expected only member leaves, got %v", selected.Values())
	}

	cleared := ToggleGroup(GroupMembers, selected, taxonomy)
	if !cleared.IsEmpty() {
		t.Errorf("expected group toggle to clear members, got %v", cleared.Values())
	}

	fromAll := ToggleGroup(GroupMembers, All(), taxonomy)
	if fromAll.IsAll() {
		t.Error("expected All to be expanded")
	}
	if fromAll.Has(members[0]) {
		t.Error("expected member leaves removed when toggling group from All")
	}
	if !fromAll.Has(TitleLeaf) {
		t.Error("expected other groups kept when toggling group from All")
	}
}

func TestSelection_ExpandGroups(t *testing.T) {
	taxonomy := BuildTaxonomy(sampleMeetings())
	expanded := NewSelection(GroupPublicComments, TitleLeaf).ExpandGroups(taxonomy)

	expected := append([]string{}, taxonomy.ChildrenOf(GroupPublicComments)...)
	expected = append(expected, TitleLeaf)
	if expanded.Len() != len(expected) {
		t.Fatalf("expected %d values, got %v", len(expected), expanded.Values())
	}
	for _, v := range expected {
		if !expanded.Has(v) {
			t.Errorf("expected %s in expansion", v)
		}
	}
	if expanded.Has(GroupPublicComments) {
		t.Error("expected group key replaced by children")
	}
}

func TestGroupSelectionFiltersLikeChildren(t *testing.T) {
	meetings := sampleMeetings()
	taxonomy := BuildTaxonomy(meetings)

	for _, group := range taxonomy.Groups {
		t.Run(group.Key, func(t *testing.T) {
			byGroup := BuildMeetingView(meetings[0], NewSelection(group.Key), taxonomy, time.UTC)
			byLeaves := BuildMeetingView(meetings[0], NewSelection(taxonomy.ChildrenOf(group.Key)...), taxonomy, time.UTC)

			if byGroup.Motions.Visible != byLeaves.Motions.Visible {
				t.Errorf("motions visibility differs")
			}
			if !equalStrings(byGroup.Motions.Columns, byLeaves.Motions.Columns) {
				t.Errorf("columns differ: %v vs %v", byGroup.Motions.Columns, byLeaves.Motions.Columns)
			}
			if len(byGroup.Motions.Rows) != len(byLeaves.Motions.Rows) {
				t.Errorf("row counts differ")
			}
			if len(byGroup.BoardEntries) != len(byLeaves.BoardEntries) || len(byGroup.PublicEntries) != len(byLeaves.PublicEntries) {
				t.Errorf("comment entries differ")
			}
		})
	}
}

func TestSelection_Equal(t *testing.T) {
	if !NewSelection("a", "b").Equal(NewSelection("b", "a")) {
		t.Error("expected equal selections")
	}
	if NewSelection("a").Equal(NewSelection("a", "b")) {
		t.Error("expected unequal selections")
	}
}

func TestFacets_WithReturnsCopies(t *testing.T) {
	base := DefaultFacets()
	narrowed := base.WithYears(NewSelection("2026")).WithQuery("fence")

	if !base.Years.IsAll() || base.Query != "" {
		t.Error("expected base facets unchanged")
	}
	if !narrowed.Years.Has("2026") || narrowed.Query != "fence" {
		t.Error("expected narrowed facets updated")
	}
}

func TestExpansionState(t *testing.T) {
	var state ExpansionState
	if state.IsExpanded(SectionBoard, "baskin") {
		t.Error("expected collapsed by default")
	}

	expanded := state.Toggle(SectionBoard, "baskin")
	if !expanded.IsExpanded(SectionBoard, "baskin") {
		t.Error("expected baskin expanded in board section")
	}
	if expanded.IsExpanded(SectionPublic, "baskin") {
		t.Error("expected sections to be independent")
	}
	if state.IsExpanded(SectionBoard, "baskin") {
		t.Error("expected original state unchanged")
	}

	collapsed := expanded.Toggle(SectionBoard, "baskin")
	if collapsed.IsExpanded(SectionBoard, "baskin") {
		t.Error("expected second toggle to collapse")
	}
}
