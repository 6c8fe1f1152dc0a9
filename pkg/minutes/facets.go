package minutes

import "sort"

// Selection is an immutable set of selected facet values. The sentinel
// AllValue is either the only member or absent. The zero value is the empty
// selection ("nothing selected").
type Selection struct {
	values map[string]struct{}
}

// All returns the selection holding only the sentinel.
func All() Selection {
	return NewSelection(AllValue)
}

// NewSelection builds a selection from values.
func NewSelection(values ...string) Selection {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return Selection{values: set}
}

// Has reports whether value is selected.
func (s Selection) Has(value string) bool {
	_, ok := s.values[value]
	return ok
}

// IsAll reports whether the selection places no restriction on its facet.
func (s Selection) IsAll() bool {
	return s.Has(AllValue)
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.values) == 0
}

// Len returns the number of selected values.
func (s Selection) Len() int {
	return len(s.values)
}

// Values returns the selected values in sorted order.
func (s Selection) Values() []string {
	out := make([]string, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both selections hold the same values.
func (s Selection) Equal(other Selection) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for v := range s.values {
		if !other.Has(v) {
			return false
		}
	}
	return true
}

func (s Selection) clone() map[string]struct{} {
	out := make(map[string]struct{}, len(s.values)+1)
	for v := range s.values {
		out[v] = struct{}{}
	}
	return out
}

// ToggleSimple applies a click on item to a flat facet. Choosing AllValue is a
// reset. Any other item clears the sentinel and flips its own membership; an
// emptied selection falls back to All.
func ToggleSimple(item string, current Selection) Selection {
	if item == AllValue {
		return All()
	}
	next := current.clone()
	delete(next, AllValue)
	if _, ok := next[item]; ok {
		delete(next, item)
	} else {
		next[item] = struct{}{}
	}
	if len(next) == 0 {
		return All()
	}
	return Selection{values: next}
}

// ToggleHierarchical applies a click on item to the attribute facet. Unlike
// ToggleSimple, AllValue toggles between everything and nothing, since an
// empty attribute selection is a valid state. Deselecting a leaf while All is
// active narrows from the full leaf set. A group key toggles every leaf of
// that group, as ToggleGroup does.
func ToggleHierarchical(item string, current Selection, allLeafValues []string) Selection {
	if item == AllValue {
		if current.IsAll() {
			return Selection{values: map[string]struct{}{}}
		}
		return All()
	}

	if IsGroupKey(item) {
		effective := make(map[string]struct{}, len(allLeafValues))
		for _, v := range allLeafValues {
			group, _, _ := ParseAttributeKey(v)
			if current.IsAll() || current.Has(v) || current.Has(group) {
				effective[v] = struct{}{}
			}
		}
		for v := range current.values {
			if v != AllValue && !IsGroupKey(v) {
				effective[v] = struct{}{}
			}
		}
		return Selection{values: toggleChildren(effective, childrenIn(item, allLeafValues))}
	}

	if current.IsAll() {
		next := make(map[string]struct{}, len(allLeafValues))
		for _, v := range allLeafValues {
			if v != item {
				next[v] = struct{}{}
			}
		}
		return Selection{values: next}
	}

	next := current.clone()
	if _, ok := next[item]; ok {
		delete(next, item)
	} else {
		next[item] = struct{}{}
	}
	return Selection{values: next}
}

// ToggleGroup applies a click on an attribute group. When every child of the
// group is already selected the children are all deselected; otherwise they
// are all selected.
func ToggleGroup(groupKey string, current Selection, taxonomy Taxonomy) Selection {
	children := taxonomy.ChildrenOf(groupKey)
	effective := current.ExpandGroups(taxonomy)
	if current.IsAll() {
		effective = NewSelection(taxonomy.AllLeafValues()...)
	}

	return Selection{values: toggleChildren(effective.clone(), children)}
}

// toggleChildren deselects children from next when all of them are selected
// and selects them all otherwise.
func toggleChildren(next map[string]struct{}, children []string) map[string]struct{} {
	allSelected := len(children) > 0
	for _, child := range children {
		if _, ok := next[child]; !ok {
			allSelected = false
			break
		}
	}
	for _, child := range children {
		if allSelected {
			delete(next, child)
		} else {
			next[child] = struct{}{}
		}
	}
	return next
}

func childrenIn(groupKey string, leaves []string) []string {
	var children []string
	for _, v := range leaves {
		if group, id, ok := ParseAttributeKey(v); ok && id != "" && group == groupKey {
			children = append(children, v)
		}
	}
	return children
}

// ExpandGroups replaces every group key in the selection with the group's
// current children, so selecting a group filters exactly like selecting each
// of its leaves. The sentinel is kept as is.
func (s Selection) ExpandGroups(taxonomy Taxonomy) Selection {
	next := make(map[string]struct{}, len(s.values))
	for v := range s.values {
		if IsGroupKey(v) {
			for _, child := range taxonomy.ChildrenOf(v) {
				next[child] = struct{}{}
			}
			continue
		}
		next[v] = struct{}{}
	}
	return Selection{values: next}
}

// Facets is the complete filter state. It is a value: the With methods return
// modified copies and never touch the receiver.
type Facets struct {
	Types      Selection
	Years      Selection
	Meetings   Selection
	Attributes Selection
	Categories Selection
	Query      string
}

// DefaultFacets returns the unfiltered state.
func DefaultFacets() Facets {
	return Facets{
		Types:      All(),
		Years:      All(),
		Meetings:   All(),
		Attributes: All(),
		Categories: All(),
	}
}

// WithTypes returns a copy with the type facet replaced.
func (f Facets) WithTypes(s Selection) Facets {
	f.Types = s
	return f
}

// WithYears returns a copy with the year facet replaced.
func (f Facets) WithYears(s Selection) Facets {
	f.Years = s
	return f
}

// WithMeetings returns a copy with the meeting facet replaced.
func (f Facets) WithMeetings(s Selection) Facets {
	f.Meetings = s
	return f
}

// WithAttributes returns a copy with the attribute facet replaced.
func (f Facets) WithAttributes(s Selection) Facets {
	f.Attributes = s
	return f
}

// WithCategories returns a copy with the document category facet replaced.
func (f Facets) WithCategories(s Selection) Facets {
	f.Categories = s
	return f
}

// WithQuery returns a copy with the search query replaced.
func (f Facets) WithQuery(q string) Facets {
	f.Query = q
	return f
}

// Comment sections with independent expansion state.
const (
	SectionBoard  = "board"
	SectionPublic = "public"
)

// ExpansionState records which speaker groups are expanded, per section.
// Groups are collapsed by default. Like Selection it is immutable.
type ExpansionState struct {
	expanded map[string]struct{}
}

func expansionKey(section, groupKey string) string {
	return section + keySeparator + groupKey
}

// IsExpanded reports whether the group is expanded in section.
func (e ExpansionState) IsExpanded(section, groupKey string) bool {
	_, ok := e.expanded[expansionKey(section, groupKey)]
	return ok
}

// Toggle returns a copy with the group's expansion flipped.
func (e ExpansionState) Toggle(section, groupKey string) ExpansionState {
	next := make(map[string]struct{}, len(e.expanded)+1)
	for k := range e.expanded {
		next[k] = struct{}{}
	}
	key := expansionKey(section, groupKey)
	if _, ok := next[key]; ok {
		delete(next, key)
	} else {
		next[key] = struct{}{}
	}
	return ExpansionState{expanded: next}
}
