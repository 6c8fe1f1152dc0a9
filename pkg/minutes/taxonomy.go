package minutes

import (
	"sort"
	"strings"
	"time"

	"github.com/coolbeans/villagerecords/pkg/names"
)

// AllValue is the sentinel selection value meaning "no restriction".
const AllValue = "All"

// keySeparator joins the parts of a composite facet key.
const keySeparator = "|"

// Attribute group keys, in display order.
const (
	GroupMotions        = "resolutions|motions"
	GroupMembers        = "resolutions|votes-member"
	GroupResults        = "resolutions|votes-result"
	GroupBoardComments  = "comments|board"
	GroupPublicComments = "comments|public"
)

// TitleLeaf is the single leaf of the Motions group.
const TitleLeaf = GroupMotions + keySeparator + "title"

// groupOrder fixes the order of the attribute groups.
var groupOrder = []struct {
	key   string
	label string
}{
	{GroupMotions, "Motions"},
	{GroupMembers, "Members"},
	{GroupResults, "Votes"},
	{GroupBoardComments, "Board comments"},
	{GroupPublicComments, "Public comments"},
}

// AttributeLeaf is one selectable value of an attribute group.
type AttributeLeaf struct {
	// Value is the composite key "<groupKey>|<identifier>".
	Value string `json:"value"`

	// Label is the display label.
	Label string `json:"label"`
}

// AttributeGroup is a top-level group of the attribute facet.
type AttributeGroup struct {
	Key    string          `json:"key"`
	Label  string          `json:"label"`
	Leaves []AttributeLeaf `json:"leaves"`
}

// Taxonomy is the two-level attribute hierarchy derived from a meeting list.
type Taxonomy struct {
	Groups []AttributeGroup `json:"groups"`
}

// LeafKey builds the composite key of a leaf.
func LeafKey(groupKey, identifier string) string {
	return groupKey + keySeparator + identifier
}

// ParseAttributeKey splits a composite value into its group key and leaf
// identifier. Group keys themselves return an empty identifier; values that
// belong to no known group return ok=false.
func ParseAttributeKey(value string) (group, identifier string, ok bool) {
	for _, g := range groupOrder {
		if value == g.key {
			return g.key, "", true
		}
		prefix := g.key + keySeparator
		if strings.HasPrefix(value, prefix) {
			return g.key, strings.TrimPrefix(value, prefix), true
		}
	}
	return "", "", false
}

// IsGroupKey reports whether value names an attribute group.
func IsGroupKey(value string) bool {
	for _, g := range groupOrder {
		if value == g.key {
			return true
		}
	}
	return false
}

// BuildTaxonomy derives the attribute hierarchy from meetings. It is a pure
// projection and should be recomputed whenever the meeting list changes.
func BuildTaxonomy(meetings []Meeting) Taxonomy {
	members := names.NewSet()
	results := make(map[string]struct{})
	board := names.NewSet()
	public := names.NewSet()

	for _, meeting := range meetings {
		for _, vote := range meeting.Votes {
			for _, cast := range vote.Breakdown {
				members.Add(cast.Official)
			}
			if key := ResultKey(vote.Result); key != "" {
				results[key] = struct{}{}
			}
			for _, entry := range vote.Discussion {
				board.Add(entry.Speaker)
			}
		}
		for _, announcement := range meeting.Announcements {
			board.Add(announcement.Speaker)
		}
		for _, comment := range meeting.PublicComments {
			if comment.Response != nil {
				board.Add(comment.Response.Responder)
			}
			public.Add(comment.Speaker)
		}
	}

	memberLabels := members.Labels()
	sort.Strings(memberLabels)

	resultLabels := make([]string, 0, len(results))
	for key := range results {
		resultLabels = append(resultLabels, key)
	}
	sort.Strings(resultLabels)

	leavesByGroup := map[string][]string{
		GroupMembers:        memberLabels,
		GroupResults:        resultLabels,
		GroupBoardComments:  board.Labels(),
		GroupPublicComments: public.Labels(),
	}

	taxonomy := Taxonomy{Groups: make([]AttributeGroup, 0, len(groupOrder))}
	for _, g := range groupOrder {
		group := AttributeGroup{Key: g.key, Label: g.label, Leaves: []AttributeLeaf{}}
		if g.key == GroupMotions {
			group.Leaves = append(group.Leaves, AttributeLeaf{Value: TitleLeaf, Label: "Title"})
		}
		for _, label := range leavesByGroup[g.key] {
			group.Leaves = append(group.Leaves, AttributeLeaf{Value: LeafKey(g.key, label), Label: label})
		}
		taxonomy.Groups = append(taxonomy.Groups, group)
	}
	return taxonomy
}

// Group returns the group with the given key.
func (t Taxonomy) Group(key string) (AttributeGroup, bool) {
	for _, g := range t.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return AttributeGroup{}, false
}

// ChildrenOf returns the leaf values of a group.
func (t Taxonomy) ChildrenOf(groupKey string) []string {
	group, ok := t.Group(groupKey)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(group.Leaves))
	for _, leaf := range group.Leaves {
		values = append(values, leaf.Value)
	}
	return values
}

// AllLeafValues returns every leaf value in group order.
func (t Taxonomy) AllLeafValues() []string {
	var values []string
	for _, g := range t.Groups {
		values = append(values, t.ChildrenOf(g.Key)...)
	}
	return values
}

// Option is one entry of a flat facet.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// BuildMeetingOptions lists the meetings as facet options, newest first,
// labelled with the formatted date and subtype.
func BuildMeetingOptions(meetings []Meeting, loc *time.Location) []Option {
	sorted := make([]Meeting, len(meetings))
	copy(sorted, meetings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compareDatesDesc(sorted[i].Date, sorted[j].Date, loc) < 0
	})

	options := make([]Option, 0, len(sorted))
	for _, meeting := range sorted {
		label := FormatDisplayDate(meeting.Date, loc)
		if label == Placeholder {
			label = meeting.Filename
		}
		if subtype := strings.TrimSpace(meeting.Subtype); subtype != "" {
			label += " — " + subtype
		}
		options = append(options, Option{Value: meeting.ID(), Label: label})
	}
	return options
}

// BuildTypeOptions lists the distinct meeting types in encounter order. A
// meeting without a type contributes DefaultBody.
func BuildTypeOptions(meetings []Meeting) []Option {
	set := names.NewSet()
	for _, meeting := range meetings {
		if strings.TrimSpace(meeting.Type) == "" {
			set.Add(DefaultBody)
			continue
		}
		set.Add(meeting.Type)
	}
	options := make([]Option, 0, set.Len())
	for _, label := range set.Labels() {
		options = append(options, Option{Value: label, Label: label})
	}
	return options
}

// BuildYearOptions lists the distinct years of the given dates, newest first.
func BuildYearOptions(dates []string, loc *time.Location) []Option {
	seen := make(map[string]struct{})
	var years []string
	for _, raw := range dates {
		year := Year(raw, loc)
		if year == "" {
			continue
		}
		if _, ok := seen[year]; ok {
			continue
		}
		seen[year] = struct{}{}
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))

	options := make([]Option, 0, len(years))
	for _, year := range years {
		options = append(options, Option{Value: year, Label: year})
	}
	return options
}

// CategoryNode is a document category and the types found under it.
type CategoryNode struct {
	Category string   `json:"category"`
	Types    []string `json:"types"`
}

// BuildDocumentCategoryTree groups document types under their category, both
// levels in first-encountered order. A type leaf is selected with the
// composite value "category|type".
func BuildDocumentCategoryTree(docs []VillageDocument) []CategoryNode {
	var nodes []CategoryNode
	index := make(map[string]int)
	for _, doc := range docs {
		category := strings.TrimSpace(doc.Category)
		if category == "" {
			continue
		}
		i, ok := index[category]
		if !ok {
			i = len(nodes)
			index[category] = i
			nodes = append(nodes, CategoryNode{Category: category, Types: []string{}})
		}
		docType := strings.TrimSpace(doc.Type)
		if docType == "" || containsString(nodes[i].Types, docType) {
			continue
		}
		nodes[i].Types = append(nodes[i].Types, docType)
	}
	return nodes
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
