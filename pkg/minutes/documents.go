package minutes

import (
	"sort"
	"strings"
	"time"
)

// SelectDocuments filters docs by query (title, summary, event), year and
// category, and returns them newest first. A category selection value is
// either a bare category, matching every type under it, or a
// "category|type" pair matching exactly.
func SelectDocuments(docs []VillageDocument, facets Facets, loc *time.Location) []VillageDocument {
	query := NewQuery(facets.Query)
	out := make([]VillageDocument, 0, len(docs))
	for _, doc := range docs {
		if !MatchesDocument(doc, query) {
			continue
		}
		if !unrestricted(facets.Years) && !facets.Years.Has(Year(doc.Date, loc)) {
			continue
		}
		if !matchesCategory(doc, facets.Categories) {
			continue
		}
		out = append(out, doc)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return compareDatesDesc(out[i].Date, out[j].Date, loc) < 0
	})
	return out
}

func matchesCategory(doc VillageDocument, categories Selection) bool {
	if unrestricted(categories) {
		return true
	}
	category := strings.TrimSpace(doc.Category)
	docType := strings.TrimSpace(doc.Type)
	for _, value := range categories.Values() {
		wantCategory, wantType, isPair := strings.Cut(value, keySeparator)
		if !strings.EqualFold(strings.TrimSpace(wantCategory), category) {
			continue
		}
		if !isPair || strings.EqualFold(strings.TrimSpace(wantType), docType) {
			return true
		}
	}
	return false
}
