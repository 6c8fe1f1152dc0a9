package minutes

import (
	"regexp"
	"strings"
)

// ResolveTopic derives the topic shown for a comment. The motion title wins
// when present. Otherwise the section identifier is used only if text
// explicitly mentions it ("item 8h", "section 8h", "#8h" or a bare "8h" on
// word boundaries), so unrelated section numbers are never attributed.
func ResolveTopic(motion, section, text string) string {
	if title := strings.TrimSpace(motion); title != "" {
		return title
	}
	id := strings.TrimSpace(section)
	if id != "" && MentionsIdentifier(text, id) {
		return id
	}
	return Placeholder
}

// MentionsIdentifier reports whether text refers to the agenda identifier id.
func MentionsIdentifier(text, id string) bool {
	id = strings.TrimSpace(id)
	if id == "" || text == "" {
		return false
	}
	return identifierPattern(id).MatchString(text)
}

// identifierPattern matches id as a whole token, optionally introduced by
// "item", "section" or "#". Boundaries are explicit character classes because
// \b does not behave for identifiers that start or end with punctuation.
func identifierPattern(id string) *regexp.Regexp {
	const boundary = `[^\p{L}\p{N}_]`
	quoted := regexp.QuoteMeta(id)
	return regexp.MustCompile(`(?i)(?:^|` + boundary + `)(?:item\s+|section\s+|#)?` + quoted + `(?:$|` + boundary + `)`)
}

// voteForAgendaItems finds the vote whose section is referenced by one of the
// agenda items.
func voteForAgendaItems(meeting Meeting, items []string) (Vote, bool) {
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		for _, vote := range meeting.Votes {
			if strings.EqualFold(strings.TrimSpace(vote.Section), item) {
				return vote, true
			}
		}
	}
	return Vote{}, false
}
