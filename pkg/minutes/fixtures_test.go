package minutes

import (
	"testing"
	"time"
)

func sampleMeetings() []Meeting {
	return []Meeting{
		{
			Filename: "bd._mtg._01.26.26",
			Date:     "2026-01-26",
			Type:     "Board of Trustees",
			Subtype:  "Regular",
			Summary:  "Regular meeting covering the fence permit and road work.",
			Votes: []Vote{
				{
					Section:  "8h",
					Motion:   "Approve fence permit",
					Mover:    "Baskin",
					Seconder: "Dubuque",
					Result:   "Passed",
					Breakdown: VoteBreakdown{
						{Official: "Mayor Rossi", Value: "YES"},
						{Official: "Baskin", Value: "NO"},
					},
					Discussion: []DiscussionEntry{
						{Speaker: "Trustee Price-Bush", Statement: "I support the fence at item 8h."},
						{Speaker: "Baskin", Statement: "Concerned about zoning setbacks."},
					},
				},
				{
					Section: "9a",
					Result:  "Failed",
					Breakdown: VoteBreakdown{
						{Official: "Mayor Rossi", Value: "YES"},
					},
					Discussion: []DiscussionEntry{
						{Speaker: "baskin", Statement: "This needs more study."},
					},
				},
			},
			PublicComments: []PublicComment{
				{Speaker: "Jane Smith", Comment: "Please repave Elm Street.", AgendaItems: []string{}},
				{Speaker: "jane smith", Comment: "Parks need lights.", Summary: "Park lighting", AgendaItems: []string{}},
				{
					Speaker:     "Bob Lee",
					Comment:     "I oppose the fence.",
					AgendaItems: []string{"8h"},
					Response:    &BoardResponse{Responder: "Mayor Rossi", Response: "We will review the permit."},
				},
			},
			Announcements: []Announcement{
				{Kind: AnnouncementMayor, Speaker: "Mayor Rossi", Statement: "Leaf pickup starts Monday.", Topic: "Leaf pickup"},
			},
		},
		{
			Filename: "bd._mtg._02.09.26",
			Date:     "02/09/2026",
			Type:     "Board of Trustees",
			Subtype:  "Special",
			Summary:  "Special budget session.",
			Votes: []Vote{
				{
					Section: "3",
					Motion:  "Adopt budget",
					Result:  "passed",
					Breakdown: VoteBreakdown{
						{Official: "Mayor Rossi", Value: "YES"},
						{Official: "Dubuque", Value: "YES"},
					},
					Discussion: []DiscussionEntry{},
				},
			},
			PublicComments: []PublicComment{
				{Speaker: "Ann Cole", Comment: "The budget is too high.", AgendaItems: []string{}},
			},
			Announcements: []Announcement{},
		},
	}
}

func sampleDocuments() []VillageDocument {
	return []VillageDocument{
		{ID: "1", Title: "January agenda", Date: "2026-01-20", Category: "Board of Trustees", Type: "Agenda"},
		{ID: "2", Title: "Leaf pickup notice", Date: "2025-10-01", Category: "Public Works", Type: "Notice", Summary: "Fall leaf collection schedule"},
		{ID: "3", Title: "January minutes", Date: "2026-01-26", Category: "Board of Trustees", Type: "Minutes", Event: "Regular meeting"},
		{ID: "4", Title: "Undated flyer", Category: "Public Works", Type: "Flyer"},
		{ID: "5", Title: "Zoning code", Date: "2025-10-15", Category: "Building", Type: "Ordinance"},
	}
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("time zone %s unavailable: %v", name, err)
	}
	return loc
}

func meetingIDs(meetings []Meeting) []string {
	ids := make([]string, 0, len(meetings))
	for _, m := range meetings {
		ids = append(ids, m.ID())
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
