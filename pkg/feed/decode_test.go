package feed

import (
	"strings"
	"testing"

	"github.com/coolbeans/villagerecords/pkg/minutes"
)

func TestDecodeMeetings_Envelopes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"array", `[{"filename":"a"},{"filename":"b"}]`, []string{"a", "b"}},
		{"single object", `{"filename":"a"}`, []string{"a"}},
		{"meetings envelope", `{"meetings":[{"filename":"b"}]}`, []string{"b"}},
		{"empty input", `  `, []string{}},
		{"empty array", `[]`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meetings, err := DecodeMeetings(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("DecodeMeetings failed: %v", err)
			}
			if len(meetings) != len(tt.expected) {
				t.Fatalf("expected %d meetings, got %d", len(tt.expected), len(meetings))
			}
			for i, m := range meetings {
				if m.Filename != tt.expected[i] {
					t.Errorf("meeting %d: expected %q, got %q", i, tt.expected[i], m.Filename)
				}
			}
		})
	}
}

func TestDecodeMeetings_Invalid(t *testing.T) {
	for _, input := range []string{`"meeting"`, `[{"filename": 3}]`, `{"votes": [{"votes": ["Aye"]}]}`} {
		if _, err := DecodeMeetings(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %s", input)
		}
	}
}

func TestDecodeMeetings_DefaultsToEmpty(t *testing.T) {
	meetings, err := DecodeMeetings(strings.NewReader(`{
		"filename": "bd._mtg._03.02.26",
		"votes": [{"motion_description": "Approve minutes"}],
		"public_comments": [{"speaker_name": "Ann Cole", "comment_text": "Thanks"}]
	}`))
	if err != nil {
		t.Fatalf("DecodeMeetings failed: %v", err)
	}

	m := meetings[0]
	if m.Votes[0].Breakdown == nil || m.Votes[0].Discussion == nil {
		t.Error("expected vote collections to default to empty")
	}
	if m.PublicComments[0].AgendaItems == nil {
		t.Error("expected agenda items to default to empty")
	}
	if m.Announcements == nil {
		t.Error("expected announcements to default to empty")
	}
	if m.PublicComments[0].Response != nil {
		t.Error("expected no board response")
	}
}

func TestDecodeMeetings_Metadata(t *testing.T) {
	meetings, err := DecodeMeetings(strings.NewReader(`[
		{"filename": "nested", "date": "ignored", "meeting_metadata": {"date": "2026-01-26", "meeting_type": "Board of Trustees", "meeting_subtype": "Regular", "summary": "s"}},
		{"filename": "flat", "date": "01/05/2026", "type": "Planning Commission", "subtype": "Special"}
	]`))
	if err != nil {
		t.Fatalf("DecodeMeetings failed: %v", err)
	}

	nested := meetings[0]
	if nested.Date != "2026-01-26" || nested.Type != "Board of Trustees" || nested.Subtype != "Regular" || nested.Summary != "s" {
		t.Errorf("unexpected nested metadata %+v", nested)
	}
	flat := meetings[1]
	if flat.Date != "01/05/2026" || flat.Type != "Planning Commission" || flat.Subtype != "Special" {
		t.Errorf("unexpected flat metadata %+v", flat)
	}
}

func TestDecodeMeetings_Announcements(t *testing.T) {
	meetings, err := DecodeMeetings(strings.NewReader(`{
		"filename": "a",
		"mayor_announcements": [{"speaker": "Mayor Rossi", "announcement": "Leaf pickup ends Friday.", "topic": "Leaf pickup"}],
		"board_announcements": [{"speaker": "Ryan", "statement": "Hall closed Monday."}],
		"liaison_reports": [{"trustee": "Dubuque", "report": "Library hours extended.", "committee": "Library"}]
	}`))
	if err != nil {
		t.Fatalf("DecodeMeetings failed: %v", err)
	}

	got := meetings[0].Announcements
	expected := []minutes.Announcement{
		{Kind: minutes.AnnouncementMayor, Speaker: "Mayor Rossi", Statement: "Leaf pickup ends Friday.", Topic: "Leaf pickup"},
		{Kind: minutes.AnnouncementBoard, Speaker: "Ryan", Statement: "Hall closed Monday."},
		{Kind: minutes.AnnouncementLiaison, Speaker: "Dubuque", Statement: "Library hours extended.", Topic: "Library"},
	}
	if len(got) != len(expected) {
		t.Fatalf("expected %d announcements, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("announcement %d: expected %+v, got %+v", i, expected[i], got[i])
		}
	}
}

func TestDecodeMeetings_BreakdownOrder(t *testing.T) {
	meetings, err := DecodeMeetings(strings.NewReader(`{"filename": "a", "votes": [{"votes": {"Ryan": "Aye", "Baskin": "Nay", "Dubuque": null}}]}`))
	if err != nil {
		t.Fatalf("DecodeMeetings failed: %v", err)
	}
	officials := meetings[0].Votes[0].Breakdown.Officials()
	expected := []string{"Ryan", "Baskin", "Dubuque"}
	for i := range expected {
		if officials[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, officials)
			break
		}
	}
	if cell := meetings[0].Votes[0].Cell("Dubuque"); cell != minutes.Placeholder {
		t.Errorf("expected null vote to render as placeholder, got %q", cell)
	}
}

func TestDecodeDocuments(t *testing.T) {
	docs, err := DecodeDocuments(strings.NewReader(`{"documents": [{"id": "1", "title": "Minutes", "pageUrl": "https://example.org/p"}]}`))
	if err != nil {
		t.Fatalf("DecodeDocuments failed: %v", err)
	}
	if len(docs) != 1 || docs[0].PageURL != "https://example.org/p" {
		t.Errorf("unexpected documents %+v", docs)
	}

	empty, err := DecodeDocuments(strings.NewReader(""))
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil documents, got %v, %v", empty, err)
	}
}

func TestMockDataset(t *testing.T) {
	meetings, err := MockMeetings()
	if err != nil {
		t.Fatalf("MockMeetings failed: %v", err)
	}
	if len(meetings) == 0 {
		t.Fatal("expected mock meetings")
	}
	for _, m := range meetings {
		if m.Filename == "" {
			t.Error("expected every mock meeting to carry a filename")
		}
	}

	docs, err := MockDocuments()
	if err != nil {
		t.Fatalf("MockDocuments failed: %v", err)
	}
	if len(docs) == 0 {
		t.Fatal("expected mock documents")
	}
}
