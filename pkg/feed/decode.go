// Package feed loads the meeting and document datasets the minutes engine
// works over. It is the only place where raw extracted JSON is interpreted:
// optional sections are normalized to empty collections here so that the
// engine never has to guard against missing data.
package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/coolbeans/villagerecords/pkg/minutes"
)

// rawMeeting is the extracted meeting shape. Metadata may be nested under
// meeting_metadata or given flat on the meeting object.
type rawMeeting struct {
	Filename string       `json:"filename"`
	Metadata *rawMetadata `json:"meeting_metadata"`

	Date    string `json:"date"`
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	Summary string `json:"summary"`

	Votes              []minutes.Vote          `json:"votes"`
	PublicComments     []minutes.PublicComment `json:"public_comments"`
	MayorAnnouncements []rawAnnouncement       `json:"mayor_announcements"`
	BoardAnnouncements []rawAnnouncement       `json:"board_announcements"`
	LiaisonReports     []rawAnnouncement       `json:"liaison_reports"`
}

type rawMetadata struct {
	Date           string `json:"date"`
	MeetingType    string `json:"meeting_type"`
	MeetingSubtype string `json:"meeting_subtype"`
	Summary        string `json:"summary"`
}

// rawAnnouncement accepts the speaker and statement under the several
// field names the extraction has produced over time.
type rawAnnouncement struct {
	Speaker      string `json:"speaker"`
	Trustee      string `json:"trustee"`
	Name         string `json:"name"`
	Statement    string `json:"statement"`
	Announcement string `json:"announcement"`
	Report       string `json:"report"`
	Content      string `json:"content"`
	Topic        string `json:"topic"`
	Committee    string `json:"committee"`
}

func (r rawAnnouncement) toAnnouncement(kind minutes.AnnouncementKind) minutes.Announcement {
	return minutes.Announcement{
		Kind:      kind,
		Speaker:   firstNonEmpty(r.Speaker, r.Trustee, r.Name),
		Statement: firstNonEmpty(r.Statement, r.Announcement, r.Report, r.Content),
		Topic:     firstNonEmpty(r.Topic, r.Committee),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// DecodeMeetings reads meetings from r. The payload may be an array of
// meetings, a single meeting object, or an object with a "meetings" array.
func DecodeMeetings(r io.Reader) ([]minutes.Meeting, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read meetings: %w", err)
	}

	raws, err := decodeCollection[rawMeeting](data, "meetings")
	if err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %w", err)
	}

	meetings := make([]minutes.Meeting, 0, len(raws))
	for _, raw := range raws {
		meetings = append(meetings, normalizeMeeting(raw))
	}
	return meetings, nil
}

// DecodeDocuments reads village documents from r, accepting the same
// envelope shapes as DecodeMeetings (with a "documents" array).
func DecodeDocuments(r io.Reader) ([]minutes.VillageDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	docs, err := decodeCollection[minutes.VillageDocument](data, "documents")
	if err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	if docs == nil {
		docs = []minutes.VillageDocument{}
	}
	return docs, nil
}

func decodeCollection[T any](data []byte, envelopeKey string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []T{}, nil
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		if inner, ok := envelope[envelopeKey]; ok {
			var items []T
			if err := json.Unmarshal(inner, &items); err != nil {
				return nil, err
			}
			return items, nil
		}
		var item T
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return nil, err
		}
		return []T{item}, nil
	default:
		return nil, fmt.Errorf("expected a JSON array or object, got %q", string(trimmed[:1]))
	}
}

func normalizeMeeting(raw rawMeeting) minutes.Meeting {
	meeting := minutes.Meeting{
		Filename: raw.Filename,
		Date:     raw.Date,
		Type:     raw.Type,
		Subtype:  raw.Subtype,
		Summary:  raw.Summary,
	}
	if md := raw.Metadata; md != nil {
		meeting.Date = firstNonEmpty(md.Date, meeting.Date)
		meeting.Type = firstNonEmpty(md.MeetingType, meeting.Type)
		meeting.Subtype = firstNonEmpty(md.MeetingSubtype, meeting.Subtype)
		meeting.Summary = firstNonEmpty(md.Summary, meeting.Summary)
	}

	meeting.Votes = make([]minutes.Vote, 0, len(raw.Votes))
	for _, vote := range raw.Votes {
		if vote.Breakdown == nil {
			vote.Breakdown = minutes.VoteBreakdown{}
		}
		if vote.Discussion == nil {
			vote.Discussion = []minutes.DiscussionEntry{}
		}
		meeting.Votes = append(meeting.Votes, vote)
	}

	meeting.PublicComments = make([]minutes.PublicComment, 0, len(raw.PublicComments))
	for _, comment := range raw.PublicComments {
		if comment.AgendaItems == nil {
			comment.AgendaItems = []string{}
		}
		meeting.PublicComments = append(meeting.PublicComments, comment)
	}

	meeting.Announcements = make([]minutes.Announcement, 0,
		len(raw.MayorAnnouncements)+len(raw.BoardAnnouncements)+len(raw.LiaisonReports))
	for _, a := range raw.MayorAnnouncements {
		meeting.Announcements = append(meeting.Announcements, a.toAnnouncement(minutes.AnnouncementMayor))
	}
	for _, a := range raw.BoardAnnouncements {
		meeting.Announcements = append(meeting.Announcements, a.toAnnouncement(minutes.AnnouncementBoard))
	}
	for _, a := range raw.LiaisonReports {
		meeting.Announcements = append(meeting.Announcements, a.toAnnouncement(minutes.AnnouncementLiaison))
	}

	return meeting
}
