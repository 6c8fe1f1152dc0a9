// Package render turns minutes views into terminal text using lipgloss.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/coolbeans/villagerecords/pkg/minutes"
)

// SourceLookup resolves a meeting filename to its original document URL.
type SourceLookup interface {
	Lookup(filename string) (string, bool)
}

// Options configures a Renderer.
type Options struct {
	// Placeholder replaces missing values. Defaults to minutes.Placeholder.
	Placeholder string
	// Query highlights matches in rendered text.
	Query   minutes.Query
	Sources SourceLookup
}

// Renderer renders views for the terminal.
type Renderer struct {
	placeholder string
	query       minutes.Query
	sources     SourceLookup
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	placeholder := opts.Placeholder
	if strings.TrimSpace(placeholder) == "" {
		placeholder = minutes.Placeholder
	}
	return &Renderer{placeholder: placeholder, query: opts.Query, sources: opts.Sources}
}

func (r *Renderer) value(s string) string {
	if strings.TrimSpace(s) == "" || s == minutes.Placeholder {
		return r.placeholder
	}
	return s
}

func (r *Renderer) text(s string) string {
	return HighlightTerminal(r.value(s), r.query)
}

// View renders the meetings page: each meeting with its motions table, then
// the aggregated board and public comment sections.
func (r *Renderer) View(v minutes.View, expansion minutes.ExpansionState) string {
	if v.Status != minutes.StatusReady {
		return Muted.Render(v.Status.String()) + "\n"
	}

	var b strings.Builder
	for _, mv := range v.Meetings {
		b.WriteString(r.MeetingHeader(mv))
		b.WriteString("\n")
		if mv.Motions.Visible {
			b.WriteString(r.MotionsTable(mv.Motions))
			b.WriteString("\n")
		}
	}

	if len(v.BoardGroups) > 0 {
		b.WriteString(SectionHeader.Render("Board comments"))
		b.WriteString("\n")
		b.WriteString(r.SpeakerRows(minutes.SpeakerRows(minutes.SectionBoard, v.BoardGroups, expansion)))
	}
	if len(v.PublicGroups) > 0 {
		b.WriteString(SectionHeader.Render("Public comments"))
		b.WriteString("\n")
		b.WriteString(r.SpeakerRows(minutes.SpeakerRows(minutes.SectionPublic, v.PublicGroups, expansion)))
	}
	return b.String()
}

// MeetingHeader renders the date, type and subtype line of a meeting, with
// the source document link when one is known.
func (r *Renderer) MeetingHeader(mv minutes.MeetingView) string {
	m := mv.Meeting
	title := r.text(mv.DisplayDate)
	if m.Subtype != "" {
		title += " — " + r.text(m.Subtype)
	}

	lines := []string{Title.Render(title)}
	meta := r.text(m.Type)
	if m.Type == "" {
		meta = minutes.DefaultBody
	}
	meta += " · " + HighlightTerminal(m.Filename, r.query)
	lines = append(lines, Subtitle.Render(meta))

	if r.sources != nil {
		if url, ok := r.sources.Lookup(m.Filename); ok {
			lines = append(lines, Muted.Render(url))
		}
	}
	if m.Summary != "" {
		lines = append(lines, r.text(m.Summary))
	}
	return strings.Join(lines, "\n") + "\n"
}

// MotionsTable renders the motions table: section, title, result, then one
// column per visible official.
func (r *Renderer) MotionsTable(t minutes.MotionsTable) string {
	if !t.Visible {
		return ""
	}

	headers := append([]string{"#", "Title", "Result"}, t.Columns...)
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := []string{r.value(row.Section), r.text(row.Title), r.result(row)}
		for _, cell := range row.Cells {
			cells = append(cells, r.value(cell))
		}
		rows = append(rows, cells)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BorderColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeader
			}
			return TableCell
		})
	return tbl.Render() + "\n"
}

func (r *Renderer) result(row minutes.MotionRow) string {
	text := r.value(row.Result)
	switch row.Category {
	case minutes.ResultPassed:
		return Passed.Render(text)
	case minutes.ResultFailed:
		return Failed.Render(text)
	default:
		return text
	}
}

// SpeakerRows renders comment rows. Parent rows show the topic count; child
// rows are indented under their parent.
func (r *Renderer) SpeakerRows(rows []minutes.SpeakerRow) string {
	var b strings.Builder
	for _, row := range rows {
		switch row.Kind {
		case minutes.RowSingle:
			fmt.Fprintf(&b, "  %s  %s\n", r.text(row.Speaker), Muted.Render(r.value(row.Entry.Topic)))
			fmt.Fprintf(&b, "      %s\n", r.text(row.Entry.Text))
		case minutes.RowParent:
			marker := "▸"
			if row.Expanded {
				marker = "▾"
			}
			fmt.Fprintf(&b, "%s %s  %s\n", marker, r.text(row.Speaker), Muted.Render(row.CountLabel()))
		case minutes.RowChild:
			fmt.Fprintf(&b, "    %s  %s\n", Muted.Render(r.value(row.Entry.Topic)), r.text(row.Entry.Text))
		}
	}
	return b.String()
}

// DocumentGroups renders grouped documents.
func (r *Renderer) DocumentGroups(groups []minutes.DocumentGroup) string {
	if len(groups) == 0 {
		return Muted.Render("no documents match") + "\n"
	}

	var b strings.Builder
	for _, group := range groups {
		b.WriteString(SectionHeader.Render(fmt.Sprintf("%s (%d)", r.value(group.Label), len(group.Documents))))
		b.WriteString("\n")
		for _, doc := range group.Documents {
			fmt.Fprintf(&b, "  %s  %s  %s\n", Muted.Render(r.value(doc.Date)), r.text(doc.Title), Subtitle.Render(r.value(doc.Type)))
			if doc.Summary != "" {
				fmt.Fprintf(&b, "      %s\n", r.text(doc.Summary))
			}
			if doc.Event != "" {
				fmt.Fprintf(&b, "      %s\n", r.text(doc.Event))
			}
			if doc.URL != "" {
				fmt.Fprintf(&b, "      %s\n", Muted.Render(doc.URL))
			}
		}
	}
	return b.String()
}

// Taxonomy renders the attribute tree with the effective selection. A group
// is checked when all of its leaves are selected and partial when some are.
func (r *Renderer) Taxonomy(t minutes.Taxonomy, attrs minutes.Selection) string {
	effective := attrs.ExpandGroups(t)
	selected := func(value string) bool {
		return effective.IsAll() || effective.Has(value)
	}

	var b strings.Builder
	for _, group := range t.Groups {
		count := 0
		for _, leaf := range group.Leaves {
			if selected(leaf.Value) {
				count++
			}
		}
		mark := "[ ]"
		switch {
		case count == len(group.Leaves) && (count > 0 || effective.IsAll()):
			mark = "[x]"
		case count > 0:
			mark = "[-]"
		}
		fmt.Fprintf(&b, "%s %s  %s\n", mark, Title.Render(group.Label), Muted.Render(group.Key))
		for _, leaf := range group.Leaves {
			leafMark := "[ ]"
			if selected(leaf.Value) {
				leafMark = "[x]"
			}
			fmt.Fprintf(&b, "    %s %s  %s\n", leafMark, leaf.Label, Muted.Render(leaf.Value))
		}
	}
	return b.String()
}

// Options renders a titled option list, marking selected values.
func (r *Renderer) Options(title string, options []minutes.Option, selection minutes.Selection) string {
	var b strings.Builder
	b.WriteString(SectionHeader.Render(title))
	b.WriteString("\n")
	for _, opt := range options {
		mark := "[ ]"
		if selection.IsAll() || selection.Has(opt.Value) {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "  %s %s\n", mark, r.value(opt.Label))
	}
	return b.String()
}

// CategoryTree renders document categories with their types.
func (r *Renderer) CategoryTree(nodes []minutes.CategoryNode) string {
	var b strings.Builder
	for _, node := range nodes {
		fmt.Fprintf(&b, "%s\n", Title.Render(r.value(node.Category)))
		for _, t := range node.Types {
			fmt.Fprintf(&b, "    %s  %s\n", r.value(t), Muted.Render(node.Category+"|"+t))
		}
	}
	return b.String()
}

// SearchHits renders the fields of a meeting that match the query.
func (r *Renderer) SearchHits(meeting minutes.Meeting, fields []minutes.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Title.Render(meeting.ID()))
	for _, f := range fields {
		fmt.Fprintf(&b, "  %s  %s\n", Muted.Render(f.Name), HighlightTerminal(f.Text, r.query))
	}
	return b.String()
}
