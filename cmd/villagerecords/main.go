package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/villagerecords/pkg/config"
	"github.com/coolbeans/villagerecords/pkg/feed"
	"github.com/coolbeans/villagerecords/pkg/logging"
	"github.com/coolbeans/villagerecords/pkg/minutes"
	"github.com/coolbeans/villagerecords/pkg/names"
	"github.com/coolbeans/villagerecords/pkg/render"
)

var version = "0.1.0"

const defaultEnvFile = ".env.local"

// Global state set up before every subcommand runs.
var (
	cfg     *config.Config
	logger  = logging.NopLogger()
	session = feed.NewSession()
	refresh bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "villagerecords",
		Short: "Browse village board minutes and documents",
		Long: `Villagerecords filters and aggregates extracted board meeting minutes
and published village documents.

It loads the meetings and documents feeds and lets you:
  - Filter meetings by type, year, meeting and attribute
  - See motions with per-official votes and results
  - Group board and public comments by speaker
  - Search across every meeting field with highlighted matches
  - Browse documents by category, type or month`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Close()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/villagerecords/config.yaml)")
	rootCmd.PersistentFlags().String("env-file", defaultEnvFile, "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().String("log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().Bool("refresh", false, "ignore cached feeds and fetch them again")

	rootCmd.AddCommand(meetingsCmd())
	rootCmd.AddCommand(documentsCmd())
	rootCmd.AddCommand(taxonomyCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the dotenv file, configuration and logger.
func setup(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfgFile, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	refresh, _ = cmd.Flags().GetBool("refresh")

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("env-file") {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	if err := config.Init(cfgFile); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if logLevel != "" {
		viper.Set("logging.level", logLevel)
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	root, err := logging.NewLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger = root.WithCommand(cmd.Name())
	return nil
}

// loadDataset loads every feed. A failed load is reported and leaves the
// session with an empty dataset.
func loadDataset(ctx context.Context) feed.Dataset {
	opts := feed.Options{
		Refresh:         refresh,
		MeetingsSource:  cfg.Feed.Meetings,
		DocumentsSource: cfg.Feed.Documents,
		SourcesFile:     cfg.Feed.Sources,
		UseMock:         cfg.Feed.UseMock,
		Timeout:         cfg.Feed.Timeout,
		Logger:          logger,
	}
	if cfg.Cache.Dir != "" {
		cache, err := feed.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL)
		if err != nil {
			logger.Warn("feed cache disabled", "error", err.Error())
		} else {
			opts.Cache = cache
		}
	}

	gen := session.Begin()
	dataset, err := feed.NewLoader(opts).Load(ctx)
	if err != nil {
		logger.Error("failed to load dataset", "error", err.Error())
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	session.Adopt(gen, dataset)
	return session.Current()
}

func newRenderer(query string, sources feed.SourceLinks) *render.Renderer {
	return render.New(render.Options{
		Placeholder: cfg.Display.Placeholder,
		Query:       minutes.NewQuery(query),
		Sources:     sources,
	})
}

func encodeJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// applySimple toggles each value into a simple facet, in order, as a user
// clicking options would.
func applySimple(current minutes.Selection, values []string) minutes.Selection {
	for _, v := range values {
		current = minutes.ToggleSimple(v, current)
	}
	return current
}

// applyAttributes toggles each attribute key in order. Group keys toggle all
// of their children.
func applyAttributes(current minutes.Selection, values []string, taxonomy minutes.Taxonomy) minutes.Selection {
	for _, v := range values {
		if minutes.IsGroupKey(v) {
			current = minutes.ToggleGroup(v, current, taxonomy)
			continue
		}
		current = minutes.ToggleHierarchical(v, current, taxonomy.AllLeafValues())
	}
	return current
}

// parseExpansion reads section:speaker pairs, e.g. "public:Ann Cole".
func parseExpansion(values []string) (minutes.ExpansionState, error) {
	expansion := minutes.ExpansionState{}
	for _, v := range values {
		section, speaker, ok := strings.Cut(v, ":")
		section = strings.ToLower(strings.TrimSpace(section))
		if !ok || (section != minutes.SectionBoard && section != minutes.SectionPublic) {
			return expansion, fmt.Errorf("invalid --expand value %q (want board:<speaker> or public:<speaker>)", v)
		}
		expansion = expansion.Toggle(section, names.Normalize(speaker))
	}
	return expansion, nil
}

func meetingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "Show meetings filtered by facets",
		Long: `Show meetings with their motions table and grouped comments.

Facet flags are toggled in the order given, starting from "All".

Example:
  villagerecords meetings --year 2026 --attr resolutions|votes-member|Baskin
  villagerecords meetings --attr comments|public --expand "public:Ann Cole"
  villagerecords meetings --query zoning --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, _ := cmd.Flags().GetStringSlice("type")
			years, _ := cmd.Flags().GetStringSlice("year")
			meetingIDs, _ := cmd.Flags().GetStringSlice("meeting")
			attrs, _ := cmd.Flags().GetStringArray("attr")
			query, _ := cmd.Flags().GetString("query")
			expand, _ := cmd.Flags().GetStringArray("expand")
			formatStr, _ := cmd.Flags().GetString("format")

			expansion, err := parseExpansion(expand)
			if err != nil {
				return err
			}

			dataset := loadDataset(cmd.Context())
			loc := cfg.Location()

			facets := minutes.DefaultFacets().
				WithTypes(applySimple(minutes.All(), types)).
				WithYears(applySimple(minutes.All(), years)).
				WithMeetings(applySimple(minutes.All(), meetingIDs)).
				WithQuery(query)
			taxonomy := minutes.BuildTaxonomy(minutes.FilterByType(dataset.Meetings, facets.Types))
			facets = facets.WithAttributes(applyAttributes(minutes.All(), attrs, taxonomy))

			view := minutes.BuildView(dataset.Meetings, facets, loc)
			logger.Debug("built meetings view", "meetings", len(view.Meetings), "status", view.Status.String())

			if formatStr == "json" {
				return encodeJSON(view)
			}
			fmt.Print(newRenderer(query, dataset.Sources).View(view, expansion))
			return nil
		},
	}

	cmd.Flags().StringSlice("type", nil, "Toggle meeting types")
	cmd.Flags().StringSlice("year", nil, "Toggle meeting years")
	cmd.Flags().StringSlice("meeting", nil, "Toggle meetings by filename")
	cmd.Flags().StringArray("attr", nil, "Toggle attribute keys (group or leaf, e.g. comments|board)")
	cmd.Flags().StringP("query", "q", "", "Free-text search")
	cmd.Flags().StringArray("expand", nil, "Expand a speaker group (board:<speaker> or public:<speaker>)")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")

	return cmd
}

func documentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "List village documents",
		Long: `List village documents filtered by category, year and search text.

Example:
  villagerecords documents --category "Public Works"
  villagerecords documents --category "Board of Trustees|Minutes" --group-by month`,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, _ := cmd.Flags().GetStringArray("category")
			years, _ := cmd.Flags().GetStringSlice("year")
			query, _ := cmd.Flags().GetString("query")
			groupBy, _ := cmd.Flags().GetString("group-by")
			formatStr, _ := cmd.Flags().GetString("format")

			dataset := loadDataset(cmd.Context())
			loc := cfg.Location()

			facets := minutes.DefaultFacets().
				WithCategories(applySimple(minutes.All(), categories)).
				WithYears(applySimple(minutes.All(), years)).
				WithQuery(query)

			docs := minutes.SelectDocuments(dataset.Documents, facets, loc)
			groups := minutes.GroupDocuments(docs, minutes.ParseViewMode(groupBy), loc)
			logger.Debug("selected documents", "documents", len(docs), "groups", len(groups))

			if formatStr == "json" {
				return encodeJSON(groups)
			}
			fmt.Print(newRenderer(query, dataset.Sources).DocumentGroups(groups))
			fmt.Printf("\n%d document(s)\n", len(docs))
			return nil
		},
	}

	cmd.Flags().StringArray("category", nil, "Toggle categories (Category or Category|Type)")
	cmd.Flags().StringSlice("year", nil, "Toggle years")
	cmd.Flags().StringP("query", "q", "", "Search title, summary and event")
	cmd.Flags().String("group-by", string(minutes.ViewByCategory), "Group by category, type or month")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")

	return cmd
}

func taxonomyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Show filter vocabularies",
		Long: `Show the attribute tree, meeting types, meetings, years and document
categories derived from the loaded data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, _ := cmd.Flags().GetStringSlice("type")
			attrs, _ := cmd.Flags().GetStringArray("attr")
			formatStr, _ := cmd.Flags().GetString("format")

			dataset := loadDataset(cmd.Context())
			loc := cfg.Location()

			typeSelection := applySimple(minutes.All(), types)
			typed := minutes.FilterByType(dataset.Meetings, typeSelection)
			taxonomy := minutes.BuildTaxonomy(typed)
			selection := applyAttributes(minutes.All(), attrs, taxonomy)

			meetingDates := make([]string, 0, len(typed))
			for _, m := range typed {
				meetingDates = append(meetingDates, m.Date)
			}
			docDates := make([]string, 0, len(dataset.Documents))
			for _, d := range dataset.Documents {
				docDates = append(docDates, d.Date)
			}

			typeOptions := minutes.BuildTypeOptions(dataset.Meetings)
			meetingOptions := minutes.BuildMeetingOptions(typed, loc)
			yearOptions := minutes.BuildYearOptions(meetingDates, loc)
			documentYears := minutes.BuildYearOptions(docDates, loc)
			categories := minutes.BuildDocumentCategoryTree(dataset.Documents)

			if formatStr == "json" {
				return encodeJSON(map[string]any{
					"attributes":     taxonomy,
					"selection":      selection.Values(),
					"types":          typeOptions,
					"meetings":       meetingOptions,
					"years":          yearOptions,
					"document_years": documentYears,
					"categories":     categories,
				})
			}

			r := newRenderer("", dataset.Sources)
			fmt.Print(r.Taxonomy(taxonomy, selection))
			fmt.Print(r.Options("Types", typeOptions, typeSelection))
			fmt.Print(r.Options("Meetings", meetingOptions, minutes.All()))
			fmt.Print(r.Options("Years", yearOptions, minutes.All()))
			fmt.Print(r.Options("Document years", documentYears, minutes.All()))
			fmt.Println()
			fmt.Print(r.CategoryTree(categories))
			return nil
		},
	}

	cmd.Flags().StringSlice("type", nil, "Toggle meeting types before deriving the attribute tree")
	cmd.Flags().StringArray("attr", nil, "Toggle attribute keys to preview the selection")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")

	return cmd
}

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search meetings and documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			html, _ := cmd.Flags().GetBool("html")

			raw := strings.Join(args, " ")
			query := minutes.NewQuery(raw)
			if query.IsEmpty() {
				return fmt.Errorf("search query must not be blank")
			}

			dataset := loadDataset(cmd.Context())
			loc := cfg.Location()
			startTime := time.Now()

			var hits []meetingHit
			for _, m := range dataset.Meetings {
				if fields := minutes.MatchingFields(m, query, loc); len(fields) > 0 {
					hits = append(hits, meetingHit{Meeting: m.ID(), Fields: fields})
				}
			}
			docs := minutes.SelectDocuments(dataset.Documents, minutes.DefaultFacets().WithQuery(raw), loc)
			logger.Info("search complete", "query", query.String(), "meetings", len(hits), "documents", len(docs), "duration", time.Since(startTime).String())

			if formatStr == "json" {
				return encodeJSON(map[string]any{"meetings": hits, "documents": docs})
			}

			if html {
				writeSearchHTML(os.Stdout, hits, docs, query)
				return nil
			}

			r := newRenderer(raw, dataset.Sources)
			for _, m := range dataset.Meetings {
				if fields := minutes.MatchingFields(m, query, loc); len(fields) > 0 {
					fmt.Print(r.SearchHits(m, fields))
				}
			}
			if len(docs) > 0 {
				fmt.Print(r.DocumentGroups(minutes.GroupDocuments(docs, minutes.ViewByCategory, loc)))
			}
			fmt.Printf("\n%d meeting(s), %d document(s)\n", len(hits), len(docs))
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	cmd.Flags().Bool("html", false, "Emit HTML with highlighted matches")

	return cmd
}

type meetingHit struct {
	Meeting string          `json:"meeting"`
	Fields  []minutes.Field `json:"fields"`
}

// writeSearchHTML writes one paragraph per matching field, so every listed
// record shows the highlighted text it matched on.
func writeSearchHTML(w io.Writer, hits []meetingHit, docs []minutes.VillageDocument, query minutes.Query) {
	for _, hit := range hits {
		for _, f := range hit.Fields {
			fmt.Fprintf(w, "<p data-meeting=%q data-field=%q>%s</p>\n", hit.Meeting, f.Name, render.HighlightHTML(f.Text, query))
		}
	}
	for _, d := range docs {
		for _, f := range minutes.MatchingDocumentFields(d, query) {
			fmt.Fprintf(w, "<p data-document=%q data-field=%q>%s</p>\n", d.ID, f.Name, render.HighlightHTML(f.Text, query))
		}
	}
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := map[string]any{
				"feed": map[string]any{
					"meetings":  cfg.Feed.Meetings,
					"documents": cfg.Feed.Documents,
					"sources":   cfg.Feed.Sources,
					"use_mock":  cfg.Feed.UseMock,
					"timeout":   cfg.Feed.Timeout.String(),
				},
				"cache": map[string]any{
					"dir": cfg.Cache.Dir,
					"ttl": cfg.Cache.TTL.String(),
				},
				"display": map[string]any{
					"timezone":    cfg.Display.Timezone,
					"placeholder": cfg.Display.Placeholder,
				},
				"logging": map[string]any{
					"level": cfg.Logging.Level,
					"file":  cfg.Logging.File,
				},
			}
			if used := viper.ConfigFileUsed(); used != "" {
				fmt.Printf("# %s\n", used)
			} else {
				fmt.Printf("# defaults (no config file at %s)\n", config.ConfigFile())
			}
			encoder := yaml.NewEncoder(os.Stdout)
			encoder.SetIndent(2)
			defer encoder.Close()
			return encoder.Encode(out)
		},
	}
}
