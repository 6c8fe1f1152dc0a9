package feed

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/coolbeans/villagerecords/pkg/logging"
	"github.com/coolbeans/villagerecords/pkg/minutes"
)

//go:embed mock/*.json
var mockFS embed.FS

// ErrUnsupportedSource is returned for sources that are neither a local path
// nor an http(s) URL.
var ErrUnsupportedSource = errors.New("unsupported feed source")

// ErrNoSource is returned when a dataset has no configured source and the
// mock dataset is disabled.
var ErrNoSource = errors.New("no feed source configured")

// HTTPClient matches the Do method of *http.Client so tests can inject
// their own transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Loader.
type Options struct {
	// MeetingsSource is a JSON file, a directory of per-meeting JSON files,
	// or an http(s) URL.
	MeetingsSource string

	// DocumentsSource is a JSON file or an http(s) URL.
	DocumentsSource string

	// SourcesFile maps meeting filenames to original document URLs (YAML or
	// JSON). Optional.
	SourcesFile string

	// UseMock substitutes the embedded sample dataset when a source is
	// missing or fails to load.
	UseMock bool

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration

	// Refresh drops cached payloads so every remote feed is fetched again.
	Refresh bool

	Client HTTPClient
	Cache  *DiskCache
	Logger *logging.Logger
}

// Loader reads datasets from the configured sources.
type Loader struct {
	opts   Options
	client HTTPClient
	logger *logging.Logger
}

// NewLoader creates a Loader. A nil client defaults to http.DefaultClient
// and a nil logger discards output.
func NewLoader(opts Options) *Loader {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Loader{opts: opts, client: client, logger: logger}
}

// Load reads meetings, documents and source links into a Dataset. A failure
// in any part returns the error together with an empty dataset.
func (l *Loader) Load(ctx context.Context) (Dataset, error) {
	meetings, err := l.LoadMeetings(ctx)
	if err != nil {
		return Empty(), err
	}
	docs, err := l.LoadDocuments(ctx)
	if err != nil {
		return Empty(), err
	}
	sources, err := l.LoadSources(ctx)
	if err != nil {
		return Empty(), err
	}
	return Dataset{Meetings: meetings, Documents: docs, Sources: sources}, nil
}

// LoadMeetings reads the meetings dataset.
func (l *Loader) LoadMeetings(ctx context.Context) ([]minutes.Meeting, error) {
	meetings, err := l.readMeetings(ctx, l.opts.MeetingsSource)
	if err != nil {
		if !l.opts.UseMock {
			return nil, fmt.Errorf("failed to load meetings: %w", err)
		}
		l.logger.WithSource(l.opts.MeetingsSource).Warn("falling back to mock meetings", "error", err.Error())
		return MockMeetings()
	}
	l.logger.WithSource(l.opts.MeetingsSource).Info("loaded meetings", "count", len(meetings))
	return meetings, nil
}

// LoadDocuments reads the village documents dataset.
func (l *Loader) LoadDocuments(ctx context.Context) ([]minutes.VillageDocument, error) {
	docs, err := l.readDocuments(ctx, l.opts.DocumentsSource)
	if err != nil {
		if !l.opts.UseMock {
			return nil, fmt.Errorf("failed to load documents: %w", err)
		}
		l.logger.WithSource(l.opts.DocumentsSource).Warn("falling back to mock documents", "error", err.Error())
		return MockDocuments()
	}
	l.logger.WithSource(l.opts.DocumentsSource).Info("loaded documents", "count", len(docs))
	return docs, nil
}

// LoadSources reads the filename to source URL mapping. An unset sources
// file yields an empty mapping.
func (l *Loader) LoadSources(ctx context.Context) (SourceLinks, error) {
	if strings.TrimSpace(l.opts.SourcesFile) == "" {
		return NewSourceLinks(nil), nil
	}
	data, err := l.read(ctx, l.opts.SourcesFile)
	if err != nil {
		return SourceLinks{}, fmt.Errorf("failed to load source links: %w", err)
	}
	links, err := DecodeSourceLinks(bytes.NewReader(data))
	if err != nil {
		return SourceLinks{}, err
	}
	l.logger.WithSource(l.opts.SourcesFile).Debug("loaded source links", "count", links.Len())
	return links, nil
}

func (l *Loader) readMeetings(ctx context.Context, source string) ([]minutes.Meeting, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrNoSource
	}

	if !isRemote(source) {
		info, err := os.Stat(source)
		if err == nil && info.IsDir() {
			return l.readMeetingDir(source)
		}
	}

	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}
	meetings, err := DecodeMeetings(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(meetings) == 1 && meetings[0].Filename == "" && !isRemote(source) {
		meetings[0].Filename = fileStem(source)
	}
	return meetings, nil
}

// readMeetingDir decodes every *.json file in dir, in filename order. A
// meeting without a filename takes the stem of the file it came from.
func (l *Loader) readMeetingDir(dir string) ([]minutes.Meeting, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(paths)

	meetings := []minutes.Meeting{}
	for _, p := range paths {
		file, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		decoded, err := DecodeMeetings(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		for i := range decoded {
			if decoded[i].Filename == "" {
				decoded[i].Filename = fileStem(p)
			}
		}
		meetings = append(meetings, decoded...)
	}
	l.logger.WithSource(dir).Debug("read meeting directory", "files", len(paths))
	return meetings, nil
}

func (l *Loader) readDocuments(ctx context.Context, source string) ([]minutes.VillageDocument, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrNoSource
	}
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}
	return DecodeDocuments(bytes.NewReader(data))
}

// read returns the raw payload at source, which is a local file or an
// http(s) URL.
func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if isRemote(source) {
		return l.fetch(ctx, source)
	}
	if u, err := url.Parse(source); err == nil && len(u.Scheme) > 1 && u.Scheme != "file" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
	}

	data, err := os.ReadFile(strings.TrimPrefix(source, "file://"))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	logger := l.logger.WithSource(source)

	if l.opts.Cache != nil {
		if l.opts.Refresh {
			if err := l.opts.Cache.Invalidate(source); err != nil {
				logger.Warn("failed to invalidate cached feed", "error", err.Error())
			}
		} else if body, ok := l.opts.Cache.Get(source); ok {
			logger.Debug("feed cache hit")
			return body, nil
		}
	}

	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: HTTP %d", source, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	logger.Debug("fetched feed", "bytes", len(body))

	if l.opts.Cache != nil {
		if err := l.opts.Cache.Set(source, body); err != nil {
			logger.Warn("failed to cache feed", "error", err.Error())
		}
	}
	return body, nil
}

// MockMeetings returns the embedded sample meetings.
func MockMeetings() ([]minutes.Meeting, error) {
	file, err := mockFS.Open("mock/meetings.json")
	if err != nil {
		return nil, fmt.Errorf("failed to open mock meetings: %w", err)
	}
	defer file.Close()
	return DecodeMeetings(file)
}

// MockDocuments returns the embedded sample documents.
func MockDocuments() ([]minutes.VillageDocument, error) {
	file, err := mockFS.Open("mock/documents.json")
	if err != nil {
		return nil, fmt.Errorf("failed to open mock documents: %w", err)
	}
	defer file.Close()
	return DecodeDocuments(file)
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func fileStem(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
