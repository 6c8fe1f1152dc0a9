package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/coolbeans/villagerecords/pkg/logging"
)

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.validateFeed()...)
	errors = append(errors, c.validateCache()...)
	errors = append(errors, c.validateDisplay()...)
	errors = append(errors, c.validateLogging()...)
	return errors
}

func (c *Config) validateFeed() []ValidationError {
	var errors []ValidationError

	for _, field := range []struct {
		name  string
		value string
	}{
		{"feed.meetings", c.Feed.Meetings},
		{"feed.documents", c.Feed.Documents},
		{"feed.sources", c.Feed.Sources},
	} {
		if msg := checkSource(field.value); msg != "" {
			errors = append(errors, ValidationError{Field: field.name, Value: field.value, Message: msg})
		}
	}

	if c.Feed.Timeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "feed.timeout",
			Value:   c.Feed.Timeout,
			Message: "must be non-negative",
		})
	}
	return errors
}

// checkSource accepts empty values, local paths and http(s) URLs.
func checkSource(source string) string {
	if source == "" {
		return ""
	}
	u, err := url.Parse(source)
	if err != nil || len(u.Scheme) <= 1 || u.Scheme == "file" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "must be a local path or an http(s) URL"
	}
	if u.Host == "" {
		return "URL must include a host"
	}
	return ""
}

func (c *Config) validateCache() []ValidationError {
	var errors []ValidationError
	if c.Cache.TTL < 0 {
		errors = append(errors, ValidationError{
			Field:   "cache.ttl",
			Value:   c.Cache.TTL,
			Message: "must be non-negative",
		})
	}
	return errors
}

func (c *Config) validateDisplay() []ValidationError {
	var errors []ValidationError
	if _, err := time.LoadLocation(c.Display.Timezone); err != nil {
		errors = append(errors, ValidationError{
			Field:   "display.timezone",
			Value:   c.Display.Timezone,
			Message: "must be an IANA time zone name",
		})
	}
	if strings.TrimSpace(c.Display.Placeholder) == "" {
		errors = append(errors, ValidationError{
			Field:   "display.placeholder",
			Value:   c.Display.Placeholder,
			Message: "must not be blank",
		})
	}
	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError
	if !logging.IsValidLevel(c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of %v", logging.ValidLevels()),
		})
	}
	return errors
}
