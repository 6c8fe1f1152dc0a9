package minutes

import (
	"regexp"
	"strings"
)

// ResultCategory is the coarse outcome of a vote result string.
type ResultCategory int

const (
	// ResultOther covers tabled, withdrawn, unparseable or empty results.
	ResultOther ResultCategory = iota
	// ResultPassed indicates the motion carried.
	ResultPassed
	// ResultFailed indicates the motion was defeated.
	ResultFailed
)

// String returns a human-readable label for the result category.
func (c ResultCategory) String() string {
	switch c {
	case ResultPassed:
		return "passed"
	case ResultFailed:
		return "failed"
	default:
		return "other"
	}
}

var (
	failedResultPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:failed|fails|defeated|denied|rejected|lost)\b`),
		regexp.MustCompile(`(?i)\bnot\s+(?:passed|carried|approved|adopted)\b`),
	}
	passedResultPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:passed|passes|carried|approved|adopted)\b`),
		regexp.MustCompile(`(?i)\bunanimous(?:ly)?\b`),
	}
)

// CategorizeResult classifies a free-text vote result. Failure patterns are
// checked first so that "not passed" is not read as a pass.
func CategorizeResult(result string) ResultCategory {
	if strings.TrimSpace(result) == "" {
		return ResultOther
	}
	for _, pattern := range failedResultPatterns {
		if pattern.MatchString(result) {
			return ResultFailed
		}
	}
	for _, pattern := range passedResultPatterns {
		if pattern.MatchString(result) {
			return ResultPassed
		}
	}
	return ResultOther
}

// ResultKey is the canonical form of a vote result used as a taxonomy leaf:
// trimmed and uppercased.
func ResultKey(result string) string {
	return strings.ToUpper(strings.TrimSpace(result))
}
