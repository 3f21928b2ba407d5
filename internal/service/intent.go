package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/seclearn/trainquery/internal/domain"
)

// Intent is the closed tag describing what kind of training information
// a query requests.
type Intent string

const (
	IntentCheckCompletion     Intent = "check_completion"
	IntentListMissingVideos   Intent = "list_missing_videos"
	IntentListCompletedVideos Intent = "list_completed_videos"
	IntentVideoDuration       Intent = "video_duration"
	IntentEmployeeStatus      Intent = "employee_status"
	IntentGlobalSummary       Intent = "global_summary"
	IntentListByStatus        Intent = "list_by_status"
	IntentListByVideoCount    Intent = "list_by_video_count"
	IntentGeneralQuestion     Intent = "general_question"
	IntentUnknown             Intent = "unknown" // reserved, never produced by Classify
)

// VideoCountFilter pairs an extracted video count with a comparison
// operator (one of ">=", "<=", "<", ">", "==").
type VideoCountFilter struct {
	Count    int    `json:"count"`
	Operator string `json:"operator"`
}

// ParsedQuery carries the classified intent plus every extractor
// output. Extractors that found nothing leave their field nil or empty.
type ParsedQuery struct {
	Intent           Intent
	Query            string
	VideoNumber      *int
	Status           *domain.TrainingStatus
	EmployeeMention  string // "self" or "other"
	EmployeeName     string
	VideoCountFilter *VideoCountFilter
}

type intentPatterns struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// intentTable is evaluated in declaration order with first-match-wins
// semantics; the order is a tie-break contract, so this is a slice, not
// a map.
var intentTable = []intentPatterns{
	{IntentCheckCompletion, compileAll(
		`\b(did|have|has)\b[\w\s]+?\b(complete|completed|finish|finished|done|watch|watched)\b.*\b(training|videos?|courses?)\b`,
		`\b(completed?|finished|done)\b\s+(\w+\s+)?(training|videos?|courses?)\b`,
		`\b(training|videos?|courses?)\b\s+(completed?|finished|done)\b`,
		`\b(finished|completed)\b.*\b(all|everything)\b`,
	)},
	{IntentListMissingVideos, compileAll(
		`\b(what|which|list)\b.*\b(missing|not completed?|remaining|left)\b.*\b(videos?)\b`,
		`\b(videos?)\b.*\b(missing|not completed?|remaining|left)\b`,
		`\b(haven't|have not|didn't|did not)\b.*\b(complete|finish|watch)\b`,
		`\b(need to|have to|must)\b.*\b(complete|finish|watch)\b`,
	)},
	{IntentListCompletedVideos, compileAll(
		`\b(what|which|list)\b.*\b(completed?|finished|done|watched)\b.*\b(videos?)\b`,
		`\b(videos?)\b.*\b(completed?|finished|done|watched)\b`,
		`\b(show|tell|give)\b.*\b(completed?|finished)\b`,
	)},
	{IntentVideoDuration, compileAll(
		`\b(how long|duration|time|minutes|hours)\b.*\b(video|spent|took)\b`,
		`\b(video)\b.*\b(duration|time|long)\b`,
		`\b(spent)\b.*\b(video|training)\b`,
	)},
	{IntentEmployeeStatus, compileAll(
		`\b(status|progress|summary)\b`,
		`\b(what is|show|give|tell)\b.*\b(my|their)\b.*\b(status|progress)\b`,
		`\b(completion|percentage|%)\b`,
	)},
	{IntentGlobalSummary, compileAll(
		`\b(all employees|everyone|global|overall|company|organization)\b`,
		`\b(average|mean|statistics|stats|summary)\b.*\b(all|everyone)\b`,
		`\b(fastest|slowest|longest|shortest)\b.*\b(employee)\b`,
	)},
	{IntentListByStatus, compileAll(
		`\b(list|show|who)\b.*\b(not started|in progress|finished|completed)\b`,
		`\b(employees?)\b.*\b(not started|in progress|finished|completed)\b`,
	)},
	{IntentListByVideoCount, compileAll(
		`\b(how many|who|list)\b.*\b(completed?|finished|watched)\b.*\b(\d+|two|three|four)\b.*\b(or more|or less|videos?)\b`,
		`\b(employees?|people|users)\b.*\b(\d+|two|three|four)\b.*\b(or more|or less)\b.*\b(videos?)\b`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// IntentParser classifies queries and extracts structured parameters.
// It is stateless and safe for concurrent use.
type IntentParser struct{}

// NewIntentParser creates an IntentParser.
func NewIntentParser() *IntentParser {
	return &IntentParser{}
}

// Classify returns the first intent whose pattern list matches the
// query, in declaration order, or GENERAL_QUESTION when none does.
func (p *IntentParser) Classify(query string) Intent {
	lower := strings.ToLower(query)
	for _, entry := range intentTable {
		for _, re := range entry.patterns {
			if re.MatchString(lower) {
				return entry.intent
			}
		}
	}
	return IntentGeneralQuestion
}

var videoNumberPatterns = compileAll(
	`video\s+(\d+)`,
	`video\s+number\s+(\d+)`,
	`module\s+(\d+)`,
	`lesson\s+(\d+)`,
	`#(\d+)`,
)

// ExtractVideoNumber finds a referenced video number. Only values
// within the four-video schema (1..4) are returned.
func (p *IntentParser) ExtractVideoNumber(query string) *int {
	lower := strings.ToLower(query)
	for _, re := range videoNumberPatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n >= 1 && n <= domain.VideoCount {
			return &n
		}
	}
	return nil
}

// ExtractStatus finds a training-status mention. FINISHED phrases take
// priority; the explicit "not started" phrases are tested before the
// bare "started" substring so NOT_STARTED stays reachable.
func (p *IntentParser) ExtractStatus(query string) *domain.TrainingStatus {
	lower := strings.ToLower(query)

	finished := domain.StatusFinished
	notStarted := domain.StatusNotStarted
	inProgress := domain.StatusInProgress

	switch {
	case strings.Contains(lower, "finished") || strings.Contains(lower, "completed") || strings.Contains(lower, "done"):
		return &finished
	case strings.Contains(lower, "not started") || strings.Contains(lower, "haven't started"):
		return &notStarted
	case strings.Contains(lower, "in progress") || strings.Contains(lower, "ongoing") || strings.Contains(lower, "started"):
		return &inProgress
	}
	return nil
}

// ExtractEmployeeMention reports whether the query is about the asking
// user ("self") or someone else ("other"). Defaults to "self".
func (p *IntentParser) ExtractEmployeeMention(query string) string {
	lower := strings.ToLower(query)
	for _, w := range []string{"my", "i", "me", "myself"} {
		if strings.Contains(lower, w) {
			return "self"
		}
	}
	for _, w := range []string{"his", "her", "their", "employee"} {
		if strings.Contains(lower, w) {
			return "other"
		}
	}
	return "self"
}

// employeeNamePatterns run against the original-case text: the
// capitalization of the name is the signal.
var employeeNamePatterns = compileAll(
	`\b(?:did|has|for|about)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`,
	`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)'s`,
	`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\s+(?:status|progress|training|finish)`,
)

// ExtractEmployeeName finds a capitalized proper-name sequence, used
// for privileged cross-employee lookups. Empty when nothing matches.
func (p *IntentParser) ExtractEmployeeName(query string) string {
	for _, re := range employeeNamePatterns {
		if m := re.FindStringSubmatch(query); m != nil {
			return m[1]
		}
	}
	return ""
}

var (
	countNumberPattern = regexp.MustCompile(`\b(\d+|one|two|three|four|five)\b`)
	spelledNumbers     = map[string]int{"one": 1, "two": 2, "three": 3, "four": 4, "five": 5}
)

// ExtractVideoCountFilter finds the first standalone number together
// with a comparison operator inferred from phrase cues. Returns nil
// when no number is present; the operator defaults to ">=".
func (p *IntentParser) ExtractVideoCountFilter(query string) *VideoCountFilter {
	lower := strings.ToLower(query)

	m := countNumberPattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}

	count, ok := spelledNumbers[m[1]]
	if !ok {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		count = n
	}

	operator := ">="
	switch {
	case strings.Contains(lower, "or more") || strings.Contains(lower, "at least"):
		operator = ">="
	case strings.Contains(lower, "or less") || strings.Contains(lower, "at most"):
		operator = "<="
	case strings.Contains(lower, "less than") || strings.Contains(lower, "fewer than"):
		operator = "<"
	case strings.Contains(lower, "more than"):
		operator = ">"
	case strings.Contains(lower, "exactly"):
		operator = "=="
	}

	return &VideoCountFilter{Count: count, Operator: operator}
}

// Parse classifies the query and runs every extractor unconditionally.
func (p *IntentParser) Parse(query string) *ParsedQuery {
	return &ParsedQuery{
		Intent:           p.Classify(query),
		Query:            query,
		VideoNumber:      p.ExtractVideoNumber(query),
		Status:           p.ExtractStatus(query),
		EmployeeMention:  p.ExtractEmployeeMention(query),
		EmployeeName:     p.ExtractEmployeeName(query),
		VideoCountFilter: p.ExtractVideoCountFilter(query),
	}
}

// cisoKeywords mark recognizably company-wide queries. This is a
// permission gate, independent of intent classification.
var cisoKeywords = []string{
	"all employees", "everyone", "global", "overall", "company",
	"organization", "statistics", "report", "summary of all",
	"fastest", "slowest", "average", "list employees",
}

// IsCISOQuery reports whether the query is phrased in a company-wide
// way and therefore requires a privileged session.
func (p *IntentParser) IsCISOQuery(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range cisoKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
