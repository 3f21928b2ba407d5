package service_test

import (
	"testing"

	"github.com/seclearn/trainquery/internal/domain"
	"github.com/seclearn/trainquery/internal/service"
)

func TestClassify(t *testing.T) {
	p := service.NewIntentParser()

	cases := []struct {
		query string
		want  service.Intent
	}{
		{"Did I complete my training?", service.IntentCheckCompletion},
		{"Has Charlie Levi finished the training?", service.IntentCheckCompletion},
		{"Which videos am I missing?", service.IntentListMissingVideos},
		{"I haven't finished watching, what do I need to complete?", service.IntentListMissingVideos},
		{"What videos have I finished?", service.IntentListCompletedVideos},
		{"How long did video 3 take me?", service.IntentVideoDuration},
		{"How much time have I spent on training?", service.IntentVideoDuration},
		{"What is my training status?", service.IntentEmployeeStatus},
		{"What is my completion percentage?", service.IntentEmployeeStatus},
		{"Give me the overall company picture", service.IntentGlobalSummary},
		{"How many employees watched 3 or more videos?", service.IntentListByVideoCount},
		{"Tell me a joke", service.IntentGeneralQuestion},
	}
	for _, tc := range cases {
		if got := p.Classify(tc.query); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.query, got, tc.want)
		}
	}
}

func TestClassify_DeclarationOrderTieBreak(t *testing.T) {
	p := service.NewIntentParser()

	// Matches both a CHECK_COMPLETION and an EMPLOYEE_STATUS pattern;
	// CHECK_COMPLETION is declared first and must win.
	q := "Did I finish my training, and what is my status?"
	if got := p.Classify(q); got != service.IntentCheckCompletion {
		t.Fatalf("Classify(%q) = %s, want check_completion by declaration order", q, got)
	}
}

func TestExtractVideoNumber(t *testing.T) {
	p := service.NewIntentParser()

	cases := []struct {
		query string
		want  int // 0 means nil
	}{
		{"Show me video 3 details", 3},
		{"how long was lesson 2", 2},
		{"module 4 duration", 4},
		{"what about #1", 1},
		{"video 7 status", 0},  // out of schema range
		{"video 5 status", 0},  // schema models four videos
		{"my training status", 0},
	}
	for _, tc := range cases {
		got := p.ExtractVideoNumber(tc.query)
		if tc.want == 0 {
			if got != nil {
				t.Errorf("ExtractVideoNumber(%q) = %d, want nil", tc.query, *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Errorf("ExtractVideoNumber(%q) = %v, want %d", tc.query, got, tc.want)
		}
	}
}

func TestExtractStatus(t *testing.T) {
	p := service.NewIntentParser()

	cases := []struct {
		query string
		want  domain.TrainingStatus
		none  bool
	}{
		// FINISHED wins even though "finished" queries never contain
		// an "in progress" phrase; priority order is the contract.
		{"Show employees who have finished", domain.StatusFinished, false},
		{"who completed everything", domain.StatusFinished, false},
		{"employees who have not started", domain.StatusNotStarted, false},
		{"who haven't started yet", domain.StatusNotStarted, false},
		{"anyone still in progress?", domain.StatusInProgress, false},
		{"who started but did not finish", domain.StatusInProgress, false},
		{"employee list please", domain.TrainingStatus(""), true},
	}
	for _, tc := range cases {
		got := p.ExtractStatus(tc.query)
		if tc.none {
			if got != nil {
				t.Errorf("ExtractStatus(%q) = %s, want nil", tc.query, *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Errorf("ExtractStatus(%q) = %v, want %s", tc.query, got, tc.want)
		}
	}
}

func TestExtractEmployeeMention(t *testing.T) {
	p := service.NewIntentParser()

	if got := p.ExtractEmployeeMention("what is my status"); got != "self" {
		t.Fatalf("mention = %q, want self", got)
	}
	if got := p.ExtractEmployeeMention("show that employee's progress"); got != "other" {
		t.Fatalf("mention = %q, want other", got)
	}
	// No pronoun at all defaults to self.
	if got := p.ExtractEmployeeMention("show status"); got != "self" {
		t.Fatalf("mention = %q, want self by default", got)
	}
}

func TestExtractEmployeeName(t *testing.T) {
	p := service.NewIntentParser()

	cases := []struct {
		query string
		want  string
	}{
		{"How many videos did Charlie Levi finish", "Charlie Levi"},
		{"What is Eli Vardi's status", "Eli Vardi"},
		{"Show me Nina Hartman progress", "Nina Hartman"},
		{"what is my training status", ""},
		// Lowercased names are not recognized: capitalization is the signal.
		{"how did charlie levi do", ""},
	}
	for _, tc := range cases {
		if got := p.ExtractEmployeeName(tc.query); got != tc.want {
			t.Errorf("ExtractEmployeeName(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestExtractVideoCountFilter(t *testing.T) {
	p := service.NewIntentParser()

	cases := []struct {
		query    string
		count    int
		operator string
		none     bool
	}{
		{"who completed 2 or more videos", 2, ">=", false},
		{"at least three videos", 3, ">=", false},
		{"who watched 2 or less", 2, "<=", false},
		{"fewer than two videos", 2, "<", false},
		{"more than 1 video", 1, ">", false},
		{"exactly four videos", 4, "==", false},
		{"some videos", 0, "", true},
		// No cue defaults to >=.
		{"employees with 3 videos", 3, ">=", false},
	}
	for _, tc := range cases {
		got := p.ExtractVideoCountFilter(tc.query)
		if tc.none {
			if got != nil {
				t.Errorf("ExtractVideoCountFilter(%q) = %+v, want nil", tc.query, got)
			}
			continue
		}
		if got == nil || got.Count != tc.count || got.Operator != tc.operator {
			t.Errorf("ExtractVideoCountFilter(%q) = %+v, want {%d %s}", tc.query, got, tc.count, tc.operator)
		}
	}
}

func TestParse_RunsAllExtractors(t *testing.T) {
	p := service.NewIntentParser()

	parsed := p.Parse("How long did video 2 take?")
	if parsed.Intent != service.IntentVideoDuration {
		t.Fatalf("intent = %s, want video_duration", parsed.Intent)
	}
	if parsed.VideoNumber == nil || *parsed.VideoNumber != 2 {
		t.Fatalf("video number = %v, want 2", parsed.VideoNumber)
	}
	if parsed.EmployeeMention != "self" {
		t.Fatalf("mention = %q, want self", parsed.EmployeeMention)
	}
	if parsed.Query != "How long did video 2 take?" {
		t.Fatalf("raw query not carried: %q", parsed.Query)
	}
}

func TestIsCISOQuery(t *testing.T) {
	p := service.NewIntentParser()

	if !p.IsCISOQuery("Show me all employees' training status") {
		t.Fatal("company-wide query not detected")
	}
	if !p.IsCISOQuery("who was the fastest?") {
		t.Fatal("fastest keyword not detected")
	}
	if p.IsCISOQuery("What is my training status?") {
		t.Fatal("personal query flagged as company-wide")
	}
}
