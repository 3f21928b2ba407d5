package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/seclearn/trainquery/internal/domain"
)

// Fallback rendering: when the language-model renderer is unavailable
// or fails, the context data is walked deterministically and emitted as
// a readable multi-line summary. This path has no external dependency.

// FormatFallback renders context data without a language model. A nil
// context yields a generic help line.
func FormatFallback(context any) string {
	switch v := context.(type) {
	case nil:
		return "I can help you with cybersecurity training questions. What would you like to know?"
	case *domain.EmployeeStatus:
		if v == nil {
			return "I can help you with cybersecurity training questions. What would you like to know?"
		}
		return formatEmployeeStatus(v)
	case domain.EmployeeStatus:
		return formatEmployeeStatus(&v)
	case *domain.GlobalSummary:
		if v == nil {
			return "I can help you with cybersecurity training questions. What would you like to know?"
		}
		return formatGlobalSummary(v)
	case domain.GlobalSummary:
		return formatGlobalSummary(&v)
	case []domain.EmployeeSummary:
		return formatCohort(v)
	case domain.VideoDetail:
		return formatVideoDetail(v)
	case map[string]any:
		if len(v) == 0 {
			return "I can help you with cybersecurity training questions. What would you like to know?"
		}
		return formatGeneric(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatEmployeeStatus(st *domain.EmployeeStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Training Status for %s**\n\n", st.EmployeeName)
	fmt.Fprintf(&b, "Status: **%s**\n", st.Status)
	fmt.Fprintf(&b, "Completion: **%g%%**\n", st.CompletionPercentage)

	if len(st.CompletedVideos) > 0 {
		fmt.Fprintf(&b, "\n**Completed Videos:** %d out of %d\n", len(st.CompletedVideos), domain.VideoCount)
		fmt.Fprintf(&b, "Video numbers: %s\n", joinInts(st.CompletedVideos))
	}
	if len(st.MissingVideos) > 0 {
		fmt.Fprintf(&b, "\n**Missing Videos:** %d\n", len(st.MissingVideos))
		fmt.Fprintf(&b, "Video numbers: %s\n", joinInts(st.MissingVideos))
	}
	fmt.Fprintf(&b, "\n**Total Time Spent:** %g minutes\n", st.TotalTimeMinutes)

	if len(st.VideoDetails) > 0 {
		b.WriteString("\n**Detailed Video Status:**\n")
		for _, v := range st.VideoDetails {
			mark := "[ ]"
			if v.Completed {
				mark = "[x]"
			}
			fmt.Fprintf(&b, "%s Video %d: %s (%g min)\n", mark, v.VideoNumber, v.VideoName, v.DurationMinutes)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatGlobalSummary(g *domain.GlobalSummary) string {
	var b strings.Builder
	b.WriteString("**Company-wide Training Statistics:**\n\n")
	fmt.Fprintf(&b, "Total Employees: %d\n", g.TotalEmployees)
	fmt.Fprintf(&b, "Finished: %d\n", g.FinishedEmployeesCount)
	fmt.Fprintf(&b, "In Progress: %d\n", g.InProgressCount)
	fmt.Fprintf(&b, "Not Started: %d\n", g.NotStartedCount)

	if g.FinishedEmployeesCount > 0 {
		b.WriteString("\n**Completion Times:**\n")
		fmt.Fprintf(&b, "Average: %g minutes\n", g.AverageTimeMinutes)
		fmt.Fprintf(&b, "Minimum: %g minutes\n", g.MinTimeMinutes)
		fmt.Fprintf(&b, "Maximum: %g minutes\n", g.MaxTimeMinutes)
		if g.FastestEmployee != nil {
			fmt.Fprintf(&b, "\nFastest: %s (%g min)\n", g.FastestEmployee.Name, g.FastestEmployee.TimeMinutes)
		}
		if g.SlowestEmployee != nil {
			fmt.Fprintf(&b, "Slowest: %s (%g min)\n", g.SlowestEmployee.Name, g.SlowestEmployee.TimeMinutes)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCohort(employees []domain.EmployeeSummary) string {
	if len(employees) == 0 {
		return "No employees matched the requested criteria."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**%d employee(s) found:**\n\n", len(employees))
	for _, e := range employees {
		fmt.Fprintf(&b, "- %s (%s): %s, %g%% complete\n", e.EmployeeName, e.EmployeeID, e.Status, e.CompletionPercentage)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatVideoDetail(v domain.VideoDetail) string {
	state := "not completed"
	if v.Completed {
		state = "completed"
	}
	return fmt.Sprintf("Video %d: %s is %s (%g minutes).", v.VideoNumber, v.VideoName, state, v.DurationMinutes)
}

// formatGeneric walks an unstructured map key by value, one line each.
func formatGeneric(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, data[k])
	}
	return strings.TrimRight(b.String(), "\n")
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
