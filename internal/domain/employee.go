package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// VideoCount is the number of training videos in the curriculum.
// The record schema models exactly four start/finish timestamp pairs.
const VideoCount = 4

// VideoNames maps video numbers (1-based) to their display names.
var VideoNames = map[int]string{
	1: "First Cybersecurity Video",
	2: "Second Cybersecurity Video",
	3: "Third Cybersecurity Video",
	4: "Fourth Cybersecurity Video",
}

// VideoProgress holds the raw timestamps for one training video.
// A nil FinishedAt means the video is not completed. FinishedAt may be
// set without StartedAt in legacy rows; completion is judged on
// FinishedAt alone and duration degrades to zero.
type VideoProgress struct {
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// Employee is a read-only training record owned by the persistence layer.
type Employee struct {
	ID        string // zero-padded 9-digit identifier
	FirstName string
	LastName  string
	Division  string
	Videos    [VideoCount]VideoProgress
}

// NormalizeEmployeeID renders a numeric employee ID in its canonical
// zero-padded 9-character form.
func NormalizeEmployeeID(id int64) string {
	return fmt.Sprintf("%09d", id)
}

// FullName returns "First Last".
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Email derives the company e-mail address from the employee name.
func (e *Employee) Email() string {
	return strings.ToLower(e.FirstName) + "." + strings.ToLower(e.LastName) + "@company.com"
}

// VideoCompleted reports whether the given video (1-based) has a finish
// timestamp. Out-of-range numbers are never completed.
func (e *Employee) VideoCompleted(n int) bool {
	if n < 1 || n > VideoCount {
		return false
	}
	return e.Videos[n-1].FinishedAt != nil
}

// VideoDuration returns the time spent on the given video in minutes,
// rounded to 2 decimals. Missing start or finish yields 0.
func (e *Employee) VideoDuration(n int) float64 {
	if n < 1 || n > VideoCount {
		return 0
	}
	v := e.Videos[n-1]
	if v.StartedAt == nil || v.FinishedAt == nil {
		return 0
	}
	return round2(v.FinishedAt.Sub(*v.StartedAt).Seconds() / 60)
}

// CompletedVideos returns the video numbers with a finish timestamp, ascending.
func (e *Employee) CompletedVideos() []int {
	var nums []int
	for i := 1; i <= VideoCount; i++ {
		if e.VideoCompleted(i) {
			nums = append(nums, i)
		}
	}
	return nums
}

// MissingVideos returns the video numbers without a finish timestamp, ascending.
func (e *Employee) MissingVideos() []int {
	var nums []int
	for i := 1; i <= VideoCount; i++ {
		if !e.VideoCompleted(i) {
			nums = append(nums, i)
		}
	}
	return nums
}

// TrainingStatus classifies the record by completed-video count.
func (e *Employee) TrainingStatus() TrainingStatus {
	switch len(e.CompletedVideos()) {
	case 0:
		return StatusNotStarted
	case VideoCount:
		return StatusFinished
	default:
		return StatusInProgress
	}
}

// CompletionPercentage is completed/4 * 100, rounded to 2 decimals.
func (e *Employee) CompletionPercentage() float64 {
	return round2(float64(len(e.CompletedVideos())) / VideoCount * 100)
}

// TotalTime is the sum of per-video durations in minutes.
func (e *Employee) TotalTime() float64 {
	var total float64
	for i := 1; i <= VideoCount; i++ {
		total += e.VideoDuration(i)
	}
	return total
}

// StartedAt returns the earliest start timestamp across all videos, or nil.
func (e *Employee) StartedAt() *time.Time {
	var earliest *time.Time
	for i := range e.Videos {
		s := e.Videos[i].StartedAt
		if s == nil {
			continue
		}
		if earliest == nil || s.Before(*earliest) {
			earliest = s
		}
	}
	return earliest
}

// CompletedAt returns the latest finish timestamp, but only once the
// whole training is finished. Partial progress has no completion date.
func (e *Employee) CompletedAt() *time.Time {
	if e.TrainingStatus() != StatusFinished {
		return nil
	}
	var latest *time.Time
	for i := range e.Videos {
		f := e.Videos[i].FinishedAt
		if f == nil {
			continue
		}
		if latest == nil || f.After(*latest) {
			latest = f
		}
	}
	return latest
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EmployeeRepository defines read-only persistence operations for
// employee training records. No implementation mutates records.
type EmployeeRepository interface {
	// GetByID looks up a record by its normalized 9-digit identifier.
	GetByID(ctx context.Context, id string) (*Employee, error)
	// GetByName looks up a record by case-insensitive exact match on
	// either the first name or the full "First Last" name.
	GetByName(ctx context.Context, name string) (*Employee, error)
	// List returns every record. Derived-status filtering and
	// aggregation happen in memory above this interface.
	List(ctx context.Context) ([]Employee, error)
}
