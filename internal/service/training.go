package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/seclearn/trainquery/internal/domain"
)

// TrainingService answers read-only questions over employee training
// records. Derived fields are recomputed from raw timestamps on every
// call; nothing is cached or written back.
type TrainingService struct {
	employees domain.EmployeeRepository
}

// NewTrainingService creates a new TrainingService.
func NewTrainingService(employees domain.EmployeeRepository) *TrainingService {
	return &TrainingService{employees: employees}
}

// GetEmployeeByID looks up an employee by numeric ID, padding it to the
// canonical 9-digit form first.
func (s *TrainingService) GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.employees.GetByID(ctx, domain.NormalizeEmployeeID(id))
}

// GetEmployeeByName looks up an employee by case-insensitive exact
// match on the first name or the full name.
func (s *TrainingService) GetEmployeeByName(ctx context.Context, name string) (*domain.Employee, error) {
	return s.employees.GetByName(ctx, name)
}

// VerifyCredentials checks that the given ID resolves to an employee
// whose first or full name equals the given name, case-insensitively.
func (s *TrainingService) VerifyCredentials(ctx context.Context, id int64, name string) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, domain.NormalizeEmployeeID(id))
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(name)
	if strings.ToLower(emp.FirstName) == lower || strings.ToLower(emp.FullName()) == lower {
		return emp, nil
	}
	return nil, domain.ErrInvalidCredentials
}

// GetEmployeeStatus assembles the full derived-status projection for
// one employee.
func (s *TrainingService) GetEmployeeStatus(ctx context.Context, id string) (*domain.EmployeeStatus, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get employee %s: %w", id, err)
	}
	return projectStatus(emp), nil
}

func projectStatus(emp *domain.Employee) *domain.EmployeeStatus {
	completed := emp.CompletedVideos()
	missing := emp.MissingVideos()

	details := make([]domain.VideoDetail, 0, domain.VideoCount)
	for i := 1; i <= domain.VideoCount; i++ {
		details = append(details, domain.VideoDetail{
			VideoNumber:     i,
			VideoName:       domain.VideoNames[i],
			Completed:       emp.VideoCompleted(i),
			DurationMinutes: emp.VideoDuration(i),
		})
	}

	return &domain.EmployeeStatus{
		EmployeeID:           emp.ID,
		EmployeeName:         emp.FullName(),
		Email:                emp.Email(),
		Department:           emp.Division,
		Status:               emp.TrainingStatus(),
		CompletionPercentage: emp.CompletionPercentage(),
		TotalTimeMinutes:     emp.TotalTime(),
		CompletedVideos:      completed,
		CompletedVideosCount: len(completed),
		MissingVideos:        missing,
		MissingVideosCount:   len(missing),
		VideoDetails:         details,
		StartedAt:            formatTime(emp.StartedAt()),
		CompletedAt:          formatTime(emp.CompletedAt()),
	}
}

func projectSummary(emp *domain.Employee) domain.EmployeeSummary {
	return domain.EmployeeSummary{
		EmployeeID:           emp.ID,
		EmployeeName:         emp.FullName(),
		Email:                emp.Email(),
		Department:           emp.Division,
		Status:               emp.TrainingStatus(),
		CompletedVideosCount: len(emp.CompletedVideos()),
		CompletionPercentage: emp.CompletionPercentage(),
		TotalTimeMinutes:     emp.TotalTime(),
	}
}

// EmployeesByStatus returns the cohort of employees with the given
// derived status. Derived fields are not materialized in the store, so
// this is a full scan with per-record recomputation.
func (s *TrainingService) EmployeesByStatus(ctx context.Context, status domain.TrainingStatus) ([]domain.EmployeeSummary, error) {
	all, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	cohort := []domain.EmployeeSummary{}
	for i := range all {
		if all[i].TrainingStatus() == status {
			cohort = append(cohort, projectSummary(&all[i]))
		}
	}
	return cohort, nil
}

// EmployeesByVideoCount returns the cohort whose completed-video count
// satisfies "count <operator> n" for operator in >=, <=, ==, >, <.
// Unrecognized operators match nothing.
func (s *TrainingService) EmployeesByVideoCount(ctx context.Context, count int, operator string) ([]domain.EmployeeSummary, error) {
	all, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	cohort := []domain.EmployeeSummary{}
	for i := range all {
		n := len(all[i].CompletedVideos())
		var match bool
		switch operator {
		case ">=":
			match = n >= count
		case "<=":
			match = n <= count
		case "==":
			match = n == count
		case ">":
			match = n > count
		case "<":
			match = n < count
		}
		if match {
			cohort = append(cohort, projectSummary(&all[i]))
		}
	}
	return cohort, nil
}

// GlobalSummary aggregates all records into status buckets and, over
// the FINISHED subset only, min/max/average total time plus the single
// fastest and slowest employee. Ties go to the first record in scan
// order. Empty stores and stores with no finished employee yield
// zeroed aggregates; there is no division by zero.
func (s *TrainingService) GlobalSummary(ctx context.Context) (*domain.GlobalSummary, error) {
	all, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	summary := &domain.GlobalSummary{TotalEmployees: len(all)}

	var finished []*domain.Employee
	for i := range all {
		switch all[i].TrainingStatus() {
		case domain.StatusNotStarted:
			summary.NotStartedCount++
		case domain.StatusInProgress:
			summary.InProgressCount++
		case domain.StatusFinished:
			summary.FinishedEmployeesCount++
			finished = append(finished, &all[i])
		}
	}

	if len(finished) == 0 {
		return summary, nil
	}

	var total float64
	fastest, slowest := finished[0], finished[0]
	for _, emp := range finished {
		t := emp.TotalTime()
		total += t
		if t < fastest.TotalTime() {
			fastest = emp
		}
		if t > slowest.TotalTime() {
			slowest = emp
		}
	}

	summary.MinTimeMinutes = fastest.TotalTime()
	summary.MaxTimeMinutes = slowest.TotalTime()
	summary.AverageTimeMinutes = round2(total / float64(len(finished)))
	summary.FastestEmployee = &domain.TimedEmployee{ID: fastest.ID, Name: fastest.FullName(), TimeMinutes: fastest.TotalTime()}
	summary.SlowestEmployee = &domain.TimedEmployee{ID: slowest.ID, Name: slowest.FullName(), TimeMinutes: slowest.TotalTime()}
	return summary, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
