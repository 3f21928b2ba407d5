package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/seclearn/trainquery/internal/domain"
	"github.com/seclearn/trainquery/internal/service"
)

// fakeEmployeeRepo is an in-memory EmployeeRepository for service tests.
type fakeEmployeeRepo struct {
	employees []domain.Employee
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	for i := range r.employees {
		if r.employees[i].ID == id {
			return &r.employees[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeEmployeeRepo) GetByName(ctx context.Context, name string) (*domain.Employee, error) {
	lower := strings.ToLower(name)
	for i := range r.employees {
		e := &r.employees[i]
		if strings.ToLower(e.FullName()) == lower || strings.ToLower(e.FirstName) == lower {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeEmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	return r.employees, nil
}

// testEmployee builds a record with the given number of finished videos,
// each taking minutesEach minutes.
func testEmployee(id, first, last string, finishedCount int, minutesEach int) domain.Employee {
	e := domain.Employee{ID: id, FirstName: first, LastName: last, Division: "IT"}
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < finishedCount; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		finish := start.Add(time.Duration(minutesEach) * time.Minute)
		e.Videos[i] = domain.VideoProgress{StartedAt: &start, FinishedAt: &finish}
	}
	return e
}

func TestVerifyCredentials(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: []domain.Employee{
		testEmployee("000000042", "Dana", "Rubin", 2, 10),
	}}
	svc := service.NewTrainingService(repo)
	ctx := context.Background()

	// First name, case-insensitive.
	if _, err := svc.VerifyCredentials(ctx, 42, "dana"); err != nil {
		t.Fatalf("verify by first name: %v", err)
	}
	// Full name.
	if _, err := svc.VerifyCredentials(ctx, 42, "Dana Rubin"); err != nil {
		t.Fatalf("verify by full name: %v", err)
	}
	// Name mismatch.
	if _, err := svc.VerifyCredentials(ctx, 42, "Someone Else"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	// Unknown ID.
	if _, err := svc.VerifyCredentials(ctx, 7, "Dana"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetEmployeeStatus(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: []domain.Employee{
		testEmployee("000000042", "Dana", "Rubin", 2, 10),
	}}
	svc := service.NewTrainingService(repo)

	status, err := svc.GetEmployeeStatus(context.Background(), "000000042")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}

	if status.Status != domain.StatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", status.Status)
	}
	if status.CompletionPercentage != 50.0 {
		t.Fatalf("percentage = %v, want 50", status.CompletionPercentage)
	}
	if status.TotalTimeMinutes != 20.0 {
		t.Fatalf("total time = %v, want 20", status.TotalTimeMinutes)
	}
	if status.Email != "dana.rubin@company.com" {
		t.Fatalf("email = %q", status.Email)
	}
	if len(status.VideoDetails) != domain.VideoCount {
		t.Fatalf("video details = %d entries, want %d", len(status.VideoDetails), domain.VideoCount)
	}
	if status.VideoDetails[0].VideoName != "First Cybersecurity Video" {
		t.Fatalf("video name = %q", status.VideoDetails[0].VideoName)
	}
	if status.CompletedAt != nil {
		t.Fatal("completed_at must be nil while in progress")
	}
	if status.StartedAt == nil {
		t.Fatal("started_at must be set once any video started")
	}
}

func TestEmployeesByStatus(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: []domain.Employee{
		testEmployee("000000001", "Ava", "Stone", 0, 0),
		testEmployee("000000002", "Ben", "Katz", 2, 15),
		testEmployee("000000003", "Gil", "Peri", 4, 20),
	}}
	svc := service.NewTrainingService(repo)
	ctx := context.Background()

	finished, err := svc.EmployeesByStatus(ctx, domain.StatusFinished)
	if err != nil {
		t.Fatalf("by status: %v", err)
	}
	if len(finished) != 1 || finished[0].EmployeeID != "000000003" {
		t.Fatalf("finished cohort = %+v", finished)
	}

	notStarted, err := svc.EmployeesByStatus(ctx, domain.StatusNotStarted)
	if err != nil {
		t.Fatalf("by status: %v", err)
	}
	if len(notStarted) != 1 || notStarted[0].EmployeeID != "000000001" {
		t.Fatalf("not-started cohort = %+v", notStarted)
	}
}

func TestEmployeesByVideoCount(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: []domain.Employee{
		testEmployee("000000001", "Ava", "Stone", 0, 0),
		testEmployee("000000002", "Ben", "Katz", 2, 15),
		testEmployee("000000003", "Gil", "Peri", 4, 20),
	}}
	svc := service.NewTrainingService(repo)
	ctx := context.Background()

	cases := []struct {
		count    int
		operator string
		wantIDs  []string
	}{
		{2, ">=", []string{"000000002", "000000003"}},
		{2, "<=", []string{"000000001", "000000002"}},
		{2, "==", []string{"000000002"}},
		{2, ">", []string{"000000003"}},
		{2, "<", []string{"000000001"}},
		{2, "bogus", nil},
	}
	for _, tc := range cases {
		cohort, err := svc.EmployeesByVideoCount(ctx, tc.count, tc.operator)
		if err != nil {
			t.Fatalf("by video count %s: %v", tc.operator, err)
		}
		if len(cohort) != len(tc.wantIDs) {
			t.Fatalf("operator %s: got %d results, want %d", tc.operator, len(cohort), len(tc.wantIDs))
		}
		for i, id := range tc.wantIDs {
			if cohort[i].EmployeeID != id {
				t.Fatalf("operator %s: cohort[%d] = %s, want %s", tc.operator, i, cohort[i].EmployeeID, id)
			}
		}
	}
}

func TestGlobalSummary(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: []domain.Employee{
		testEmployee("000000001", "Ava", "Stone", 0, 0),
		testEmployee("000000002", "Ben", "Katz", 2, 15),
		testEmployee("000000003", "Gil", "Peri", 4, 20), // 80 min total
		testEmployee("000000004", "Lia", "Maor", 4, 10), // 40 min total
	}}
	svc := service.NewTrainingService(repo)

	sum, err := svc.GlobalSummary(context.Background())
	if err != nil {
		t.Fatalf("global summary: %v", err)
	}

	if sum.TotalEmployees != 4 || sum.FinishedEmployeesCount != 2 ||
		sum.NotStartedCount != 1 || sum.InProgressCount != 1 {
		t.Fatalf("bucket counts wrong: %+v", sum)
	}
	if sum.MinTimeMinutes != 40 || sum.MaxTimeMinutes != 80 || sum.AverageTimeMinutes != 60 {
		t.Fatalf("timings wrong: %+v", sum)
	}
	if sum.FastestEmployee == nil || sum.FastestEmployee.ID != "000000004" {
		t.Fatalf("fastest = %+v", sum.FastestEmployee)
	}
	if sum.SlowestEmployee == nil || sum.SlowestEmployee.ID != "000000003" {
		t.Fatalf("slowest = %+v", sum.SlowestEmployee)
	}
}

func TestGlobalSummary_EmptyStore(t *testing.T) {
	svc := service.NewTrainingService(&fakeEmployeeRepo{})

	sum, err := svc.GlobalSummary(context.Background())
	if err != nil {
		t.Fatalf("global summary: %v", err)
	}
	if sum.TotalEmployees != 0 || sum.FinishedEmployeesCount != 0 {
		t.Fatalf("counts should be zero: %+v", sum)
	}
	if sum.AverageTimeMinutes != 0 || sum.MinTimeMinutes != 0 || sum.MaxTimeMinutes != 0 {
		t.Fatalf("timings should be zero: %+v", sum)
	}
	if sum.FastestEmployee != nil || sum.SlowestEmployee != nil {
		t.Fatal("fastest/slowest should be nil for an empty store")
	}
}

func TestGlobalSummary_NoFinishedEmployees(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: []domain.Employee{
		testEmployee("000000001", "Ava", "Stone", 1, 5),
	}}
	svc := service.NewTrainingService(repo)

	sum, err := svc.GlobalSummary(context.Background())
	if err != nil {
		t.Fatalf("global summary: %v", err)
	}
	if sum.TotalEmployees != 1 || sum.InProgressCount != 1 || sum.FinishedEmployeesCount != 0 {
		t.Fatalf("counts wrong: %+v", sum)
	}
	if sum.FastestEmployee != nil || sum.SlowestEmployee != nil {
		t.Fatal("fastest/slowest should be nil without finished employees")
	}
}

func TestGlobalSummary_TiesGoToScanOrder(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: []domain.Employee{
		testEmployee("000000010", "Noa", "Adler", 4, 10),
		testEmployee("000000020", "Tom", "Bar", 4, 10),
	}}
	svc := service.NewTrainingService(repo)

	sum, err := svc.GlobalSummary(context.Background())
	if err != nil {
		t.Fatalf("global summary: %v", err)
	}
	if sum.FastestEmployee.ID != "000000010" || sum.SlowestEmployee.ID != "000000010" {
		t.Fatalf("ties must resolve to first in scan order: fastest=%s slowest=%s",
			sum.FastestEmployee.ID, sum.SlowestEmployee.ID)
	}
}
