package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/seclearn/trainquery/internal/domain"
)

// EmployeeRepository implements domain.EmployeeRepository using SQLite.
type EmployeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new SQLite-backed EmployeeRepository.
func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `employee_id, first_name, last_name, division,
	video1_started_at, video1_finished_at,
	video2_started_at, video2_finished_at,
	video3_started_at, video3_finished_at,
	video4_started_at, video4_finished_at`

// Upsert inserts or replaces a record. The query pipeline never writes;
// this is the data-load path used by the record importer and tests.
func (r *EmployeeRepository) Upsert(ctx context.Context, emp *domain.Employee) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO employees (`+employeeColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		emp.ID, emp.FirstName, emp.LastName, emp.Division,
		emp.Videos[0].StartedAt, emp.Videos[0].FinishedAt,
		emp.Videos[1].StartedAt, emp.Videos[1].FinishedAt,
		emp.Videos[2].StartedAt, emp.Videos[2].FinishedAt,
		emp.Videos[3].StartedAt, emp.Videos[3].FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE employee_id = ?`, id)
	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query employee by id: %w", err)
	}
	return emp, nil
}

func (r *EmployeeRepository) GetByName(ctx context.Context, name string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees
		 WHERE lower(first_name) = lower(?)
		    OR lower(first_name || ' ' || last_name) = lower(?)`, name, name)
	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query employee by name: %w", err)
	}
	return emp, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY employee_id`)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, *emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return employees, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	emp := &domain.Employee{}
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Division,
		&emp.Videos[0].StartedAt, &emp.Videos[0].FinishedAt,
		&emp.Videos[1].StartedAt, &emp.Videos[1].FinishedAt,
		&emp.Videos[2].StartedAt, &emp.Videos[2].FinishedAt,
		&emp.Videos[3].StartedAt, &emp.Videos[3].FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return emp, nil
}
