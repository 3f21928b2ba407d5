// Package importer loads employee training records from CSV exports
// into the record store. It is the only write path; the query pipeline
// itself never mutates records.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/seclearn/trainquery/internal/domain"
)

// Store is the write side of a record repository.
type Store interface {
	Upsert(ctx context.Context, emp *domain.Employee) error
}

// Column layout of a record export. The first row must be a header;
// its names are not checked, only the column count is.
//
//	employee_id,first_name,last_name,division,
//	video1_started_at,video1_finished_at,...,video4_started_at,video4_finished_at
const expectedColumns = 4 + 2*domain.VideoCount

// LoadCSV reads records from r and upserts each into the store.
// Timestamps are RFC 3339; an empty cell means the event has not
// happened. Returns the number of records loaded; a malformed row
// aborts the load with its line number.
func LoadCSV(ctx context.Context, r io.Reader, store Store) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = expectedColumns

	// Header row.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return 0, fmt.Errorf("empty input")
		}
		return 0, fmt.Errorf("read header: %w", err)
	}

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("read record: %w", err)
		}

		line, _ := reader.FieldPos(0)
		emp, err := parseRow(row)
		if err != nil {
			return count, fmt.Errorf("line %d: %w", line, err)
		}
		if err := store.Upsert(ctx, emp); err != nil {
			return count, fmt.Errorf("line %d: upsert employee %s: %w", line, emp.ID, err)
		}
		count++
	}
}

func parseRow(row []string) (*domain.Employee, error) {
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid employee_id %q", row[0])
	}

	emp := &domain.Employee{
		ID:        domain.NormalizeEmployeeID(id),
		FirstName: row[1],
		LastName:  row[2],
		Division:  row[3],
	}
	for i := 0; i < domain.VideoCount; i++ {
		started, err := parseTimestamp(row[4+2*i])
		if err != nil {
			return nil, fmt.Errorf("video %d started_at: %w", i+1, err)
		}
		finished, err := parseTimestamp(row[5+2*i])
		if err != nil {
			return nil, fmt.Errorf("video %d finished_at: %w", i+1, err)
		}
		emp.Videos[i] = domain.VideoProgress{StartedAt: started, FinishedAt: finished}
	}
	return emp, nil
}

func parseTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q", s)
	}
	t = t.UTC()
	return &t, nil
}
