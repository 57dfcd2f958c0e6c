package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/talent-search/internal/types"
)

// readReviewLines parses a JSONL review side-table. Blank lines are skipped;
// a missing file yields an empty table.
func readReviewLines(path string) ([]types.Review, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open review file: %w", err)
	}
	defer f.Close()

	var reviews []types.Review
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var fields map[string]any
		if err := json.Unmarshal([]byte(line), &fields); err != nil {
			return nil, fmt.Errorf("failed to parse review line in %s: %w", path, err)
		}

		reviews = append(reviews, types.Review{
			EmployeeID:      stringField(fields, "employee_id"),
			YearMonth:       stringField(fields, "year_month"),
			CycleStartDate:  stringField(fields, "cycle_start_date"),
			UploadYearMonth: stringField(fields, "upload_year_month"),
			Fields:          fields,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read review file %s: %w", path, err)
	}

	return reviews, nil
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// ReviewsFor returns the most recent monthly and half-year reviews for an
// employee. Either side may be absent.
func (s *Store) ReviewsFor(id string) types.Reviews {
	return types.Reviews{
		Monthly:  latestReview(s.monthly, id, monthlyRecencyKey),
		HalfYear: latestReview(s.halfYear, id, halfYearRecencyKey),
	}
}

func monthlyRecencyKey(r types.Review) string {
	return r.YearMonth
}

// halfYearRecencyKey prefers the cycle start date, falling back to the upload
// month for rows predating the cycle field.
func halfYearRecencyKey(r types.Review) string {
	if r.CycleStartDate != "" {
		return r.CycleStartDate
	}
	return r.UploadYearMonth
}

// latestReview picks the employee's review with the lexicographically
// greatest recency key. Keys are ISO-style date strings, so string order is
// chronological order.
func latestReview(reviews []types.Review, id string, key func(types.Review) string) *types.Review {
	var best *types.Review
	for i := range reviews {
		if reviews[i].EmployeeID != id {
			continue
		}
		if best == nil || key(reviews[i]) > key(*best) {
			best = &reviews[i]
		}
	}
	return best
}
