package store

import (
	"sort"
	"strings"

	"github.com/jonathan/talent-search/internal/types"
)

// SearchHit is one scored people-search result.
type SearchHit struct {
	Person types.EmployeeRecord
	Score  float64
}

// Search performs a scored substring search across id, name, mail, job title
// and department fields. Results are sorted by score descending; ties keep
// store order.
func (s *Store) Search(query string) []SearchHit {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var hits []SearchHit
	for _, emp := range s.employees {
		score := matchScore(emp, query)
		if score > 0 {
			hits = append(hits, SearchHit{Person: emp, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits
}

// matchScore ranks field matches: exact id beats partial id beats name, mail,
// title and department matches.
func matchScore(emp types.EmployeeRecord, query string) float64 {
	id := strings.ToLower(emp.EmployeeID)
	switch {
	case query == id:
		return 1.0
	case strings.Contains(id, query):
		return 0.9
	case strings.Contains(strings.ToLower(emp.EmployeeName), query):
		return 0.8
	case strings.Contains(strings.ToLower(emp.Mail), query):
		return 0.7
	case strings.Contains(strings.ToLower(emp.JobTitle), query):
		return 0.6
	case strings.Contains(strings.ToLower(emp.Dept1), query),
		strings.Contains(strings.ToLower(emp.Dept2), query),
		strings.Contains(strings.ToLower(emp.Dept3), query),
		strings.Contains(strings.ToLower(emp.Dept4), query):
		return 0.5
	}
	return 0
}
