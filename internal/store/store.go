// Package store provides the immutable in-memory employee snapshot consumed
// by every funnel stage. It is built once at process start and never mutated.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/talent-search/internal/types"
)

// Store holds the employee roster and its persona/resume/review side-tables.
// All lookups are read-only; concurrent use needs no synchronization.
type Store struct {
	employees []types.EmployeeRecord
	byID      map[string]int
	personas  map[string]types.Persona
	resumes   map[string]string
	monthly   []types.Review
	halfYear  []types.Review
}

// Load reads the snapshot directory and builds the store. Missing side-table
// files yield empty tables; an empty employee roster is a valid, degenerate
// state. Duplicate or missing employee ids and missing employee names are
// load errors.
func Load(dir string, logger *zap.Logger) (*Store, error) {
	s := &Store{
		byID:     make(map[string]int),
		personas: make(map[string]types.Persona),
		resumes:  make(map[string]string),
	}

	if err := s.loadEmployees(filepath.Join(dir, "employees", "employees.json")); err != nil {
		return nil, err
	}
	if err := s.loadPersonas(filepath.Join(dir, "personas", "personas.json")); err != nil {
		return nil, err
	}
	if err := s.loadResumes(filepath.Join(dir, "resumes")); err != nil {
		return nil, err
	}

	reviewsDir := filepath.Join(dir, "reviews")
	var err error
	if s.monthly, err = readReviewLines(filepath.Join(reviewsDir, "monthly_review.jsonl.json")); err != nil {
		return nil, err
	}
	if s.halfYear, err = readReviewLines(filepath.Join(reviewsDir, "half_year_review.jsonl.json")); err != nil {
		return nil, err
	}

	logger.Info("employee snapshot loaded",
		zap.Int("employees", len(s.employees)),
		zap.Int("personas", len(s.personas)),
		zap.Int("resumes", len(s.resumes)),
		zap.Int("monthly_reviews", len(s.monthly)),
		zap.Int("half_year_reviews", len(s.halfYear)),
	)

	return s, nil
}

func (s *Store) loadEmployees(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read employees file: %w", err)
	}

	var employees []types.EmployeeRecord
	if err := json.Unmarshal(data, &employees); err != nil {
		return fmt.Errorf("failed to parse employees file %s: %w", path, err)
	}

	for i, emp := range employees {
		if emp.EmployeeID == "" {
			return fmt.Errorf("employee at index %d has no employee_id", i)
		}
		if emp.EmployeeName == "" {
			return fmt.Errorf("employee %s has no employee_name", emp.EmployeeID)
		}
		if _, exists := s.byID[emp.EmployeeID]; exists {
			return fmt.Errorf("duplicate employee_id %s", emp.EmployeeID)
		}
		s.byID[emp.EmployeeID] = i
	}

	s.employees = employees
	return nil
}

func (s *Store) loadPersonas(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read personas file: %w", err)
	}

	if err := json.Unmarshal(data, &s.personas); err != nil {
		return fmt.Errorf("failed to parse personas file %s: %w", path, err)
	}
	return nil
}

// loadResumes reads every resume text file under dir. Files are named
// EMP<id>_<slug>.txt; the id is taken from the filename.
func (s *Store) loadResumes(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read resumes directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		id := resumeFileID(entry.Name())
		if id == "" {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read resume %s: %w", entry.Name(), err)
		}
		s.resumes[id] = string(content)
	}
	return nil
}

// resumeFileID extracts the employee id from a resume filename like
// EMP001_tanaka.txt. Returns "" when the name does not follow the pattern.
func resumeFileID(name string) string {
	name = strings.TrimSuffix(name, ".txt")
	name = strings.TrimPrefix(name, "EMP")
	if idx := strings.Index(name, "_"); idx > 0 {
		return name[:idx]
	}
	return name
}

// ListAll returns every employee record in store order. The returned slice is
// shared and must not be mutated.
func (s *Store) ListAll() []types.EmployeeRecord {
	return s.employees
}

// Count returns the roster size.
func (s *Store) Count() int {
	return len(s.employees)
}

// ByID resolves one employee record.
func (s *Store) ByID(id string) (types.EmployeeRecord, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return types.EmployeeRecord{}, false
	}
	return s.employees[idx], true
}

// PersonaFor resolves the structured skills summary for an employee.
// Absence is not an error.
func (s *Store) PersonaFor(id string) (types.Persona, bool) {
	p, ok := s.personas[id]
	return p, ok
}

// ResumeTextFor resolves the free-text resume for an employee. Absence is not
// an error. Ids are matched exactly first, then by substring to tolerate the
// loose filename conventions of the snapshot.
func (s *Store) ResumeTextFor(id string) (string, bool) {
	if text, ok := s.resumes[id]; ok {
		return text, true
	}
	for fileID, text := range s.resumes {
		if strings.Contains(fileID, id) || strings.Contains(id, fileID) {
			return text, true
		}
	}
	return "", false
}
