// Package schemas provides JSON Schema validation for the employee snapshot.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// EmployeeSchemaPath is the repo-relative location of the snapshot schema.
const EmployeeSchemaPath = "schemas/employee.schema.json"

// ResolveSchemaPath attempts to find a schema file by trying multiple common
// path resolutions. Useful when CLI commands run from different working
// directory contexts (e.g. tests). Returns empty string if none found.
func ResolveSchemaPath(relativePath string) string {
	candidates := []string{
		relativePath,
		filepath.Join("..", relativePath),
		filepath.Join("..", "..", relativePath),
	}
	for _, candidate := range candidates {
		if absPath, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(absPath); err == nil {
				return absPath
			}
		}
	}
	return ""
}

// FieldError is a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates schema violations across the snapshot.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateJSON validates a JSON file against a JSON Schema file.
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}
	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}
	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + schemaAbsPath)
	documentLoader := gojsonschema.NewReferenceLoader("file://" + jsonAbsPath)
	return runValidation(schemaAbsPath, schemaLoader, documentLoader)
}

// ValidateJSONString validates JSON string content against schema string content.
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)
	return runValidation("(string schema)", schemaLoader, documentLoader)
}

func runValidation(schemaName string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaName,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// SnapshotReport is the outcome of a snapshot check: hard errors fail the
// load, warnings are advisory.
type SnapshotReport struct {
	Employees int
	Warnings  []string
}

// dateFields are the snapshot fields expected in YYYY-MM-DD form.
var dateFields = []string{"entered_at", "last_day_at", "retired_at", "birthday"}

// ValidateSnapshot checks the employees file against the embedded schema
// plus the conventions the schema cannot express (date shape, the active
// flag sentinel, department depth).
func ValidateSnapshot(schemaPath, employeesPath string) (*SnapshotReport, error) {
	if err := ValidateJSON(schemaPath, employeesPath); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(employeesPath)
	if err != nil {
		return nil, fmt.Errorf("reading employees file: %w", err)
	}
	var employees []map[string]any
	if err := json.Unmarshal(raw, &employees); err != nil {
		return nil, fmt.Errorf("parsing employees file: %w", err)
	}

	report := &SnapshotReport{Employees: len(employees)}
	for _, emp := range employees {
		id, _ := emp["employee_id"].(string)

		for _, field := range dateFields {
			value, _ := emp[field].(string)
			if value == "" {
				continue
			}
			if len(value) != 10 || strings.Count(value, "-") != 2 {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("employee %s: %s may not be in YYYY-MM-DD format: %s", id, field, value))
			}
		}

		if flag, ok := emp["current_employee_flag"].(string); ok && flag != "" && flag != "●" {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("employee %s: current_employee_flag should be ● or empty, got %q", id, flag))
		}

		if dept, ok := emp["dept_name"].(string); ok && strings.Count(dept, ">") > 5 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("employee %s: dept_name has more than 6 levels", id))
		}
	}
	return report, nil
}
