package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-search/internal/schemas"
)

var validateDataDir string

var validateDataCmd = &cobra.Command{
	Use:   "validate-data",
	Short: "Validate an employee snapshot against the schema",
	Long:  `Check a snapshot directory's employees.json against schemas/employee.schema.json and report format warnings (dates, active flag, department depth).`,
	RunE:  runValidateData,
}

func init() {
	validateDataCmd.Flags().StringVar(&validateDataDir, "data-dir", "data", "Directory holding the employee snapshot")
	rootCmd.AddCommand(validateDataCmd)
}

func runValidateData(cmd *cobra.Command, _ []string) error {
	schemaPath := schemas.ResolveSchemaPath(schemas.EmployeeSchemaPath)
	if schemaPath == "" {
		return fmt.Errorf("schema not found: %s", schemas.EmployeeSchemaPath)
	}

	employeesPath := filepath.Join(validateDataDir, "employees", "employees.json")
	report, err := schemas.ValidateSnapshot(schemaPath, employeesPath)
	if err != nil {
		return err
	}

	fmt.Printf("✓ snapshot valid: %d employees\n", report.Employees)
	for _, warning := range report.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
	return nil
}
