package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/monotributo-historico/internal/schemas"
	"github.com/jonathan/monotributo-historico/internal/store"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the store against its JSON Schema",
	Long:  "Checks the store file against the dataset JSON Schema, then checks that its metadata agrees with its records.",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

var (
	validateStore  string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringVar(&validateStore, "store", "", "Store file (defaults to store_path)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Schema file (defaults to schema_path)")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	storePath := orDefault(validateStore, cfg.StorePath)
	schemaPath := orDefault(validateSchema, cfg.SchemaPath)
	if _, err := os.Stat(schemaPath); err != nil && validateSchema == "" {
		if resolved := schemas.ResolveSchemaPath(schemas.DatasetSchema); resolved != "" {
			schemaPath = resolved
		}
	}

	if err := schemas.ValidateJSON(schemaPath, storePath); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintf(os.Stderr, "Validation failed:\n")
			for _, fieldErr := range validationErr.Errors {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			return fmt.Errorf("%s does not match %s", storePath, schemaPath)
		}
		return err
	}

	ds, err := store.Load(storePath)
	if err != nil {
		return err
	}
	if problems := store.CheckConsistency(ds); len(problems) > 0 {
		fmt.Fprintf(os.Stderr, "Validation failed:\n")
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "  %s\n", p)
		}
		return fmt.Errorf("%s metadata is inconsistent with its records", storePath)
	}

	fmt.Fprintf(os.Stdout, "Validation passed: %s (%d records)\n", storePath, len(ds.Data))
	return nil
}
