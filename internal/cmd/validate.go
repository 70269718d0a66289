package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dosanma1/export-bins/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate " + config.FileName,
	Long: `Validates the project configuration file against the JSON Schema and
then checks the values themselves (relative docs_dir, known pick policy).

Without a path, the file in the project directory is validated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&projectDir, "project-dir", "p", "", "Project root (default $PROJECT_DIR or nearest platformio.ini)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		root, err := findProjectRoot()
		if err != nil {
			return err
		}
		path = config.Path(root)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s not found", path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	fmt.Fprintf(out, "🔍 Validating %s...\n", filepath.Base(path))

	schemaErrs, err := config.ValidateSchema(data)
	if err != nil {
		return err
	}

	if len(schemaErrs) > 0 {
		fmt.Fprintln(out, "\n❌ Validation failed with the following errors:")
		fmt.Fprintln(out)
		for i, e := range schemaErrs {
			fmt.Fprintf(out, "%d. %s\n", i+1, e.Description)
			fmt.Fprintf(out, "   Field: %s\n", e.Field)
			fmt.Fprintf(out, "   Type: %s\n\n", e.Type)
		}
		return fmt.Errorf("validation failed with %d errors", len(schemaErrs))
	}

	if _, err := config.Parse(data); err != nil {
		return err
	}

	fmt.Fprintf(out, "✅ %s is valid!\n", filepath.Base(path))
	return nil
}
