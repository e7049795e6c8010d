package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeloom/pkg/project"
	"github.com/Sumatoshi-tech/codeloom/pkg/render"
)

// ValidateCommand holds configuration for the validate command.
type ValidateCommand struct {
	noColor bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	vc := &ValidateCommand{}

	cmd := &cobra.Command{
		Use:   "validate <manifest.json>",
		Short: "Validate an upload manifest against the embedded schema",
		Long: `Checks a project upload manifest against the embedded JSON schema
and prints PASS or FAIL with one line per violation. Pass - to read
the manifest from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: vc.run,
	}

	cmd.Flags().BoolVar(&vc.noColor, "no-color", false, "disable colored output")

	return cmd
}

func (vc *ValidateCommand) run(cmd *cobra.Command, args []string) error {
	if vc.noColor || render.NewConfig().NoColor {
		color.NoColor = true //nolint:reassign // The flag and NO_COLOR drive the package-level color switch.
	}

	data, err := readSource(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	issues, err := project.ValidateManifest(data)
	if err != nil {
		return err
	}

	writer := cmd.OutOrStdout()

	if len(issues) == 0 {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(writer, "%s: %s is a valid project manifest\n", green("PASS"), args[0])

		return nil
	}

	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(writer, "%s: %s has %d issues\n", red("FAIL"), args[0], len(issues))

	for _, issue := range issues {
		fmt.Fprintf(writer, "  - %s\n", issue)
	}

	return fmt.Errorf("%w: %d issues", ErrManifestInvalid, len(issues))
}

// readSource reads a manifest from a file path, or from stdin when
// path is -.
func readSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return data, nil
}
