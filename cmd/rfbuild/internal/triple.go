package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TextsHQ/rust-fetch/internal/env"
	"github.com/TextsHQ/rust-fetch/internal/target"
)

var (
	tripleOS        string
	tripleArch      string
	tripleSimulator bool
	tripleEnvFile   string
)

var tripleCmd = &cobra.Command{
	Use:   "triple",
	Short: "Print the cargo target triple for a target",
	Long: `Triple prints the cargo target triple that "rfbuild build" would use,
honoring CARGO_BUILD_TARGET.`,
	Args: cobra.NoArgs,
	RunE: runTriple,
}

func init() {
	flags := tripleCmd.Flags()
	flags.StringVar(&tripleOS, "os", "", "Target OS ("+strings.Join(target.Platforms(), ", ")+")")
	flags.StringVar(&tripleArch, "arch", "", "Target arch ("+strings.Join(target.Arches(), ", ")+")")
	flags.BoolVar(&tripleSimulator, "simulator", false, "Target the iOS simulator")
	flags.StringVar(&tripleEnvFile, "env-file", env.DefaultFile, "Dotenv file with build environment")
	rootCmd.AddCommand(tripleCmd)
}

func runTriple(cmd *cobra.Command, args []string) error {
	vars, err := env.Read(tripleEnvFile, cmd.Flags().Changed("env-file"))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", tripleEnvFile, err)
	}
	triple, err := target.Resolve(tripleArch, tripleOS, tripleSimulator, vars.Target)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), triple)
	return nil
}
