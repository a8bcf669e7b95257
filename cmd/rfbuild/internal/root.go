package internal

import (
	"fmt"
	"os"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "rfbuild",
	Short: "rfbuild builds the rust_fetch native library",
	Long: `rfbuild runs cargo for one target, finds the built library and installs it.
On iOS the static archive is linked into a dynamic library.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetOutputLevel(log.Ldebug)
		} else {
			log.SetOutputLevel(log.Linfo)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if exitErr := exitError(err); exitErr != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", exitErr.Message)
		os.Exit(exitErr.Code)
	}
	log.Fatal(err)
}
