package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/TextsHQ/rust-fetch/internal/build"
	"github.com/TextsHQ/rust-fetch/internal/config"
	"github.com/TextsHQ/rust-fetch/internal/env"
	"github.com/TextsHQ/rust-fetch/internal/target"
)

var (
	buildOS        string
	buildArch      string
	buildSimulator bool
	buildOutDir    string
	buildCargoDir  string
	buildConfig    string
	buildEnvFile   string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the native library for one target",
	Long: `Build runs "cargo build --release" for the selected target and installs the
resulting library into the output directory.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	flags := buildCmd.Flags()
	flags.StringVar(&buildOS, "os", "", "Target OS ("+strings.Join(target.Platforms(), ", ")+")")
	flags.StringVar(&buildArch, "arch", "", "Target arch ("+strings.Join(target.Arches(), ", ")+")")
	flags.BoolVar(&buildSimulator, "simulator", false, "Build for the iOS simulator")
	flags.StringVarP(&buildOutDir, "out-dir", "o", "build/Release", "Destination directory")
	flags.StringVar(&buildCargoDir, "cargo-build-dir", "target", "Cargo target directory")
	flags.StringVar(&buildConfig, "config", config.DefaultFile, "Build configuration file")
	flags.StringVar(&buildEnvFile, "env-file", env.DefaultFile, "Dotenv file with build environment")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildConfig, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	vars, err := env.Read(buildEnvFile, cmd.Flags().Changed("env-file"))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", buildEnvFile, err)
	}

	builder := build.NewBuilder(build.Options{
		Config: cfg,
		Env:    vars,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	res, err := builder.Build(context.Background(), build.Request{
		Arch:      buildArch,
		Platform:  buildOS,
		Simulator: buildSimulator,
		OutDir:    strings.Trim(buildOutDir, `"`),
		TargetDir: buildCargoDir,
	})
	if err != nil {
		return err
	}

	if res.Converted {
		for i, pass := range res.Report.Passes {
			log.Debugf("pass %d: %d duplicate symbols", i+1, len(pass.Findings))
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Dest)
	return nil
}
