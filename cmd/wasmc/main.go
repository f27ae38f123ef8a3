// Command wasmc inspects and validates the files the native engine consumes
// and produces: core WebAssembly modules and compiled artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shuuji3/wasmer/compiler"
	"github.com/shuuji3/wasmer/engine"
	"github.com/shuuji3/wasmer/types"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "wasmc",
		Short:         "Inspect and validate WebAssembly modules and native artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger, err := zap.NewDevelopment()
				if err == nil {
					engine.SetLogger(logger)
				}
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(inspectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	var (
		threads  bool
		simd     bool
		tailCall bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file.wasm>",
		Short: "Validate a module against a feature set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wasm, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			features := types.DefaultFeatures()
			features.Threads = threads
			features.SIMD = simd
			features.TailCall = tailCall

			var v compiler.WazeroValidator
			if err := v.ValidateModule(features, wasm); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
	cmd.Flags().BoolVar(&threads, "threads", false, "enable the threads proposal")
	cmd.Flags().BoolVar(&simd, "simd", false, "enable the SIMD proposal")
	cmd.Flags().BoolVar(&tailCall, "tail-call", false, "enable the tail-call proposal")
	return cmd
}
