package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gtynan/vehicle-routing/internal/buildinfo"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "solver",
	Short:         "Multi-vehicle routing and scheduling solver",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		info := buildinfo.Info()
		fmt.Printf("version=%s commit=%s builtAt=%s\n", info["version"], info["commit"], info["builtAt"])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
