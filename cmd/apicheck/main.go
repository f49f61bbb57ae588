package main

import (
	"context"
	"fmt"
	"os"

	"github.com/loykin/apicheck"
	"github.com/loykin/apicheck/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "apicheck",
	Short: "Run declarative API and database test configurations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := apicheck.LoadConfig(viper.GetString("config"))
		if err != nil {
			return err
		}
		res, err := apicheck.Run(context.Background(), cfg)
		if err != nil {
			return err
		}
		report.WriteConsole(os.Stdout, res)
		if path := viper.GetString("report"); path != "" {
			if err := report.WriteJSON(path, res); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		} else if cfg.Report.JSONPath != "" {
			if err := report.WriteJSON(cfg.Report.JSONPath, res); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
		if res.Failed > 0 {
			// The run itself always completes; the exit code reflects verdicts.
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	v := viper.GetViper()
	v.SetDefault("config", "./apicheck.yaml")
	v.SetDefault("report", "")

	// Environment variable support: APICHECK_CONFIG, APICHECK_REPORT, ...
	v.SetEnvPrefix("APICHECK")
	v.AutomaticEnv()

	rootCmd.PersistentFlags().String("config", v.GetString("config"), "path to a test configuration yaml")
	rootCmd.Flags().String("report", v.GetString("report"), "write the run summary as JSON to this path")
	_ = v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("report", rootCmd.Flags().Lookup("report"))

	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}
