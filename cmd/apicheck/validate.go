package main

import (
	"fmt"

	"github.com/loykin/apicheck"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a configuration for structural errors without executing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := apicheck.LoadConfig(viper.GetString("config"))
		if err != nil {
			return err
		}
		findings := cfg.Validate()
		if len(findings) == 0 {
			fmt.Printf("%s: configuration is valid (%d steps)\n", cfg.Name, len(cfg.Steps))
			return nil
		}
		for _, f := range findings {
			fmt.Println(f)
		}
		return fmt.Errorf("%d configuration problem(s) found", len(findings))
	},
}
