package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lasttime-service/internal/pkg/validator"
	"github.com/lasttime-service/internal/usecase/dto"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve last departures for an itinerary file",
	Long: `Reads {"itinerary": {"legs": [...]}} from --file (or stdin with "-") and prints one result per leg.
Files ending in .yaml or .yml are read as YAML with the same field names.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		data, err := readInput(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		var req dto.LastTimeRequest
		if err := decodeInput(file, data, &req); err != nil {
			return fmt.Errorf("parse %s: %w", file, err)
		}
		if err := validator.Validate(&req); err != nil {
			return err
		}

		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		infra, err := newInfra(cfg, log, false)
		if err != nil {
			return err
		}
		defer infra.Close()

		engine, err := infra.NewEngine()
		if err != nil {
			return err
		}

		resp, meta, err := engine.Resolve(cmd.Context(), req)
		if err != nil {
			return err
		}

		if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d/%d legs resolved in %.1f ms\n", meta.Resolved, meta.Legs, meta.TookMs)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringP("file", "f", "-", "itinerary JSON or YAML file, - for stdin")
	rootCmd.AddCommand(resolveCmd)
}
