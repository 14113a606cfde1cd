package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lasttime-service/internal/domain"
	redisRepo "github.com/lasttime-service/internal/repository/redis"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish an itinerary to the worker request stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		data, err := readInput(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		var event domain.LastTimeRequestEvent
		if err := decodeInput(file, data, &event); err != nil {
			return fmt.Errorf("parse %s: %w", file, err)
		}
		if event.RequestID == uuid.Nil {
			event.RequestID = uuid.New()
		}

		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		// кеш провайдеров не нужен, только Redis
		cfg.Cache.Enabled = false
		cfg.Database.Enabled = false

		infra, err := newInfra(cfg, log, true)
		if err != nil {
			return err
		}
		defer infra.Close()

		streams := redisRepo.NewStreamRepository(infra.Redis.Client(), log)
		if err := streams.PublishToStream(cmd.Context(), domain.StreamLastTimeRequest, event); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "published %s to %s\n", event.RequestID, domain.StreamLastTimeRequest)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringP("file", "f", "-", "request event JSON or YAML file, - for stdin")
	rootCmd.AddCommand(publishCmd)
}
