package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/repository/cache"
	"github.com/lasttime-service/internal/repository/postgres"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain provider caches",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete cached reverse geocoding results",
	Long:  "Removes geocode cache rows of the given address types (A04 lot, A03 road) from PostgreSQL.",
	RunE: func(cmd *cobra.Command, args []string) error {
		types, _ := cmd.Flags().GetStringSlice("type")

		addressTypes := make([]domain.AddressType, 0, len(types))
		for _, t := range types {
			switch at := domain.AddressType(strings.ToUpper(strings.TrimSpace(t))); at {
			case domain.AddressTypeLot, domain.AddressTypeRoad:
				addressTypes = append(addressTypes, at)
			default:
				return fmt.Errorf("unknown address type %q", t)
			}
		}

		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if !cfg.Database.Enabled {
			return fmt.Errorf("geocode cache lives in PostgreSQL, set DB_ENABLED=true")
		}
		cfg.Cache.Enabled = false

		infra, err := newInfra(cfg, log, false)
		if err != nil {
			return err
		}
		defer infra.Close()

		deleted, err := postgres.NewGeocodeCacheRepository(infra.DB).Purge(cmd.Context(), addressTypes)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "purged %d geocode cache rows\n", deleted)
		return nil
	},
}

// stationPrefixes - пространства ключей кеша справочников по провайдеру
var stationPrefixes = map[string]string{
	"subway":      "subway:",
	"seoulbus":    "seoulbus:",
	"gyeonggibus": "gyeonggibus:",
	"all":         "",
}

var cacheFlushCmd = &cobra.Command{
	Use:       "flush [subway|seoulbus|gyeonggibus|all]",
	Short:     "Drop cached station lookups from Redis",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"subway", "seoulbus", "gyeonggibus", "all"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := "all"
		if len(args) == 1 {
			kind = strings.ToLower(args[0])
		}
		prefix, ok := stationPrefixes[kind]
		if !ok {
			return fmt.Errorf("unknown station cache %q", kind)
		}

		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg.Database.Enabled = false
		infra, err := newInfra(cfg, log, true)
		if err != nil {
			return err
		}
		defer infra.Close()

		deleted, err := cache.NewCacheRepository(infra.Redis).DeleteByPrefix(cmd.Context(), prefix)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "flushed %d %s cache keys\n", deleted, kind)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheFlushCmd)
	cachePurgeCmd.Flags().StringSlice("type", []string{string(domain.AddressTypeLot)}, "address types to purge")
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
