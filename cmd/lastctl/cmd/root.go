package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/lasttime-service/internal/bootstrap"
	"github.com/lasttime-service/internal/config"
	"github.com/lasttime-service/internal/pkg/logger"
)

const initTimeout = 10 * time.Second

var envFile string

var rootCmd = &cobra.Command{
	Use:   "lastctl",
	Short: "Operator CLI for the last time service",
	Long: `lastctl resolves itineraries against the live providers, publishes test
requests to the worker stream and maintains the geocode cache.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path to the env file")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup загружает конфигурацию и логгер; логи CLI идут в stderr
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFrom(envFile)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewWithOutput(cfg.Log.Level, "stderr")
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newInfra(cfg *config.Config, log *zap.Logger, needRedis bool) (*bootstrap.Infra, error) {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	return bootstrap.New(ctx, cfg, log, needRedis)
}

// readInput читает файл или stdin при path == "-"
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// decodeInput разбирает JSON, а для файлов .yaml/.yml сначала переводит YAML в JSON,
// чтобы действовали json-теги доменных типов
func decodeInput(path string, data []byte, v interface{}) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return err
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		data = converted
	}
	return json.Unmarshal(data, v)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
