package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mohitkumar/screenflow/agent"
	"github.com/mohitkumar/screenflow/analytics"
	"github.com/mohitkumar/screenflow/config"
	"github.com/mohitkumar/screenflow/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	cmd.Flags().String("storage-impl", "memory", "storage implementation: memory, redis, postgres or sqlite")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("redis-password", "", "redis password")
	cmd.Flags().String("namespace", "screenflow", "namespace used in redis keys")
	cmd.Flags().Int("partition-count", 16, "number of redis hashes assignments are spread over")
	cmd.Flags().String("database-url", "", "postgres connection string or sqlite file")
	cmd.Flags().Duration("key-cache-ttl", 0, "how long resolved api keys are cached")
	cmd.Flags().String("analytics-file", "", "file assignment events are appended to")
	cmd.Flags().Int("analytics-buffer", 1024, "assignment events buffered before dropping")
	cmd.Flags().String("log-level", "info", "log level")
	viper.SetEnvPrefix("SCREENFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err = viper.ReadInConfig(); err != nil {
			return err
		}
	}
	if err := logger.SetLevel(viper.GetString("log-level")); err != nil {
		return err
	}

	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Password = viper.GetString("redis-password")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.RedisConfig.PartitionCount = viper.GetInt("partition-count")
	c.cfg.SQLConfig.DatabaseURL = viper.GetString("database-url")
	c.cfg.KeyCacheTTL = viper.GetDuration("key-cache-ttl")
	c.cfg.LogLevel = viper.GetString("log-level")
	c.cfg.AnalyticsConfig = analytics.DataCollectorConfig{
		FileName:      viper.GetString("analytics-file"),
		CollectorType: analytics.NOOP_DATA_COLLECTOR,
		BufferSize:    viper.GetInt("analytics-buffer"),
	}
	if c.cfg.AnalyticsConfig.FileName != "" {
		c.cfg.AnalyticsConfig.CollectorType = analytics.LOG_FILE_DATA_COLLECTOR
	}
	return c.cfg.Validate()
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		return err
	}
	if err := agent.Start(); err != nil {
		return err
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
	case <-agent.Done():
	}
	err = agent.Shutdown()
	logger.Sync()
	return err
}

func main() {
	cli := &cli{}

	root := &cobra.Command{
		Use:   "screenflow",
		Short: "experiment assignment and screen rendering",
	}
	serve := &cobra.Command{
		Use:     "serve",
		Short:   "run the http api",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}
	if err := setupFlags(serve); err != nil {
		log.Fatal(err)
	}
	root.AddCommand(serve, newRenderCommand())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
