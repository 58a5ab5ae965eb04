package config

import (
	"fmt"
	"time"

	"github.com/mohitkumar/screenflow/analytics"
)

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"
const STORAGE_TYPE_POSTGRES StorageType = "postgres"
const STORAGE_TYPE_SQLITE StorageType = "sqlite"

type Config struct {
	RedisConfig     RedisStorageConfig
	SQLConfig       SQLStorageConfig
	HttpPort        int
	StorageType     StorageType
	KeyCacheTTL     time.Duration
	LogLevel        string
	AnalyticsConfig analytics.DataCollectorConfig
}

type RedisStorageConfig struct {
	Addrs          []string
	Namespace      string
	Password       string
	PartitionCount int
}

type SQLStorageConfig struct {
	DatabaseURL string
}

func (c Config) Validate() error {
	switch c.StorageType {
	case STORAGE_TYPE_INMEM:
	case STORAGE_TYPE_REDIS:
		if len(c.RedisConfig.Addrs) == 0 || c.RedisConfig.Addrs[0] == "" {
			return fmt.Errorf("redis storage needs at least one address")
		}
	case STORAGE_TYPE_POSTGRES, STORAGE_TYPE_SQLITE:
		if c.SQLConfig.DatabaseURL == "" {
			return fmt.Errorf("%s storage needs a database url", c.StorageType)
		}
	default:
		return fmt.Errorf("unknown storage type %s", c.StorageType)
	}
	if c.HttpPort <= 0 || c.HttpPort > 65535 {
		return fmt.Errorf("invalid http port %d", c.HttpPort)
	}
	return nil
}
