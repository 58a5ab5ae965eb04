package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		conf    Config
		wantErr bool
	}{
		{"memory", Config{StorageType: STORAGE_TYPE_INMEM, HttpPort: 8080}, false},
		{"redis without address", Config{StorageType: STORAGE_TYPE_REDIS, HttpPort: 8080, RedisConfig: RedisStorageConfig{Addrs: []string{""}}}, true},
		{"redis", Config{StorageType: STORAGE_TYPE_REDIS, HttpPort: 8080, RedisConfig: RedisStorageConfig{Addrs: []string{"localhost:6379"}}}, false},
		{"sqlite without url", Config{StorageType: STORAGE_TYPE_SQLITE, HttpPort: 8080}, true},
		{"postgres", Config{StorageType: STORAGE_TYPE_POSTGRES, HttpPort: 8080, SQLConfig: SQLStorageConfig{DatabaseURL: "postgres://localhost/sf"}}, false},
		{"unknown storage", Config{StorageType: "dynamo", HttpPort: 8080}, true},
		{"bad port", Config{StorageType: STORAGE_TYPE_INMEM}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
