package container

import (
	"context"
	"fmt"

	"github.com/mohitkumar/screenflow/config"
	"github.com/mohitkumar/screenflow/persistence"
	"github.com/mohitkumar/screenflow/persistence/memory"
	rd "github.com/mohitkumar/screenflow/persistence/redis"
	"github.com/mohitkumar/screenflow/persistence/sqlstore"
)

type DIContiner struct {
	initialized bool
	storage     persistence.Storage
}

func (d *DIContiner) setInitialized() {
	d.initialized = true
}

func NewDiContainer() *DIContiner {
	return &DIContiner{}
}

func (d *DIContiner) Init(ctx context.Context, conf config.Config) error {
	switch conf.StorageType {
	case config.STORAGE_TYPE_REDIS:
		d.storage = rd.NewRedisStorage(rd.Config{
			Addrs:          conf.RedisConfig.Addrs,
			Namespace:      conf.RedisConfig.Namespace,
			Password:       conf.RedisConfig.Password,
			PartitionCount: conf.RedisConfig.PartitionCount,
		})
	case config.STORAGE_TYPE_POSTGRES:
		s, err := sqlstore.Open(ctx, sqlstore.DIALECT_POSTGRES, conf.SQLConfig.DatabaseURL)
		if err != nil {
			return err
		}
		d.storage = s
	case config.STORAGE_TYPE_SQLITE:
		s, err := sqlstore.Open(ctx, sqlstore.DIALECT_SQLITE, conf.SQLConfig.DatabaseURL)
		if err != nil {
			return err
		}
		d.storage = s
	case config.STORAGE_TYPE_INMEM:
		d.storage = memory.NewMemoryStorage()
	default:
		return fmt.Errorf("unknown storage type %s", conf.StorageType)
	}
	d.setInitialized()
	return nil
}

func (d *DIContiner) GetStorage() persistence.Storage {
	if !d.initialized {
		panic("persistence not initalized")
	}
	return d.storage
}

func (d *DIContiner) Close() error {
	if !d.initialized {
		return nil
	}
	return d.storage.Close()
}
