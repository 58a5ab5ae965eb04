package redis

import (
	"github.com/mohitkumar/screenflow/persistence"
)

var _ persistence.Storage = new(redisStorage)

type redisStorage struct {
	*redisExperimentStorage
	*redisAssignmentStorage
	*redisOrganizationStorage
	base *baseDao
}

func NewRedisStorage(conf Config) *redisStorage {
	base := newBaseDao(conf)
	return &redisStorage{
		redisExperimentStorage:   newRedisExperimentStorage(base),
		redisAssignmentStorage:   newRedisAssignmentStorage(base),
		redisOrganizationStorage: newRedisOrganizationStorage(base),
		base:                     base,
	}
}

func (r *redisStorage) Close() error {
	return r.base.redisClient.Close()
}
