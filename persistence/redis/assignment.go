package redis

import (
	"context"
	"errors"
	"strconv"

	rd "github.com/go-redis/redis/v9"
	"github.com/mohitkumar/screenflow/logger"
	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/persistence"
	"github.com/mohitkumar/screenflow/util"
	"go.uber.org/zap"
)

var _ persistence.AssignmentStorage = new(redisAssignmentStorage)

// Assignments are fields of partitioned hashes. HSETNX on the field makes the
// first writer win, the same guarantee a unique index gives in SQL.
type redisAssignmentStorage struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.Assignment]
}

func newRedisAssignmentStorage(baseDao *baseDao) *redisAssignmentStorage {
	return &redisAssignmentStorage{
		baseDao:        baseDao,
		encoderDecoder: util.NewJsonEncoderDecoder[model.Assignment](),
	}
}

func (r *redisAssignmentStorage) location(orgId string, experimentId string, userId string) (string, string) {
	field := orgId + ":" + experimentId + ":" + userId
	partition := r.getPartition(field)
	return r.getNamespaceKey(persistence.ASSIGNMENT_PREFIX, strconv.Itoa(partition)), field
}

func (r *redisAssignmentStorage) GetAssignment(ctx context.Context, orgId string, experimentId string, userId string) (*model.Assignment, error) {
	key, field := r.location(orgId, experimentId, userId)
	val, err := r.redisClient.HGet(ctx, key, field).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.ErrNotFound
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return r.encoderDecoder.Decode([]byte(val))
}

func (r *redisAssignmentStorage) CreateAssignment(ctx context.Context, assignment model.Assignment) error {
	data, err := r.encoderDecoder.Encode(assignment)
	if err != nil {
		return err
	}
	key, field := r.location(assignment.OrganizationId, assignment.ExperimentId, assignment.UserId)
	created, err := r.redisClient.HSetNX(ctx, key, field, string(data)).Result()
	if err != nil {
		logger.Error("error in saving assignment", zap.String("key", key), zap.String("owner", r.ring.Owner(field)), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	if !created {
		return persistence.ErrAssignmentExists
	}
	return nil
}
