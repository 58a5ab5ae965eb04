package redis

import (
	"context"
	"errors"
	"sort"

	rd "github.com/go-redis/redis/v9"
	"github.com/mohitkumar/screenflow/logger"
	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/persistence"
	"github.com/mohitkumar/screenflow/util"
	"go.uber.org/zap"
)

var _ persistence.ExperimentStorage = new(redisExperimentStorage)

// Experiments of one organization live in a single hash keyed by experiment id.
type redisExperimentStorage struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.Experiment]
}

func newRedisExperimentStorage(baseDao *baseDao) *redisExperimentStorage {
	return &redisExperimentStorage{
		baseDao:        baseDao,
		encoderDecoder: util.NewJsonEncoderDecoder[model.Experiment](),
	}
}

func (r *redisExperimentStorage) SaveExperiment(ctx context.Context, exp model.Experiment) error {
	data, err := r.encoderDecoder.Encode(exp)
	if err != nil {
		return err
	}
	key := r.getNamespaceKey(persistence.EXPERIMENT_PREFIX, exp.OrganizationId)
	if err := r.redisClient.HSet(ctx, key, []string{exp.Id, string(data)}).Err(); err != nil {
		logger.Error("error in saving experiment", zap.String("experiment", exp.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisExperimentStorage) GetExperiment(ctx context.Context, orgId string, id string) (*model.Experiment, error) {
	key := r.getNamespaceKey(persistence.EXPERIMENT_PREFIX, orgId)
	val, err := r.redisClient.HGet(ctx, key, id).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.ErrNotFound
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return r.encoderDecoder.Decode([]byte(val))
}

func (r *redisExperimentStorage) DeleteExperiment(ctx context.Context, orgId string, id string) error {
	key := r.getNamespaceKey(persistence.EXPERIMENT_PREFIX, orgId)
	n, err := r.redisClient.HDel(ctx, key, id).Result()
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	if n == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *redisExperimentStorage) ListExperiments(ctx context.Context, orgId string) ([]*model.Experiment, error) {
	key := r.getNamespaceKey(persistence.EXPERIMENT_PREFIX, orgId)
	values, err := r.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	res := make([]*model.Experiment, 0, len(values))
	for id, val := range values {
		exp, err := r.encoderDecoder.Decode([]byte(val))
		if err != nil {
			logger.Error("error decoding experiment", zap.String("experiment", id), zap.Error(err))
			continue
		}
		res = append(res, exp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Id < res[j].Id })
	return res, nil
}
