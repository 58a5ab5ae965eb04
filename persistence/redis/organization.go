package redis

import (
	"context"
	"errors"

	rd "github.com/go-redis/redis/v9"
	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/persistence"
	"github.com/mohitkumar/screenflow/util"
)

const ORGANIZATION_KEY_INDEX string = "ORG_KEY"

var _ persistence.OrganizationStorage = new(redisOrganizationStorage)

// Organizations are stored by id with one index hash per key column mapping
// key to organization id.
type redisOrganizationStorage struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.Organization]
}

func newRedisOrganizationStorage(baseDao *baseDao) *redisOrganizationStorage {
	return &redisOrganizationStorage{
		baseDao:        baseDao,
		encoderDecoder: util.NewJsonEncoderDecoder[model.Organization](),
	}
}

func (r *redisOrganizationStorage) SaveOrganization(ctx context.Context, org model.Organization) error {
	data, err := r.encoderDecoder.Encode(org)
	if err != nil {
		return err
	}
	_, err = r.redisClient.TxPipelined(ctx, func(pipe rd.Pipeliner) error {
		pipe.Set(ctx, r.getNamespaceKey(persistence.ORGANIZATION_PREFIX, org.Id), data, 0)
		for _, kind := range []model.APIKeyKind{model.API_KEY_TEST, model.API_KEY_LIVE, model.API_KEY_LEGACY} {
			if key := org.KeyFor(kind); key != "" {
				pipe.HSet(ctx, r.getNamespaceKey(ORGANIZATION_KEY_INDEX, string(kind)), key, org.Id)
			}
		}
		return nil
	})
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisOrganizationStorage) FindOrganizationByKey(ctx context.Context, kind model.APIKeyKind, key string) (*model.Organization, error) {
	if key == "" {
		return nil, persistence.ErrNotFound
	}
	orgId, err := r.redisClient.HGet(ctx, r.getNamespaceKey(ORGANIZATION_KEY_INDEX, string(kind)), key).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.ErrNotFound
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	val, err := r.redisClient.Get(ctx, r.getNamespaceKey(persistence.ORGANIZATION_PREFIX, orgId)).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.ErrNotFound
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	org, err := r.encoderDecoder.Decode([]byte(val))
	if err != nil {
		return nil, err
	}
	// a rotated key may still sit in the index
	if org.KeyFor(kind) != key {
		return nil, persistence.ErrNotFound
	}
	return org, nil
}
