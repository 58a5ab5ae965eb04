package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	api "github.com/mohitkumar/screenflow/api/v1"
	"github.com/mohitkumar/screenflow/cache"
	"github.com/mohitkumar/screenflow/logger"
	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/persistence"
	"go.uber.org/zap"
)

const TEST_KEY_PREFIX = "sf_test_"
const LIVE_KEY_PREFIX = "sf_live_"

// Principal is the organization and environment an api key resolved to.
type Principal struct {
	OrganizationId string
	Environment    model.Environment
}

type Authenticator struct {
	organizations persistence.OrganizationStorage
	keys          *cache.KeyCache[Principal]
}

func NewAuthenticator(organizations persistence.OrganizationStorage, cacheTTL time.Duration) *Authenticator {
	return &Authenticator{
		organizations: organizations,
		keys:          cache.NewKeyCache[Principal](cacheTTL),
	}
}

// KeyKind maps a key to the column it is checked against and the
// environment it grants. Unprefixed keys are legacy live keys.
func KeyKind(key string) (model.APIKeyKind, model.Environment) {
	switch {
	case strings.HasPrefix(key, TEST_KEY_PREFIX):
		return model.API_KEY_TEST, model.ENVIRONMENT_TEST
	case strings.HasPrefix(key, LIVE_KEY_PREFIX):
		return model.API_KEY_LIVE, model.ENVIRONMENT_LIVE
	}
	return model.API_KEY_LEGACY, model.ENVIRONMENT_LIVE
}

func (a *Authenticator) Authenticate(ctx context.Context, key string) (Principal, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Principal{}, api.Unauthorized("missing API key")
	}
	if p, ok := a.keys.Get(key); ok {
		return p, nil
	}
	kind, env := KeyKind(key)
	org, err := a.organizations.FindOrganizationByKey(ctx, kind, key)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, api.Unauthorized("invalid API key")
		}
		logger.Error("error resolving api key", zap.String("kind", string(kind)), zap.Error(err))
		return Principal{}, api.InternalError{Cause: err}
	}
	p := Principal{OrganizationId: org.Id, Environment: env}
	a.keys.Save(key, p)
	return p, nil
}
