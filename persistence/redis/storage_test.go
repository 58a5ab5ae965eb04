package redis

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/persistence"
	"github.com/stretchr/testify/require"
)

func TestRingPartition(t *testing.T) {
	r := NewRing(0, nil)
	p := r.GetPartition("exp:user")
	require.GreaterOrEqual(t, p, 0)
	require.Less(t, p, DEFAULT_PARTITION_COUNT)
	require.Equal(t, p, r.GetPartition("exp:user"))
	require.Empty(t, r.Owner("exp:user"))

	r = NewRing(8, []string{"localhost:6379"})
	require.Equal(t, "localhost:6379", r.Owner("exp:user"))
}

func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("SCREENFLOW_TEST_REDIS")
	if addr == "" {
		t.Skip("SCREENFLOW_TEST_REDIS not set")
	}
	for scenario, fn := range map[string]func(t *testing.T, s *redisStorage){
		"experiment crud":         testExperimentCrud,
		"assignment first write":  testAssignmentFirstWrite,
		"organization key lookup": testOrganizationKeyLookup,
	} {
		t.Run(scenario, func(t *testing.T) {
			s := NewRedisStorage(Config{
				Addrs:          []string{addr},
				Namespace:      "test-" + uuid.NewString(),
				PartitionCount: 4,
			})
			defer s.Close()
			fn(t, s)
		})
	}
}

func testExperimentCrud(t *testing.T, s *redisStorage) {
	ctx := context.Background()
	exp := model.Experiment{Id: "e1", OrganizationId: "o1", Status: model.EXPERIMENT_ACTIVE,
		Variants: []model.Variant{{VariantId: "a", Weight: 100}}}
	require.NoError(t, s.SaveExperiment(ctx, exp))

	got, err := s.GetExperiment(ctx, "o1", "e1")
	require.NoError(t, err)
	require.Equal(t, "a", got.Variants[0].VariantId)

	_, err = s.GetExperiment(ctx, "o2", "e1")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	list, err := s.ListExperiments(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.DeleteExperiment(ctx, "o1", "e1"))
	require.ErrorIs(t, s.DeleteExperiment(ctx, "o1", "e1"), persistence.ErrNotFound)
}

func testAssignmentFirstWrite(t *testing.T, s *redisStorage) {
	ctx := context.Background()
	_, err := s.GetAssignment(ctx, "o1", "e1", "u1")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	require.NoError(t, s.CreateAssignment(ctx, model.Assignment{Id: "1", OrganizationId: "o1", ExperimentId: "e1", UserId: "u1", VariantId: "a"}))
	err = s.CreateAssignment(ctx, model.Assignment{Id: "2", OrganizationId: "o1", ExperimentId: "e1", UserId: "u1", VariantId: "b"})
	require.ErrorIs(t, err, persistence.ErrAssignmentExists)

	got, err := s.GetAssignment(ctx, "o1", "e1", "u1")
	require.NoError(t, err)
	require.Equal(t, "a", got.VariantId)

	require.NoError(t, s.CreateAssignment(ctx, model.Assignment{Id: "3", OrganizationId: "o2", ExperimentId: "e1", UserId: "u1", VariantId: "c"}))
	got, err = s.GetAssignment(ctx, "o2", "e1", "u1")
	require.NoError(t, err)
	require.Equal(t, "c", got.VariantId)
}

func testOrganizationKeyLookup(t *testing.T, s *redisStorage) {
	ctx := context.Background()
	require.NoError(t, s.SaveOrganization(ctx, model.Organization{Id: "o1", TestAPIKey: "sf_test_x", APIKey: "old"}))

	org, err := s.FindOrganizationByKey(ctx, model.API_KEY_TEST, "sf_test_x")
	require.NoError(t, err)
	require.Equal(t, "o1", org.Id)

	org, err = s.FindOrganizationByKey(ctx, model.API_KEY_LEGACY, "old")
	require.NoError(t, err)
	require.Equal(t, "o1", org.Id)

	_, err = s.FindOrganizationByKey(ctx, model.API_KEY_LIVE, "sf_test_x")
	require.ErrorIs(t, err, persistence.ErrNotFound)
}
