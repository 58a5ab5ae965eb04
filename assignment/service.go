package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mohitkumar/screenflow/analytics"
	api "github.com/mohitkumar/screenflow/api/v1"
	"github.com/mohitkumar/screenflow/auth"
	"github.com/mohitkumar/screenflow/logger"
	"github.com/mohitkumar/screenflow/metrics"
	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/persistence"
	"go.uber.org/zap"
)

type Service struct {
	experiments persistence.ExperimentStorage
	assignments persistence.AssignmentStorage
	picker      Picker
	recorder    *analytics.Recorder
	metrics     *metrics.Metrics
}

func NewService(experiments persistence.ExperimentStorage, assignments persistence.AssignmentStorage, picker Picker, recorder *analytics.Recorder) *Service {
	if picker == nil {
		picker = NewWeightedPicker()
	}
	return &Service{
		experiments: experiments,
		assignments: assignments,
		picker:      picker,
		recorder:    recorder,
		metrics:     metrics.Get(),
	}
}

// Assign returns the sticky variant of userId in experimentId, drawing and
// storing one on the first request. Once stored the choice never changes;
// later requests are served from the stored row with Cached set, whatever
// the experiment status is by then.
func (s *Service) Assign(ctx context.Context, principal auth.Principal, experimentId string, userId string) (*model.AssignmentResult, error) {
	started := time.Now()
	res, outcome, err := s.assign(ctx, principal, strings.TrimSpace(experimentId), strings.TrimSpace(userId))
	if err != nil {
		var reqErr api.RequestError
		if errors.As(err, &reqErr) {
			s.metrics.RecordAssignment(metrics.OUTCOME_REJECTED, "", started)
		} else {
			s.metrics.RecordAssignment(metrics.OUTCOME_ERROR, "", started)
			logger.Error("error assigning variant", zap.String("experiment", experimentId), zap.String("user", userId), zap.Error(err))
		}
		return nil, err
	}
	s.metrics.RecordAssignment(outcome, res.VariantId, started)
	s.recorder.Record(analytics.AssignmentEvent{
		OrganizationId: principal.OrganizationId,
		ExperimentId:   experimentId,
		UserId:         userId,
		VariantId:      res.VariantId,
		Environment:    principal.Environment,
		Cached:         res.Cached,
		At:             started,
	})
	return res, nil
}

func (s *Service) assign(ctx context.Context, principal auth.Principal, experimentId string, userId string) (*model.AssignmentResult, string, error) {
	if experimentId == "" || userId == "" {
		return nil, "", api.BadRequest("experiment_id and user_id are required")
	}
	exp, err := s.experiments.GetExperiment(ctx, principal.OrganizationId, experimentId)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, "", api.NotFound(fmt.Sprintf("experiment %s not found", experimentId))
		}
		return nil, "", api.InternalError{Cause: fmt.Errorf("load experiment %s: %w", experimentId, err)}
	}

	existing, err := s.assignments.GetAssignment(ctx, principal.OrganizationId, experimentId, userId)
	if err == nil {
		res, err := resultFor(exp, existing.VariantId)
		return res, metrics.OUTCOME_CACHED, err
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		return nil, "", api.InternalError{Cause: fmt.Errorf("load assignment: %w", err)}
	}

	if !exp.IsActive() {
		return nil, "", api.BadRequest("experiment is not active")
	}
	variant, ok := s.picker.Pick(exp.Variants)
	if !ok {
		return nil, "", api.BadRequest("experiment has no variants")
	}
	assignment := model.Assignment{
		Id:             uuid.NewString(),
		OrganizationId: principal.OrganizationId,
		ExperimentId:   experimentId,
		UserId:         userId,
		VariantId:      variant.VariantId,
		Environment:    principal.Environment,
		CreatedAt:      time.Now().UTC(),
	}
	err = s.assignments.CreateAssignment(ctx, assignment)
	if errors.Is(err, persistence.ErrAssignmentExists) {
		// another request stored its draw between our lookup and insert
		winner, err := s.assignments.GetAssignment(ctx, principal.OrganizationId, experimentId, userId)
		if err != nil {
			return nil, "", api.InternalError{Cause: fmt.Errorf("assignment conflict but not found on retry: %w", err)}
		}
		logger.Debug("assignment race lost", zap.String("experiment", experimentId), zap.String("user", userId), zap.String("variant", winner.VariantId))
		res, err := resultFor(exp, winner.VariantId)
		return res, metrics.OUTCOME_RACE_LOST, err
	}
	if err != nil {
		return nil, "", api.InternalError{Cause: fmt.Errorf("store assignment: %w", err)}
	}
	return &model.AssignmentResult{
		VariantId:     variant.VariantId,
		VariantConfig: model.VariantConfig{Screens: screensOf(variant)},
		Cached:        false,
	}, metrics.OUTCOME_ASSIGNED, nil
}

// resultFor serves a stored choice with the variant's current screens. A
// variant deleted after the user was assigned is reported, never re-drawn.
func resultFor(exp *model.Experiment, variantId string) (*model.AssignmentResult, error) {
	variant, ok := exp.FindVariant(variantId)
	if !ok {
		return nil, api.Conflict("assigned variant no longer exists")
	}
	return &model.AssignmentResult{
		VariantId:     variant.VariantId,
		VariantConfig: model.VariantConfig{Screens: screensOf(variant)},
		Cached:        true,
	}, nil
}

func screensOf(v *model.Variant) []model.Screen {
	if v.Screens == nil {
		return []model.Screen{}
	}
	return v.Screens
}
