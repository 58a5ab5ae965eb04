package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type ExperimentStatus string

const (
	EXPERIMENT_DRAFT     ExperimentStatus = "draft"
	EXPERIMENT_ACTIVE    ExperimentStatus = "active"
	EXPERIMENT_PAUSED    ExperimentStatus = "paused"
	EXPERIMENT_COMPLETED ExperimentStatus = "completed"
)

var transitions = map[ExperimentStatus][]ExperimentStatus{
	EXPERIMENT_DRAFT:  {EXPERIMENT_ACTIVE},
	EXPERIMENT_ACTIVE: {EXPERIMENT_PAUSED, EXPERIMENT_COMPLETED},
	EXPERIMENT_PAUSED: {EXPERIMENT_ACTIVE, EXPERIMENT_COMPLETED},
}

func ValidateExperimentStatus(s string) error {
	switch ExperimentStatus(s) {
	case EXPERIMENT_DRAFT, EXPERIMENT_ACTIVE, EXPERIMENT_PAUSED, EXPERIMENT_COMPLETED:
		return nil
	}
	return fmt.Errorf("invalid experiment status %s", s)
}

// Variant screens are a copy taken when the experiment was created; later
// edits of the source flow do not reach them.
type Variant struct {
	VariantId string   `json:"variant_id"`
	Name      string   `json:"name"`
	Weight    float64  `json:"weight"`
	Screens   []Screen `json:"screens"`
}

type Experiment struct {
	Id               string           `json:"id"`
	OrganizationId   string           `json:"organization_id"`
	Name             string           `json:"name"`
	Status           ExperimentStatus `json:"status"`
	Variants         []Variant        `json:"variants"`
	PrimaryMetric    string           `json:"primary_metric,omitempty"`
	SecondaryMetrics []string         `json:"secondary_metrics,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (e *Experiment) FindVariant(variantId string) (*Variant, bool) {
	for i := range e.Variants {
		if e.Variants[i].VariantId == variantId {
			return &e.Variants[i], true
		}
	}
	return nil, false
}

func (e *Experiment) IsActive() bool {
	return e.Status == EXPERIMENT_ACTIVE
}

// Validate is applied on the authoring path only. The assignment service
// trusts whatever weights are stored.
func (e *Experiment) Validate() error {
	if strings.TrimSpace(e.Id) == "" {
		return fmt.Errorf("experiment id is required")
	}
	if err := ValidateExperimentStatus(string(e.Status)); err != nil {
		return err
	}
	if len(e.Variants) == 0 {
		return fmt.Errorf("experiment %s should have at least one variant", e.Id)
	}
	seen := make(map[string]struct{})
	total := 0.0
	for i, v := range e.Variants {
		if strings.TrimSpace(v.VariantId) == "" {
			return fmt.Errorf("variant %d id is required", i)
		}
		if _, ok := seen[v.VariantId]; ok {
			return fmt.Errorf("variant id %s is duplicate", v.VariantId)
		}
		seen[v.VariantId] = struct{}{}
		if v.Weight < 0 || v.Weight > 100 {
			return fmt.Errorf("variant %s weight %v should be between 0 and 100", v.VariantId, v.Weight)
		}
		total += v.Weight
		screens := make(map[string]struct{})
		for _, s := range v.Screens {
			if _, ok := screens[s.Id]; ok {
				return fmt.Errorf("variant %s: screen id %s is duplicate", v.VariantId, s.Id)
			}
			screens[s.Id] = struct{}{}
			if err := s.Document().Validate(); err != nil {
				return fmt.Errorf("variant %s screen %s: %w", v.VariantId, s.Id, err)
			}
		}
	}
	if math.Abs(total-100) > 0.01 {
		return fmt.Errorf("variant weights should sum to 100, got %v", total)
	}
	return nil
}

// Transition moves the experiment to the given status if the lifecycle allows it.
func (e *Experiment) Transition(to ExperimentStatus) error {
	if e.Status == to {
		return nil
	}
	for _, allowed := range transitions[e.Status] {
		if allowed == to {
			e.Status = to
			e.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("experiment %s can not move from %s to %s", e.Id, e.Status, to)
}
