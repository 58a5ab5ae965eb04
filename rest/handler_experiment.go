package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	api "github.com/mohitkumar/screenflow/api/v1"
	"github.com/mohitkumar/screenflow/logger"
	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/persistence"
	"go.uber.org/zap"
)

type statusUpdate struct {
	Status model.ExperimentStatus `json:"status"`
}

func (s *Server) HandleCreateExperiment(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	defer r.Body.Close()
	var exp model.Experiment
	if err := json.NewDecoder(r.Body).Decode(&exp); err != nil {
		respondWithError(w, api.BadRequest("invalid request body"))
		return
	}
	if exp.Id == "" {
		exp.Id = uuid.NewString()
	}
	if exp.Status == "" {
		exp.Status = model.EXPERIMENT_DRAFT
	}
	exp.OrganizationId = principal.OrganizationId
	now := time.Now().UTC()
	exp.CreatedAt, exp.UpdatedAt = now, now
	if err := exp.Validate(); err != nil {
		respondWithError(w, api.BadRequest(err.Error()))
		return
	}
	if _, err := s.experiments.GetExperiment(r.Context(), principal.OrganizationId, exp.Id); err == nil {
		respondWithError(w, api.Conflict(fmt.Sprintf("experiment %s already exists", exp.Id)))
		return
	}
	if err := s.experiments.SaveExperiment(r.Context(), exp); err != nil {
		respondWithError(w, err)
		return
	}
	logger.Info("experiment created", zap.String("experiment", exp.Id), zap.String("organization", exp.OrganizationId))
	respondWithJSON(w, http.StatusCreated, exp)
}

func (s *Server) HandleListExperiments(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	list, err := s.experiments.ListExperiments(r.Context(), principal.OrganizationId)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (s *Server) HandleGetExperiment(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	exp, err := s.loadExperiment(r, principal.OrganizationId)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, exp)
}

func (s *Server) HandleDeleteExperiment(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if err := s.experiments.DeleteExperiment(r.Context(), principal.OrganizationId, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = api.NotFound(fmt.Sprintf("experiment %s not found", id))
		}
		respondWithError(w, err)
		return
	}
	respondOK(w, "deleted")
}

func (s *Server) HandleUpdateExperimentStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	defer r.Body.Close()
	var update statusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondWithError(w, api.BadRequest("invalid request body"))
		return
	}
	if err := model.ValidateExperimentStatus(string(update.Status)); err != nil {
		respondWithError(w, api.BadRequest(err.Error()))
		return
	}
	exp, err := s.loadExperiment(r, principal.OrganizationId)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if err := exp.Transition(update.Status); err != nil {
		respondWithError(w, api.Conflict(err.Error()))
		return
	}
	if err := s.experiments.SaveExperiment(r.Context(), *exp); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, exp)
}

func (s *Server) loadExperiment(r *http.Request, orgId string) (*model.Experiment, error) {
	id := mux.Vars(r)["id"]
	exp, err := s.experiments.GetExperiment(r.Context(), orgId, id)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, api.NotFound(fmt.Sprintf("experiment %s not found", id))
	}
	return exp, err
}
