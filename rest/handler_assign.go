package rest

import (
	"encoding/json"
	"net/http"

	api "github.com/mohitkumar/screenflow/api/v1"
	"github.com/mohitkumar/screenflow/model"
)

func (s *Server) HandleAssign(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	defer r.Body.Close()
	var req model.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, api.BadRequest("invalid request body"))
		return
	}
	res, err := s.assignmentService.Assign(r.Context(), principal, req.ExperimentId, req.UserId)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}
