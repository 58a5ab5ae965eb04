package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	api "github.com/mohitkumar/screenflow/api/v1"
	"github.com/mohitkumar/screenflow/logger"
	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/render"
	"github.com/mohitkumar/screenflow/variable"
	"go.uber.org/zap"
)

type selectionState struct {
	Toggled []string          `json:"toggled"`
	Groups  map[string]string `json:"groups"`
}

// renderRequest previews a document. Taps are replayed in order before the
// final render so a preview can show any reachable state.
type renderRequest struct {
	Document  model.Document  `json:"document"`
	Variables variable.Store  `json:"variables"`
	Hidden    []string        `json:"hidden"`
	Selection *selectionState `json:"selection"`
	Taps      []string        `json:"taps"`
}

type renderResponse struct {
	Views     []*render.View  `json:"views"`
	Intents   []render.Intent `json:"intents"`
	Variables variable.Store  `json:"variables"`
	Selection selectionState  `json:"selection"`
}

func (s *Server) HandleRender(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	defer r.Body.Close()
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, api.BadRequest("invalid request body"))
		return
	}
	if err := req.Document.Validate(); err != nil {
		respondWithError(w, api.BadRequest(err.Error()))
		return
	}
	session := render.NewSession(s.renderer, &req.Document, req.Variables)
	for _, id := range req.Hidden {
		session.Hide(id)
	}
	if req.Selection != nil {
		session.RestoreSelection(render.NewSelectionFrom(req.Selection.Toggled, req.Selection.Groups))
	}
	intents := make([]render.Intent, 0)
	for _, id := range req.Taps {
		fired, err := session.Tap(id)
		if err != nil {
			if errors.Is(err, render.ErrUnknownElement) || errors.Is(err, render.ErrNotInteractive) {
				respondWithError(w, api.BadRequest(err.Error()))
				return
			}
			respondWithError(w, err)
			return
		}
		intents = append(intents, fired...)
	}
	views := session.Render()

	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := render.WriteHTML(w, views); err != nil {
			logger.Error("error writing html preview", zap.Error(err))
		}
		return
	}
	respondWithJSON(w, http.StatusOK, renderResponse{
		Views:     views,
		Intents:   intents,
		Variables: session.Variables(),
		Selection: selectionState{
			Toggled: session.Selection().ToggledIds(),
			Groups:  session.Selection().GroupSelections(),
		},
	})
}
