package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"

	"github.com/christlutheran/kbchat/pkg/adapter"
	"github.com/christlutheran/kbchat/pkg/model"
	"github.com/christlutheran/kbchat/pkg/usecase/answer"
	"github.com/christlutheran/kbchat/pkg/utils/logging"
)

type statusResponse struct {
	OK      bool           `json:"ok"`
	Version string         `json:"version"`
	HasKey  bool           `json:"hasKey"`
	Files   []string       `json:"files"`
	Sizes   map[string]int `json:"sizes"`
	Go      string         `json:"go"`
}

type chatRequest struct {
	Text     string `json:"text"`
	DeepDive bool   `json:"deepDive"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	// Answer duplicates Reply for older clients.
	Answer              string               `json:"answer"`
	Handoff             bool                 `json:"handoff"`
	Version             string               `json:"version"`
	DeepDive            bool                 `json:"deepDive"`
	OfferDeepDive       bool                 `json:"offerDeepDive"`
	DeepDiveHint        string               `json:"deepDiveHint,omitempty"`
	ContextSectionsUsed int                  `json:"contextSectionsUsed"`
	PickedTitles        []string             `json:"pickedTitles"`
	ToolActivity        []model.ToolActivity `json:"toolActivity"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Body    string `json:"body,omitempty"`
	Version string `json:"version"`
}

// handleStatus reports service health, configuration presence and the loaded
// corpus. `?reload=1` invalidates the document cache first.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("reload") == "1" {
		s.corpus.Invalidate()
		logging.From(r.Context()).Info("corpus cache invalidated by request")
	}

	docs := s.corpus.Load(r.Context())
	files := make([]string, 0, len(docs))
	sizes := make(map[string]int, len(docs))
	for _, doc := range docs {
		files = append(files, doc.Name)
		sizes[doc.Name] = len(doc.Text)
	}

	writeJSON(w, http.StatusOK, statusResponse{
		OK:      true,
		Version: s.version,
		HasKey:  s.asker != nil,
		Files:   files,
		Sizes:   sizes,
		Go:      runtime.Version(),
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON", Version: s.version})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing text", Version: s.version})
		return
	}

	if s.asker == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "OPENAI_API_KEY is not set",
			Version: s.version,
		})
		return
	}

	out, err := s.asker.Ask(r.Context(), answer.Input{Text: req.Text, DeepDive: req.DeepDive})
	if err != nil {
		var upstream *adapter.UpstreamError
		if errors.As(err, &upstream) {
			logging.From(r.Context()).Error("upstream model error",
				"status", upstream.Status, "body", upstream.Body)
			writeJSON(w, http.StatusBadGateway, errorResponse{
				Error:   "OpenAI error",
				Details: upstream.Error(),
				Body:    upstream.Body,
				Version: s.version,
			})
			return
		}

		logging.From(r.Context()).Error("failed to answer", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Server error",
			Details: err.Error(),
			Version: s.version,
		})
		return
	}

	resp := chatResponse{
		Reply:               out.Reply,
		Answer:              out.Reply,
		Handoff:             out.Handoff,
		Version:             s.version,
		DeepDive:            out.DeepDive,
		OfferDeepDive:       out.OfferDeepDive,
		ContextSectionsUsed: out.ContextSectionsUsed,
		PickedTitles:        out.PickedTitles,
		ToolActivity:        out.ToolActivity,
	}
	if out.OfferDeepDive {
		resp.DeepDiveHint = answer.DeepDiveHint
	}
	if resp.PickedTitles == nil {
		resp.PickedTitles = []string{}
	}
	if resp.ToolActivity == nil {
		resp.ToolActivity = []model.ToolActivity{}
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
