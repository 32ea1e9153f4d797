package chi

import (
	"github.com/kailas-cloud/contentrec/internal/domain/model"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/domain/similar"
	registryuc "github.com/kailas-cloud/contentrec/internal/usecase/registry"
)

// trainRequest is the body of both training endpoints. TargetDocuments is
// only read by train-bidirectional.
type trainRequest struct {
	Documents       []map[string]any `json:"documents"`
	TargetDocuments []map[string]any `json:"target_documents,omitempty"`
	Options         *options.Patch   `json:"options,omitempty"`
}

type runResponse struct {
	RunID      string `json:"run_id"`
	Model      string `json:"model"`
	Mode       string `json:"mode"`
	Documents  int    `json:"documents"`
	Pairs      int    `json:"pairs"`
	Entries    int    `json:"entries"`
	DurationMs int64  `json:"duration_ms"`
}

func runToResponse(r registryuc.Run) runResponse {
	return runResponse{
		RunID:      r.ID,
		Model:      r.Model,
		Mode:       r.Mode,
		Documents:  r.Documents,
		Pairs:      r.Pairs,
		Entries:    r.Entries,
		DurationMs: r.Duration.Milliseconds(),
	}
}

type similarResponse struct {
	Model string             `json:"model"`
	ID    string             `json:"id"`
	Start int                `json:"start"`
	Items []similar.Document `json:"items"`
}

type listResponse struct {
	Models []model.Info `json:"models"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
