package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vkarpenko/regauth/internal/common"
)

// errorResponse is the wire shape for every failed request:
// {"errors":[{"detail":"..."}]}.
type errorResponse struct {
	Errors []errorDetail `json:"errors"`
}

type errorDetail struct {
	Detail string `json:"detail"`
}

func statusForKind(kind common.Kind) int {
	switch kind {
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindValidation:
		return http.StatusBadRequest
	case common.KindForbidden:
		return http.StatusForbidden
	default:
		// Dependency and internal failures are both the server's problem.
		return http.StatusInternalServerError
	}
}

// writeErr maps err's kind to a status and renders the caller-safe detail.
// Unclassified errors collapse to a generic 500 so store internals never
// reach clients.
func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusForKind(common.ErrKind(err)), errorResponse{
		Errors: []errorDetail{{Detail: common.ErrDetail(err)}},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
