package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// RequiredQuery returns the trimmed value of the query parameter key.
// If it is absent or blank, a 400 response is written and false is returned.
func RequiredQuery(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string) (string, bool) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("%s url parameter is required", key))
		return "", false
	}
	return value, true
}
