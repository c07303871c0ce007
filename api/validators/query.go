package validators

import (
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/aulaeco/recicla-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

// ParseFromDate reads the optional "from" query parameter. Empty means no
// lower bound; anything else must be a valid YYYY-MM-DD date.
func ParseFromDate(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("from"))
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "from must be a YYYY-MM-DD date").
			WithDetails(map[string]any{"from": raw})
	}
	return raw, nil
}
