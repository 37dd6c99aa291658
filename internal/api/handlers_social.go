package api

import (
	"net/http"

	"github.com/fireregsco/crm/internal/pkg/httputil"
	"github.com/fireregsco/crm/internal/social"
)

// GetSocialCounts handles GET /api/social-counts: follower counts for the
// footer widget. With no client configured it returns empty counts rather
// than an error; the widget just hides itself.
func (h *Handlers) GetSocialCounts(w http.ResponseWriter, r *http.Request) {
	if h.Social == nil {
		httputil.OK(w, social.Counts{})
		return
	}

	counts, err := h.Social.Counts(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, counts)
}
