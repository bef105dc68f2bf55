package views

import (
	"errors"
	"net/http"

	"github.com/odensebartech/dashboard/internal/middleware"
	"github.com/odensebartech/dashboard/internal/remote"

	log "github.com/sirupsen/logrus"
)

// HandleRemoteError logs a failed remote call of a page. It reports true when it
// already answered the request, which happens once the remote authority stops
// accepting the session token.
func HandleRemoteError(w http.ResponseWriter, r *http.Request, what string, err error) bool {
	switch {
	case errors.Is(err, remote.ErrUnauthorized):
		log.Debugf("%s: session no longer accepted: %s", what, err)
		middleware.RedirectSessionRejected(w, r)
		return true
	case errors.Is(err, remote.ErrMissingToken):
		log.Errorf("%s: no access token in session", what)
	default:
		log.Errorf("%s: %s", what, err)
	}
	return false
}

// RemoteErrorStatus is the status a page answers with after a failed remote write.
func RemoteErrorStatus(err error) int {
	var statusErr *remote.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
