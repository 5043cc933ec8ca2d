package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gridkit/olympic-data-apis/grid"
	"github.com/gridkit/olympic-data-apis/log"
	restEndpointV1 "github.com/gridkit/olympic-data-apis/rest/endpoint/v1"
)

// RecoverHandler turns a panic raised while serving a request into a 500 response carrying an
// application error notification, the client offers a reload
func RecoverHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				message := fmt.Sprintf("%v", rec)
				logger.Error("unexpected error serving request", "method", r.Method, "path", r.URL.Path, "error", message)
				restEndpointV1.RespondWithError(w, errors.New("unexpected error"), http.StatusInternalServerError,
					grid.ApplicationError(message))
			}
		}()
		handler.ServeHTTP(w, r)
	})
}
