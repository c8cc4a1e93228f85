package handlers

import (
	"errors"
	"net/http"

	"github.com/fuelcore/pump-master-backend/httpx"
	"github.com/fuelcore/pump-master-backend/services"
	"go.uber.org/zap"
)

// writeServiceError maps a domain error to the stable HTTP error payload.
// Internal errors are logged server-side and never leak their cause to
// the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	switch services.GetErrorType(err) {
	case services.ErrorTypeUnauthorized:
		_ = httpx.WriteUnauthorized(w, r, serviceMessage(err))
	case services.ErrorTypeForbidden:
		_ = httpx.WriteForbidden(w, r)
	case services.ErrorTypeNotFound:
		_ = httpx.WriteNotFound(w, r, serviceMessage(err))
	case services.ErrorTypeValidation:
		_ = httpx.WriteBadRequest(w, r, serviceMessage(err))
	case services.ErrorTypeConflict:
		_ = httpx.WriteConflict(w, r, serviceMessage(err))
	default:
		logger.Error("unhandled service error",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		_ = httpx.WriteInternalServerError(w, r, "")
	}
}

func serviceMessage(err error) string {
	var domainErr *services.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ""
}
