package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"content-release-service/internal/domain"
	"content-release-service/internal/logger"
)

const codeInvalidRequest = "INVALID_REQUEST"

type apiError struct {
	Message       string            `json:"message"`
	Code          string            `json:"code,omitempty"`
	QuestionIndex *int              `json:"questionIndex,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// faultStatus maps an engine fault to its response status.
func faultStatus(f domain.Fault) int {
	switch f {
	case domain.FaultEventNotFound, domain.FaultLessonNotFound, domain.FaultQuizNotFound:
		return http.StatusNotFound
	case domain.FaultQuizInvalidPayload, domain.FaultQuizMissingCorrectOption, domain.FaultQuizInvalidAttempt:
		return http.StatusBadRequest
	case domain.FaultQuizLessonConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps engine faults and request validation failures to responses.
// Anything unrecognised is logged and reported as a 500 without details.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	var fault *domain.Error
	if errors.As(err, &fault) {
		writeJSON(w, faultStatus(fault.Fault), errorEnvelope{Error: apiError{
			Message:       fault.Message,
			Code:          fault.Fault.Code(),
			QuestionIndex: fault.QuestionIndex,
		}})
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Namespace()] = fe.Tag()
		}
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: apiError{
			Message: "request validation failed",
			Code:    codeInvalidRequest,
			Fields:  fields,
		}})
		return
	}

	var bad *badRequestError
	if errors.As(err, &bad) {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: apiError{Message: bad.Error(), Code: codeInvalidRequest}})
		return
	}

	log.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{Error: apiError{
		Message: http.StatusText(http.StatusInternalServerError),
		Code:    "INTERNAL",
	}})
}

type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return "malformed request body: " + e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

// accessBody is the transport view of a decision. The countdown is only
// attached once the visibility gate is open.
type accessBody struct {
	Authorized bool                `json:"authorized"`
	Status     domain.AccessStatus `json:"status"`
	Message    string              `json:"message"`
	Countdown  *domain.Countdown   `json:"countdown,omitempty"`
}

func newAccessBody(d domain.AccessDecision, countdown domain.Countdown) accessBody {
	body := accessBody{Authorized: d.Authorized, Status: d.Status, Message: d.Message}
	if d.Status != domain.AccessBlockedPrivate {
		body.Countdown = &countdown
	}
	return body
}

func writeDenied(w http.ResponseWriter, d domain.AccessDecision, countdown domain.Countdown) {
	writeJSON(w, http.StatusForbidden, newAccessBody(d, countdown))
}
