package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/harborline/cargomark-backend/internal/domain/aggregates"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondDomainError maps the canonical error taxonomy onto HTTP statuses.
// Conflicts surface as 409 so the client can retry batch generation.
func RespondDomainError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case domainagg.CodeValidation:
		status = http.StatusBadRequest
	case domainagg.CodeNotFound:
		status = http.StatusNotFound
	case domainagg.CodeConflict, domainagg.CodeRetryable:
		status = http.StatusConflict
	case domainagg.CodePreconditionFailed:
		status = http.StatusUnprocessableEntity
	case domainagg.CodeInvariantViolation:
		status = http.StatusConflict
	}
	RespondError(c, status, string(code), err)
}
