package v1

import (
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/service"
	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

// respondServiceError maps the orchestrator's error kinds onto HTTP status
// codes. Anything unclassified is reported as an internal error without
// leaking collaborator details.
func respondServiceError(c *gin.Context, err error) {
	kind := service.KindOf(err)

	status := http.StatusInternalServerError
	message := "internal server error"

	switch kind {
	case service.KindInvalidArgument:
		status = http.StatusBadRequest
		message = err.Error()
	case service.KindNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case service.KindUnavailable:
		status = http.StatusServiceUnavailable
		message = "prediction service unavailable"
	}

	c.JSON(status, ErrorResponse{Error: message, Code: string(kind)})
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request: " + err.Error(),
			Code:  string(service.KindInvalidArgument),
		})
		return false
	}

	return true
}
