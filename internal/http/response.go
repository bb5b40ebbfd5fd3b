package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coffee-reco/internal/service"
)

// ResultRecorder cuenta resultados por operacion; lo implementa metrics.Metrics.
type ResultRecorder interface {
	RecordResult(op, code string)
}

type nopRecorder struct{}

func (nopRecorder) RecordResult(string, string) {}

// RequestMetrics mide la latencia por ruta; lo implementa metrics.Metrics.
type RequestMetrics interface {
	ObserveRequest(method, route, status string, elapsed time.Duration)
}

// resultBody es la forma comun de toda respuesta de negocio.
type resultBody struct {
	Code    service.Code `json:"p_result_code"`
	Message string       `json:"p_result_message"`
	Data    any          `json:"data,omitempty"`
}

// respond escribe el resultado de una operacion. Los codigos de negocio viajan con 200;
// solo ERROR se distingue como falla de infraestructura (500).
func respond(c *gin.Context, rec ResultRecorder, op string, data any, err error) {
	code := service.CodeOf(err)
	rec.RecordResult(op, string(code))

	body := resultBody{Code: code, Message: "OK", Data: data}
	if err != nil {
		body.Message = err.Error()
		body.Data = nil
	}

	status := http.StatusOK
	if code == service.CodeError {
		status = http.StatusInternalServerError
	}
	c.JSON(status, body)
}

// respondBadRequest cubre cuerpos JSON ilegibles.
func respondBadRequest(c *gin.Context, rec ResultRecorder, op string) {
	rec.RecordResult(op, string(service.CodeInvalidParameter))
	c.JSON(http.StatusBadRequest, resultBody{
		Code:    service.CodeInvalidParameter,
		Message: "invalid request body",
	})
}
