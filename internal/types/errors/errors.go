package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

var (
	ErrDBInternal       = errors.New("database internal error")
	ErrNotFound         = errors.New("record not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionIsExpired = errors.New("session is expired")
	ErrSessionInternal  = errors.New("session store error")
	ErrNoAuth           = errors.New("authorization required")

	ErrBadID              = errors.New("bad id")
	ErrInvalidJSONPayload = errors.New("invalid JSON payload")

	ErrCartRejected = errors.New("cart operation rejected")
	ErrStore        = errors.New("cart store error")
)

type ErrorServer struct {
	Message string `json:"message"`
	// Reasons причины отказа операций с корзиной
	Reasons []string `json:"reasons,omitempty"`
}

func (e *ErrorServer) Error() string {
	return e.Message
}

/*
NewErrorServer
Функция имеет возможность принимать "nil ошибку"
при получении nil наша функция понимает, что нам
просто надо отдать саксесс клиенту
*/
func NewErrorServer(err error, reasons ...string) ErrorServer {
	if err == nil {
		return ErrorServer{
			Message: "success",
		}
	}

	return ErrorServer{
		Message: err.Error(),
		Reasons: reasons,
	}
}

func SendErrorTo(w http.ResponseWriter, err error, statusCode int, logger *zap.SugaredLogger, reasons ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if errEncode := json.NewEncoder(w).Encode(NewErrorServer(err, reasons...)); errEncode != nil {
		logger.Error(errEncode)
	}
}
