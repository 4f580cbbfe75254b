package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/biasadhi/biasadhi-gobackend/internal/middleware"
	"github.com/biasadhi/biasadhi-gobackend/internal/response"
	"github.com/biasadhi/biasadhi-gobackend/internal/services"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var errBadQuery = errors.New("invalid query parameter")

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps service errors onto status codes. Anything
// unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidID):
		response.Error(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, services.ErrInvalidStatus):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		response.Error(w, http.StatusNotFound, "not found")
	default:
		logger.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("requestId", middleware.RequestIDFromContext(r.Context())))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func queryInt(r *http.Request, key string) (int64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, errBadQuery
	}
	return n, nil
}

// queryFlag treats any value except "", "0" and "false" as set.
func queryFlag(r *http.Request, key string) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key))) {
	case "", "0", "false":
		return false
	}
	return true
}
