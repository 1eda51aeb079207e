package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime"
	"net/http"

	"github.com/sirupsen/logrus"

	"inventory/manager"
	"inventory/predictor"
)

const (
	msgFieldsRequired   = "item_id and date are required"
	msgInvalidBody      = "invalid JSON body"
	msgFieldType        = "item_id and date must be strings"
	msgBodyTooLarge     = "request entity too large"
	msgPredictionFailed = "Prediction failed"
	msgParseFailed      = "Failed to parse prediction result"
	msgExecFailed       = "Failed to execute prediction script"
	msgCapacity         = "Prediction capacity exhausted"

	maxBodyBytes = 100 << 10
)

var errFieldType = errors.New(msgFieldType)

// Limiter hands out slots for running prediction processes.
type Limiter interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// PredictHandler serves POST /predict by running one prediction process per
// request.
type PredictHandler struct {
	runner  predictor.Runner
	limiter Limiter
}

// NewPredictHandler creates a handler. limiter may be nil for no bound.
func NewPredictHandler(runner predictor.Runner, limiter Limiter) *PredictHandler {
	return &PredictHandler{runner: runner, limiter: limiter}
}

// ServeHTTP implements the http.Handler interface for PredictHandler.
func (h *PredictHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r)

	req, err := decodePredictRequest(w, r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge, nil)
			return
		}
		logger.Debugf("Rejecting request body: %v", err)
		if errors.Is(err, errFieldType) {
			writeError(w, http.StatusBadRequest, msgFieldType, nil)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidBody, nil)
		return
	}

	if req.ItemID == "" || req.Date == "" {
		writeError(w, http.StatusBadRequest, msgFieldsRequired, nil)
		return
	}

	if h.limiter != nil {
		release, err := h.limiter.Acquire(r.Context())
		if err != nil {
			if errors.Is(err, manager.ErrCapacityExhausted) {
				logger.Warnf("No prediction slot for item %s: %v", req.ItemID, err)
				writeError(w, http.StatusServiceUnavailable, msgCapacity, nil)
				return
			}
			logger.Debugf("Client %s went away while queued: %v", r.RemoteAddr, err)
			return
		}
		defer release()
	}

	// The process outlives a disconnected client; only the configured
	// timeout, if any, stops it.
	res, err := h.runner.Run(context.WithoutCancel(r.Context()), req.ItemID, req.Date)
	if err != nil {
		var startErr *predictor.StartError
		if errors.As(err, &startErr) {
			logger.Errorf("Failed to start prediction process: %v", startErr.Err)
			writeError(w, http.StatusInternalServerError, msgExecFailed, withDetails(startErr.Err.Error()))
			return
		}

		logger.Errorf("Prediction process exited with code %d: %v", res.ExitCode, err)
		logger.Errorf("Prediction process stderr: %s", res.Stderr)
		writeError(w, http.StatusInternalServerError, msgPredictionFailed, withDetails(string(res.Stderr)))
		return
	}

	writePrediction(w, logger, res.Stdout)
}

// writePrediction relays stdout of a successful run.
func writePrediction(w http.ResponseWriter, logger *logrus.Entry, stdout []byte) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, stdout); err != nil {
		logger.Errorf("Failed to parse prediction output %q: %v", stdout, err)
		writeError(w, http.StatusInternalServerError, msgParseFailed, withDetails(string(stdout)))
		return
	}

	// A bare null is rejected like unparseable output.
	var parsed any
	if err := json.Unmarshal(compact.Bytes(), &parsed); err != nil || parsed == nil {
		logger.Errorf("Failed to parse prediction output %q: %v", stdout, err)
		writeError(w, http.StatusInternalServerError, msgParseFailed, withDetails(string(stdout)))
		return
	}

	if obj, ok := parsed.(map[string]any); ok {
		if reported, ok := obj["error"]; ok && truthy(reported) {
			logger.Errorf("Prediction process reported an error: %v", reported)
			writeError(w, http.StatusInternalServerError, reported, nil)
			return
		}
	}

	writeJSON(w, http.StatusOK, compact.Bytes())
}

// decodePredictRequest reads the body. Bodies that are empty, not JSON typed
// or not an object decode to the zero request, as do fields holding a falsy
// value. Fields that are set but not strings yield errFieldType.
func decodePredictRequest(w http.ResponseWriter, r *http.Request) (PredictRequest, error) {
	var req PredictRequest

	if !isJSONContentType(r.Header.Get("Content-Type")) {
		return req, nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return req, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return req, err
	}

	obj, _ := parsed.(map[string]any)
	itemID, date := obj["item_id"], obj["date"]
	if !truthy(itemID) || !truthy(date) {
		return req, nil
	}

	var ok bool
	if req.ItemID, ok = itemID.(string); !ok {
		return PredictRequest{}, errFieldType
	}
	if req.Date, ok = date.(string); !ok {
		return PredictRequest{}, errFieldType
	}
	return req, nil
}

func isJSONContentType(value string) bool {
	if value == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// truthy reports whether a decoded JSON value counts as set.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	default:
		return true
	}
}
