// Package httpapi exposes the ledger, prediction and import services over
// HTTP with a chi router.
package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/example/flux/internal/ctxutil"
	"github.com/example/flux/internal/models"
	"github.com/example/flux/internal/ports/primary"
)

// maxImportBytes caps request bodies for /import.
const maxImportBytes = 16 << 20

var validate = validator.New()

// dateRequest is the body of every endpoint that takes a single date.
type dateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Handler serves the flux HTTP API.
type Handler struct {
	ledger     primary.LedgerService
	prediction primary.PredictionService
	imports    primary.ImportService
	logs       primary.DailyLogService
	logger     logrus.FieldLogger
}

// NewHandler creates a new Handler with injected services.
func NewHandler(
	ledger primary.LedgerService,
	prediction primary.PredictionService,
	imports primary.ImportService,
	logs primary.DailyLogService,
	logger logrus.FieldLogger,
) *Handler {
	return &Handler{
		ledger:     ledger,
		prediction: prediction,
		imports:    imports,
		logs:       logs,
		logger:     logger,
	}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)
	r.Use(actor)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/cycles", func(r chi.Router) {
		r.Get("/", h.listCycles)
		r.Get("/latest", h.latestCycle)
		r.Get("/{id}", h.getCycle)
		r.Post("/{id}/end", h.endPeriod)
		r.Post("/{id}/correct-start", h.correctStart)
		r.Post("/{id}/correct-end", h.correctEnd)
		r.Post("/{id}/undo-end", h.undoEnd)
		r.Delete("/{id}", h.undoStart)
	})
	r.Post("/periods/start", h.startPeriod)

	r.Get("/logs", h.listLogs)
	r.Put("/logs/{date}", h.saveLog)
	r.Get("/logs/{date}", h.getLog)
	r.Delete("/logs/{date}", h.deleteLog)

	r.Get("/status", h.status)
	r.Get("/model", h.getModel)
	r.Post("/model", h.importModel)
	r.Get("/export", h.export)
	r.Post("/import", h.importData)

	return r
}

func actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(ctxutil.WithActorID(r.Context(), ctxutil.ActorHTTP)))
	})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("request")
	})
}

func decodeDate(r *http.Request) (string, error) {
	var req dateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	if err := validate.Struct(req); err != nil {
		return "", err
	}
	return req.Date, nil
}

func (h *Handler) listCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.ledger.ListCycles(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cycles)
}

func (h *Handler) latestCycle(w http.ResponseWriter, r *http.Request) {
	c, err := h.ledger.LatestCycle(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if c == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handler) getCycle(w http.ResponseWriter, r *http.Request) {
	c, err := h.ledger.GetCycle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handler) startPeriod(w http.ResponseWriter, r *http.Request) {
	date, err := decodeDate(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	c, err := h.ledger.StartPeriod(r.Context(), date)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// cycleDateAction adapts ledger operations of the form op(ctx, id, date).
func (h *Handler) cycleDateAction(w http.ResponseWriter, r *http.Request, op func(r *http.Request, id, date string) (*models.Cycle, error)) {
	date, err := decodeDate(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	c, err := op(r, chi.URLParam(r, "id"), date)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handler) endPeriod(w http.ResponseWriter, r *http.Request) {
	h.cycleDateAction(w, r, func(r *http.Request, id, date string) (*models.Cycle, error) {
		return h.ledger.EndPeriod(r.Context(), id, date)
	})
}

func (h *Handler) correctStart(w http.ResponseWriter, r *http.Request) {
	h.cycleDateAction(w, r, func(r *http.Request, id, date string) (*models.Cycle, error) {
		return h.ledger.CorrectStart(r.Context(), id, date)
	})
}

func (h *Handler) correctEnd(w http.ResponseWriter, r *http.Request) {
	h.cycleDateAction(w, r, func(r *http.Request, id, date string) (*models.Cycle, error) {
		return h.ledger.CorrectEnd(r.Context(), id, date)
	})
}

func (h *Handler) undoEnd(w http.ResponseWriter, r *http.Request) {
	c, err := h.ledger.UndoEnd(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handler) undoStart(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.UndoStart(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	logs, err := h.logs.ListLogs(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

func (h *Handler) saveLog(w http.ResponseWriter, r *http.Request) {
	var log models.DailyLog
	if err := json.NewDecoder(r.Body).Decode(&log); err != nil {
		h.respondError(w, r, fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err))
		return
	}
	log.Date = chi.URLParam(r, "date")

	resp, err := h.logs.SaveLog(r.Context(), &log)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"log":          resp.Log,
		"startedCycle": resp.StartedCycle,
	})
}

func (h *Handler) getLog(w http.ResponseWriter, r *http.Request) {
	log, err := h.logs.GetLog(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, log)
}

func (h *Handler) deleteLog(w http.ResponseWriter, r *http.Request) {
	if err := h.logs.DeleteLog(r.Context(), chi.URLParam(r, "date")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	status, err := h.prediction.Status(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (h *Handler) getModel(w http.ResponseWriter, r *http.Request) {
	params, err := h.prediction.GetModelParams(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if params == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, params)
}

func (h *Handler) importModel(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	params, err := h.prediction.ImportModelParams(r.Context(), raw)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, params)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	exp, err := h.imports.ExportData(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, exp)
}

// importData accepts a third-party export, or a flux backup when called
// with ?format=backup.
func (h *Handler) importData(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var summary *primary.ImportSummary
	if r.URL.Query().Get("format") == "backup" {
		summary, err = h.imports.RestoreBackup(r.Context(), raw)
	} else {
		summary, err = h.imports.ImportExport(r.Context(), raw)
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return raw, nil
}
