// Package server exposes the planning session over a JSON HTTP API: CRUD
// on the four registries, scenario parameters, computed projections, and
// spreadsheet exchange.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/hoppemairon/gestor-plantio/internal/config"
	"github.com/hoppemairon/gestor-plantio/internal/dre"
	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/hoppemairon/gestor-plantio/internal/projection"
	"github.com/hoppemairon/gestor-plantio/internal/registry"
	"github.com/hoppemairon/gestor-plantio/internal/report"
	"github.com/hoppemairon/gestor-plantio/pkg/constants"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	store         *registry.Store
	maxUploadSize int64
	version       string
	horizon       int
}

// NewHandler constructs the HTTP handler serving the planning API over one
// in-memory session.
func NewHandler(logger *zap.Logger, store *registry.Store, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = registry.NewStore(config.DefaultParameters())
	}
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		store:         store,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		horizon:       constants.HorizonYears,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/version", h.handleVersion)

	registerRegistry(mux, h, "/api/plantings", registryOps[model.Planting]{
		list:   store.Plantings,
		add:    store.AddPlanting,
		update: store.UpdatePlanting,
		remove: store.DeletePlanting,
		clear:  store.ClearPlantings,
	})
	registerRegistry(mux, h, "/api/expenses", registryOps[model.Expense]{
		list:   store.Expenses,
		add:    store.AddExpense,
		update: store.UpdateExpense,
		remove: store.DeleteExpense,
		clear:  store.ClearExpenses,
	})
	registerRegistry(mux, h, "/api/loans", registryOps[model.Loan]{
		list:   store.Loans,
		add:    store.AddLoan,
		update: store.UpdateLoan,
		remove: store.DeleteLoan,
		clear:  store.ClearLoans,
	})
	registerRegistry(mux, h, "/api/revenues", registryOps[model.AdditionalRevenue]{
		list:   store.AdditionalRevenues,
		add:    store.AddAdditionalRevenue,
		update: store.UpdateAdditionalRevenue,
		remove: store.DeleteAdditionalRevenue,
		clear:  store.ClearAdditionalRevenues,
	})

	mux.HandleFunc("GET /api/parameters", h.handleGetParameters)
	mux.HandleFunc("PUT /api/parameters", h.handlePutParameters)
	mux.HandleFunc("POST /api/session/clear", h.handleClearAll)

	mux.HandleFunc("GET /api/cashflow", h.handleCashFlow)
	mux.HandleFunc("GET /api/dre", h.handleDRE)
	mux.HandleFunc("GET /api/dre/crops", h.handlePerCrop)
	mux.HandleFunc("GET /api/indicators", h.handleIndicators)
	mux.HandleFunc("GET /api/opinion", h.handleOpinion)
	mux.HandleFunc("GET /api/export", h.handleExport)

	mux.HandleFunc("POST /api/import/expenses", h.handleImportExpenses)
	mux.HandleFunc("POST /api/import/loans", h.handleImportLoans)

	return mux
}

// registryOps bundles one registry's store operations for the shared CRUD
// wiring.
type registryOps[T any] struct {
	list   func() []registry.Entry[T]
	add    func(T) (string, error)
	update func(string, T) error
	remove func(string) error
	clear  func()
}

func registerRegistry[T any](mux *http.ServeMux, h *handler, path string, ops registryOps[T]) {
	mux.HandleFunc("GET "+path, func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusOK, ops.list())
	})
	mux.HandleFunc("POST "+path, func(w http.ResponseWriter, r *http.Request) {
		var value T
		if err := decodeBody(r, &value); err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), r.URL.Path)
			return
		}
		id, err := ops.add(value)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), r.URL.Path)
			return
		}
		h.writeJSON(w, http.StatusCreated, registry.Entry[T]{ID: id, Value: value})
	})
	mux.HandleFunc("PUT "+path+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		var value T
		if err := decodeBody(r, &value); err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), r.URL.Path)
			return
		}
		id := r.PathValue("id")
		if err := ops.update(id, value); err != nil {
			h.respondError(w, statusFor(err), err.Error(), r.URL.Path)
			return
		}
		h.writeJSON(w, http.StatusOK, registry.Entry[T]{ID: id, Value: value})
	})
	mux.HandleFunc("DELETE "+path+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := ops.remove(r.PathValue("id")); err != nil {
			h.respondError(w, statusFor(err), err.Error(), r.URL.Path)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE "+path, func(w http.ResponseWriter, r *http.Request) {
		ops.clear()
		w.WriteHeader(http.StatusNoContent)
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

func (h *handler) handleGetParameters(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Parameters())
}

func (h *handler) handlePutParameters(w http.ResponseWriter, r *http.Request) {
	var params config.Parameters
	if err := decodeBody(r, &params); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), r.URL.Path)
		return
	}
	h.store.SetParameters(params)
	h.writeJSON(w, http.StatusOK, h.store.Parameters())
}

func (h *handler) handleClearAll(w http.ResponseWriter, r *http.Request) {
	h.store.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	scenario, ok := h.scenarioParam(w, r)
	if !ok {
		return
	}
	cashFlow, err := dre.BuildCashFlow(h.logger, h.store.Snapshot(), scenario, h.horizon)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), r.URL.Path)
		return
	}
	h.writeJSON(w, http.StatusOK, cashFlow)
}

func (h *handler) handleDRE(w http.ResponseWriter, r *http.Request) {
	scenario, ok := h.scenarioParam(w, r)
	if !ok {
		return
	}
	statement, err := dre.Build(h.logger, h.store.Snapshot(), scenario, h.horizon)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), r.URL.Path)
		return
	}
	h.writeJSON(w, http.StatusOK, statementResponse{
		Scenario: statement.Scenario,
		Years:    dre.YearLabels(h.horizon),
		Lines:    statement.Rows(),
	})
}

func (h *handler) handlePerCrop(w http.ResponseWriter, r *http.Request) {
	scenario, ok := h.scenarioParam(w, r)
	if !ok {
		return
	}
	perCrop, err := dre.BuildPerCrop(h.logger, h.store.Snapshot(), scenario, h.horizon)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), r.URL.Path)
		return
	}

	response := perCropResponse{
		Scenario: perCrop.Scenario,
		Years:    dre.YearLabels(h.horizon),
		ByCrop:   make(map[string][]dre.Row, len(perCrop.ByCrop)),
	}
	for crop, statement := range perCrop.ByCrop {
		response.ByCrop[crop] = statement.Rows()
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleIndicators(w http.ResponseWriter, r *http.Request) {
	scenario, ok := h.scenarioParam(w, r)
	if !ok {
		return
	}
	bundle, err := report.Assemble(h.logger, h.store.Snapshot(), h.horizon)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), r.URL.Path)
		return
	}
	set := bundle.Indicators[scenario]
	h.writeJSON(w, http.StatusOK, indicatorResponse{
		Scenario:         set.Scenario,
		Years:            dre.YearLabels(h.horizon),
		Rows:             sanitizeRows(set.Rows()),
		CAGRRevenuePct:   set.CAGRRevenuePct,
		CAGRNetProfitPct: set.CAGRNetProfitPct,
	})
}

func (h *handler) handleOpinion(w http.ResponseWriter, r *http.Request) {
	scenario, ok := h.scenarioParam(w, r)
	if !ok {
		return
	}
	bundle, err := report.Assemble(h.logger, h.store.Snapshot(), h.horizon)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), r.URL.Path)
		return
	}
	h.writeJSON(w, http.StatusOK, bundle.Opinions[scenario])
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	bundle, err := report.Assemble(h.logger, h.store.Snapshot(), h.horizon)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), r.URL.Path)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="plan-projection.xlsx"`)
	if err := bundle.WriteWorkbook(h.logger, w); err != nil {
		h.logger.Error("failed to stream workbook",
			zap.String("op", "server.handleExport"),
			zap.Error(err),
		)
		return
	}
	h.logger.Info("exported workbook",
		zap.String("op", "server.handleExport"),
		zap.Duration("duration", time.Since(start)),
	)
}

func (h *handler) handleImportExpenses(w http.ResponseWriter, r *http.Request) {
	file, ok := h.uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	expenses, importReport, err := report.ImportExpenses(h.logger, file)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), r.URL.Path)
		return
	}
	for _, expense := range expenses {
		if _, err := h.store.AddExpense(expense); err != nil {
			importReport.Skipped++
			importReport.Imported--
		}
	}
	h.writeJSON(w, http.StatusOK, importReport)
}

func (h *handler) handleImportLoans(w http.ResponseWriter, r *http.Request) {
	file, ok := h.uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	loans, importReport, err := report.ImportLoans(h.logger, file)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), r.URL.Path)
		return
	}
	for _, loan := range loans {
		if _, err := h.store.AddLoan(loan); err != nil {
			importReport.RowErrors = append(importReport.RowErrors, err.Error())
			importReport.Imported--
		}
	}
	h.writeJSON(w, http.StatusOK, importReport)
}

func (h *handler) uploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), r.URL.Path)
			return nil, false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), r.URL.Path)
		return nil, false
	}

	f, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing spreadsheet file", r.URL.Path)
		return nil, false
	}
	return f, true
}

type statementResponse struct {
	Scenario dre.Scenario `json:"scenario"`
	Years    []string     `json:"years"`
	Lines    []dre.Row    `json:"lines"`
}

type perCropResponse struct {
	Scenario dre.Scenario         `json:"scenario"`
	Years    []string             `json:"years"`
	ByCrop   map[string][]dre.Row `json:"byCrop"`
}

type indicatorResponse struct {
	Scenario         dre.Scenario `json:"scenario"`
	Years            []string     `json:"years"`
	Rows             []dre.Row    `json:"rows"`
	CAGRRevenuePct   float64      `json:"cagrRevenuePct"`
	CAGRNetProfitPct float64      `json:"cagrNetProfitPct"`
}

// sanitizeRows replaces infinities with a large sentinel so the payload
// stays valid JSON.
func sanitizeRows(rows []dre.Row) []dre.Row {
	out := make([]dre.Row, len(rows))
	for i, row := range rows {
		values := make([]float64, len(row.Values))
		for j, v := range row.Values {
			switch {
			case math.IsInf(v, 1) || math.IsNaN(v) || v > jsonMaxValue:
				values[j] = jsonMaxValue
			case math.IsInf(v, -1) || v < -jsonMaxValue:
				values[j] = -jsonMaxValue
			default:
				values[j] = v
			}
		}
		out[i] = dre.Row{Name: row.Name, Values: values}
	}
	return out
}

const jsonMaxValue = 1e15

func (h *handler) scenarioParam(w http.ResponseWriter, r *http.Request) (dre.Scenario, bool) {
	scenario, err := dre.ParseScenario(r.URL.Query().Get("scenario"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), r.URL.Path)
		return "", false
	}
	return scenario, true
}

func decodeBody(r *http.Request, target interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, projection.ErrInsufficientPlantingData):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
