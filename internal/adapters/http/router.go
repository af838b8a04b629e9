package httpadapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/corpagent/adgm-compliance/internal/analysis/report"
	"github.com/corpagent/adgm-compliance/internal/config"
	"github.com/corpagent/adgm-compliance/internal/core/ports"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/export/excel"
	"github.com/corpagent/adgm-compliance/internal/observability/metrics"
)

const backpressureMaxWait = 250 * time.Millisecond

type Router struct {
	cfg     config.Config
	ingest  ports.DocumentIngestor
	docs    ports.DocumentReader
	batches ports.BatchReporter
	search  ports.KnowledgeSearcher

	metrics *metrics.HTTPServerMetrics
	service string
}

func NewRouter(
	cfg config.Config,
	ingest ports.DocumentIngestor,
	docs ports.DocumentReader,
	batches ports.BatchReporter,
	search ports.KnowledgeSearcher,
) *Router {
	return &Router{
		cfg:     cfg,
		ingest:  ingest,
		docs:    docs,
		batches: batches,
		search:  search,
	}
}

// WithMetrics attaches request and domain counters. Without it the router
// serves traffic unmetered.
func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics, service string) *Router {
	rt.metrics = m
	rt.service = service
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.documentByID)
	mux.HandleFunc("/v1/batches", rt.createBatch)
	mux.HandleFunc("/v1/batches/", rt.batchReport)
	mux.HandleFunc("/v1/knowledge/search", rt.searchKnowledge)

	var handler http.Handler = mux
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, backpressureMaxWait)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

// documentByID serves /v1/documents/{id} and /v1/documents/{id}/analysis.
func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch sub {
	case "":
		doc, err := rt.docs.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case "analysis":
		analysis, err := rt.docs.GetAnalysis(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, analysis)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown document resource"})
	}
}

func (rt *Router) createBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		DocumentIDs []string `json:"document_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	batch, err := rt.batches.CreateBatch(r.Context(), req.DocumentIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, batch)
}

// batchReport serves /v1/batches/{id}/report and its .csv/.xlsx exports.
// POST builds and persists the report, GET returns the stored one.
func (rt *Router) batchReport(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/batches/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "batch id is required"})
		return
	}

	switch sub {
	case "report":
		switch r.Method {
		case http.MethodPost:
			built, err := rt.batches.BuildReport(r.Context(), id)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, built)
		case http.MethodGet:
			stored, err := rt.batches.StoredReport(r.Context(), id)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, stored)
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		}
	case "report.csv":
		rt.exportReportCSV(w, r, id)
	case "report.xlsx":
		rt.exportReportXLSX(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown batch resource"})
	}
}

func (rt *Router) exportReportCSV(w http.ResponseWriter, r *http.Request, batchID string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	stored, err := rt.batches.StoredReport(r.Context(), batchID)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, *stored); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", exportFilename(batchID, "csv"))
	_, _ = w.Write(buf.Bytes())
	if rt.metrics != nil {
		rt.metrics.RecordReportExport(rt.service, "csv")
	}
}

func (rt *Router) exportReportXLSX(w http.ResponseWriter, r *http.Request, batchID string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	stored, err := rt.batches.StoredReport(r.Context(), batchID)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.Write(&buf, *stored); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", exportFilename(batchID, "xlsx"))
	_, _ = w.Write(buf.Bytes())
	if rt.metrics != nil {
		rt.metrics.RecordReportExport(rt.service, "xlsx")
	}
}

func exportFilename(batchID, extension string) string {
	return fmt.Sprintf("attachment; filename=%q", "compliance_report_"+batchID+"."+extension)
}

func (rt *Router) searchKnowledge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	passages, err := rt.search.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordKnowledgeSearch(rt.service, len(passages))
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": passages})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
