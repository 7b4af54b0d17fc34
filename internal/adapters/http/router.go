package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
	"github.com/syllabussync/syllabus-sync/internal/core/ports"
	"github.com/syllabussync/syllabus-sync/internal/core/usecase"
	"github.com/syllabussync/syllabus-sync/internal/infrastructure/export/excel"
	"github.com/syllabussync/syllabus-sync/internal/observability/metrics"
)

const serviceName = "api"

// maxUploadBytes bounds the in-memory portion of a multipart parse request.
const maxUploadBytes = 64 << 20

type Router struct {
	parser    ports.SyllabusParser
	estimator ports.ScheduleEstimator
	narration ports.NarrationService
	repo      ports.SyllabusRepository
	storage   ports.ObjectStorage
	verifier  ports.TokenVerifier
	metrics   *metrics.HTTPServerMetrics
	log       *slog.Logger

	scheduleCfg      usecase.ScheduleConfig
	geminiConfigured bool
}

func NewRouter(
	parser ports.SyllabusParser,
	estimator ports.ScheduleEstimator,
	narration ports.NarrationService,
	repo ports.SyllabusRepository,
	storage ports.ObjectStorage,
	verifier ports.TokenVerifier,
	m *metrics.HTTPServerMetrics,
	log *slog.Logger,
	scheduleCfg usecase.ScheduleConfig,
	geminiConfigured bool,
) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		parser:           parser,
		estimator:        estimator,
		narration:        narration,
		repo:             repo,
		storage:          storage,
		verifier:         verifier,
		metrics:          m,
		log:              log,
		scheduleCfg:      scheduleCfg,
		geminiConfigured: geminiConfigured,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/syllabi/parse", rt.parseSyllabi)
	mux.HandleFunc("/v1/syllabi/deadlines", rt.scanDeadlines)
	mux.HandleFunc("/v1/syllabi", rt.listSyllabi)
	mux.HandleFunc("/v1/syllabi/", rt.syllabusSubtree)
	mux.HandleFunc("/v1/schedule/estimate", rt.estimateSchedule)
	mux.HandleFunc("/v1/schedule/export", rt.exportSchedule)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = rt.authMiddleware(handler)
	handler = accessLogMiddleware(rt.log, handler)
	handler = requestIDMiddleware(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"gemini_configured": rt.geminiConfigured,
	})
}

func (rt *Router) parseSyllabi(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	uploads, cleanup, err := readUploads(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cleanup()

	start := time.Now()
	result, err := rt.parser.ParseFiles(r.Context(), ownerFromContext(r.Context()), uploads, optimizeFlag(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordParse(serviceName, "parse", result.Stats, time.Since(start))
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) scanDeadlines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	uploads, cleanup, err := readUploads(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cleanup()

	deadlines, err := rt.parser.ScanDeadlines(r.Context(), uploads)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deadlines": deadlines})
}

func (rt *Router) estimateSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	uploads, cleanup, err := readUploads(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cleanup()

	start := time.Now()
	result, err := rt.estimator.Estimate(r.Context(), ownerFromContext(r.Context()), uploads, optimizeFlag(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordParse(serviceName, "estimate", result.Stats, time.Since(start))
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) listSyllabi(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	records, err := rt.repo.ListByOwner(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"syllabi": records})
}

// syllabusSubtree dispatches /v1/syllabi/{id}, /v1/syllabi/{id}/narrate,
// and /v1/syllabi/{id}/audio.
func (rt *Router) syllabusSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/syllabi/")
	switch {
	case strings.HasSuffix(rest, "/narrate"):
		rt.requestNarration(w, r, strings.TrimSuffix(rest, "/narrate"))
	case strings.HasSuffix(rest, "/audio"):
		rt.serveAudio(w, r, strings.TrimSuffix(rest, "/audio"))
	default:
		rt.getSyllabus(w, r, rest)
	}
}

func (rt *Router) getSyllabus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "syllabus id is required"})
		return
	}

	rec, err := rt.ownedSyllabus(r, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (rt *Router) requestNarration(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := rt.narration.RequestNarration(r.Context(), ownerFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "enqueued", "syllabus_id": id})
}

func (rt *Router) serveAudio(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rec, err := rt.ownedSyllabus(r, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if rec.AudioPath == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "narration audio not generated yet"})
		return
	}

	audio, err := rt.storage.Open(r.Context(), rec.AudioPath)
	if err != nil {
		writeError(w, err)
		return
	}
	defer audio.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, audio)
}

func (rt *Router) exportSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	records, err := rt.repo.ListByOwner(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	courses := make([]domain.CourseRecord, 0, len(records))
	for _, rec := range records {
		courses = append(courses, rec.Course)
	}
	plan := usecase.BuildSchedulePlan(courses, rt.scheduleCfg)

	buf, err := excel.BuildWorkbook(plan)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="study_schedule.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, buf)
}

// ownedSyllabus loads a record and hides other owners' records behind the
// not-found error.
func (rt *Router) ownedSyllabus(r *http.Request, id string) (*domain.SyllabusRecord, error) {
	rec, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if rec.OwnerID != ownerFromContext(r.Context()) {
		return nil, domain.WrapError(domain.ErrSyllabusNotFound, "get syllabus", fmt.Errorf("%s not owned by caller", id))
	}
	return rec, nil
}

func optimizeFlag(r *http.Request) bool {
	return r.URL.Query().Get("optimize") == "true"
}

// readUploads pulls the multipart files[] field into upload descriptors.
// The returned cleanup closes every opened part.
func readUploads(r *http.Request) ([]ports.Upload, func(), error) {
	noop := func() {}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, noop, domain.WrapError(domain.ErrInvalidInput, "parse multipart", err)
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		return nil, noop, domain.WrapError(
			domain.ErrInvalidInput,
			"parse multipart",
			fmt.Errorf("multipart field 'files' is required"),
		)
	}

	uploads := make([]ports.Upload, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	cleanup := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			cleanup()
			return nil, noop, domain.WrapError(domain.ErrInvalidInput, "open upload", err)
		}
		closers = append(closers, f)
		uploads = append(uploads, ports.Upload{Filename: h.Filename, Body: f})
	}
	return uploads, cleanup, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
