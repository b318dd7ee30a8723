package httpx

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DevOpsVX/volxo-backend/internal/engine"
	"github.com/DevOpsVX/volxo-backend/internal/models"
	"github.com/DevOpsVX/volxo-backend/internal/refine"
	"github.com/DevOpsVX/volxo-backend/internal/store"
	"github.com/DevOpsVX/volxo-backend/internal/telemetry"
	"github.com/DevOpsVX/volxo-backend/internal/utils"
)

// Deps is everything the router needs, built once in main.
type Deps struct {
	Log      *slog.Logger
	Engine   *engine.Engine
	Store    *store.MemoryStore
	Refiner  *refine.Refiner
	Metrics  *telemetry.Metrics
	Registry *prometheus.Registry

	MaxUploadBytes int64
}

func NewRouter(d Deps) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	mux.Post("/api/report", func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, d.MaxUploadBytes)

		in, err := parseRequest(r)
		if err != nil {
			// the one user-visible failure: a top-level payload that is not
			// structurally parseable
			http.Error(w, "malformed request: "+err.Error(), http.StatusBadRequest)
			return
		}

		start := time.Now()
		res := d.Engine.Run(in)
		d.Metrics.ReportDuration.Observe(time.Since(start).Seconds())
		d.Metrics.ReportsTotal.Inc()
		countFiles(d.Metrics, in.Files)
		for _, n := range res.Notes {
			if strings.Contains(n, engine.NoteUndecodable) {
				d.Metrics.DecodeFailures.Inc()
			}
		}

		if polished, err := d.Refiner.Polish(r.Context(), res.Narrative); err == nil {
			res.Narrative = polished
		}

		id := uuid.NewString()
		d.Store.Put(id, res)
		writeJSON(w, map[string]any{"id": id, "report": res})
	})

	mux.Get("/api/report/{id}", func(w http.ResponseWriter, r *http.Request) {
		res, ok := d.Store.Get(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		writeJSON(w, res)
	})

	return mux
}

// parseRequest accepts either a JSON EngineInput body or a multipart form
// with an optional "payload" JSON field plus file parts. Anything parseable
// at the top level produces an input; the engine degrades from there.
func parseRequest(r *http.Request) (models.EngineInput, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return parseMultipart(r)
	}

	var in models.EngineInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return models.EngineInput{}, err
	}
	return in, nil
}

func parseMultipart(r *http.Request) (models.EngineInput, error) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		return models.EngineInput{}, err
	}

	var in models.EngineInput
	if raw := r.FormValue("payload"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in); err != nil {
			return models.EngineInput{}, err
		}
	}
	in.Brand = firstNonEmpty(r.FormValue("brand"), in.Brand)
	in.Channel = firstNonEmpty(r.FormValue("channel"), in.Channel)
	in.Period = firstNonEmpty(r.FormValue("period"), in.Period)
	in.Observations = firstNonEmpty(r.FormValue("observations"), in.Observations)

	if r.MultipartForm != nil {
		for _, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				b, err := readPart(fh)
				if err != nil {
					return models.EngineInput{}, err
				}
				in.Files = append(in.Files, models.FileInput{Name: fh.Filename, Bytes: b})
			}
		}
	}
	return in, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func countFiles(m *telemetry.Metrics, files []models.FileInput) {
	for _, f := range files {
		m.FilesTotal.WithLabelValues(string(engine.Classify(f.Name))).Inc()
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
