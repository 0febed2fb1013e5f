package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bighogz/gainplot/internal/cache"
	"github.com/bighogz/gainplot/internal/config"
	"github.com/bighogz/gainplot/internal/dashboard"
	"github.com/bighogz/gainplot/internal/metrics"
	"github.com/bighogz/gainplot/internal/render"
	"github.com/bighogz/gainplot/internal/telemetry"
)

func init() {
	godotenv.Load(".env")
}

func main() {
	setupLogging()

	shutdownTracing, err := telemetry.Setup(config.Trace, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("tracing setup failed")
	}

	reg := prometheus.NewRegistry()
	s := newServer(reg)
	srv := &http.Server{
		Addr:         net.JoinHostPort(config.Host, config.Port),
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("gainplot listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Error().Err(err).Msg("trace flush failed")
	}
}

func setupLogging() {
	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(config.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !config.LogJSON {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

type server struct {
	metrics  *metrics.Registry
	gatherer prometheus.Gatherer
	charts   *cache.Cache
	limiter  *rateLimiter
	opts     render.Options
	defaultX string
	defaultY string
}

func newServer(reg *prometheus.Registry) *server {
	return &server{
		metrics:  metrics.New(reg),
		gatherer: reg,
		charts:   cache.New(config.CacheSize, time.Duration(config.CacheTTLSeconds)*time.Second),
		limiter:  newRateLimiter(config.ChartRPS, config.ChartBurst),
		opts:     render.Options{Width: config.ChartWidth, Height: config.ChartHeight},
		defaultX: config.DefaultX,
		defaultY: config.DefaultY,
	}
}

func (s *server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, requestLogging, securityHeaders)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/chart.{format:png|svg}", s.limiter.middleware(s.handleChart)).Methods(http.MethodGet)
	r.HandleFunc("/api/analyze", s.handleAnalyze).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/api/health", handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	return r
}

// inputs reads x and y from the query, falling back to the configured
// defaults only when a parameter is absent.
func (s *server) inputs(r *http.Request) (string, string) {
	q := r.URL.Query()
	x, y := s.defaultX, s.defaultY
	if q.Has("x") {
		x = q.Get("x")
	}
	if q.Has("y") {
		y = q.Get("y")
	}
	return x, y
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	x, y := s.inputs(r)
	v := dashboard.Build(r.Context(), dashboard.BuildOpts{X: x, Y: y, Metrics: s.metrics})
	var buf bytes.Buffer
	if err := dashboard.WriteHTML(&buf, v); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	format := render.Format(mux.Vars(r)["format"])
	x, y := s.inputs(r)
	v := dashboard.Build(r.Context(), dashboard.BuildOpts{X: x, Y: y, Metrics: s.metrics})
	if !v.OK() {
		http.Error(w, v.Message, http.StatusUnprocessableEntity)
		return
	}

	key := cache.Key(string(format), strconv.Itoa(s.opts.Width), strconv.Itoa(s.opts.Height), joinFloats(v.Input.X), joinFloats(v.Input.Y))
	body, hit := s.charts.Read(key)
	s.metrics.ObserveCache(string(format), hit)
	if !hit {
		var buf bytes.Buffer
		start := time.Now()
		if err := render.Chart(r.Context(), &buf, format, v.Input, *v.Result, s.opts); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Str("format", string(format)).Msg("render chart")
			http.Error(w, "Could not render chart", http.StatusInternalServerError)
			return
		}
		s.metrics.ObserveRender(string(format), time.Since(start).Seconds())
		body = buf.Bytes()
		s.charts.Write(key, body)
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "private, max-age=60")
	if t := s.charts.CachedAt(key); t != nil {
		w.Header().Set("Last-Modified", t.UTC().Format(http.TimeFormat))
	}
	w.Write(body)
}

type analyzeRequest struct {
	X string `json:"x"`
	Y string `json:"y"`
}

type analyzeResponse struct {
	dashboard.View
	ChartURL string `json:"chart_url,omitempty"`
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	x, y := s.inputs(r)
	if r.Method == http.MethodPost {
		var req analyzeRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid JSON body"})
			return
		}
		x, y = req.X, req.Y
	}
	v := dashboard.Build(r.Context(), dashboard.BuildOpts{X: x, Y: y, Metrics: s.metrics})
	resp := analyzeResponse{View: v}
	if v.OK() {
		resp.ChartURL = v.ChartURL(render.PNG)
	}
	jsonResponse(w, r, resp)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, r, map[string]string{"status": "ok"})
}

func jsonResponse(w http.ResponseWriter, r *http.Request, v interface{}) {
	var buf bytes.Buffer
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("encode JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}` + "\n"))
		return
	}
	w.Write(buf.Bytes())
}

func joinFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
