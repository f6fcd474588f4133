package http

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once
	metricsErr  error

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	// Domain metrics
	wsConnections       prometheus.Gauge
	emailDispatchTotal  *prometheus.CounterVec
	csrfChecksTotal     *prometheus.CounterVec
	verificationDenials *prometheus.CounterVec
)

// RegisterMetrics inicializa las métricas y devuelve el handler para /metrics.
func RegisterMetrics(registry prometheus.Registerer) (http.Handler, error) {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"})

		wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ws_connections",
			Help: "Conexiones websocket establecidas",
		})

		emailDispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "email_dispatch_total",
			Help: "Despachos de correo por kind y resultado",
		}, []string{"kind", "result"}) // result: sent|connect_failed|rejected|error

		csrfChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "csrf_checks_total",
			Help: "Checks CSRF por resultado",
		}, []string{"result"}) // result: ok|missing|mismatch|error

		verificationDenials = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verification_denials_total",
			Help: "Operaciones negadas por cuenta sin verificar, por transporte",
		}, []string{"transport"}) // transport: request|connection

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration, httpInflight,
			wsConnections, emailDispatchTotal, csrfChecksTotal, verificationDenials,
		} {
			if err := registerCollector(registry, c); err != nil {
				metricsErr = err
				return
			}
		}
	})
	if metricsErr != nil {
		return nil, metricsErr
	}

	// El handler expone el gatherer del mismo registry donde se registraron
	// los collectors; con un registry propio, el global no los tiene.
	if g, ok := registry.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(g, promhttp.HandlerOpts{}), nil
	}
	return promhttp.Handler(), nil
}

// WithMetrics instrumenta requests HTTP con métricas Prometheus (contadores, latencia, inflight).
func WithMetrics(next http.Handler) http.Handler {
	if next == nil {
		return nil
	}
	if httpRequestsTotal == nil || httpRequestDuration == nil || httpInflight == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.ToUpper(r.Method)
		pathLabel := normalizePath(r.URL.Path)

		httpInflight.WithLabelValues(method, pathLabel).Inc()
		start := time.Now()

		rec := &metricsRecorder{ResponseWriter: w}
		defer func() {
			httpInflight.WithLabelValues(method, pathLabel).Dec()
			httpRequestDuration.WithLabelValues(method, pathLabel).Observe(time.Since(start).Seconds())

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			httpRequestsTotal.WithLabelValues(method, pathLabel, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

type metricsRecorder struct {
	http.ResponseWriter
	status int
}

// Unwrap habilita http.ResponseController (hijack del upgrade websocket).
func (m *metricsRecorder) Unwrap() http.ResponseWriter {
	return m.ResponseWriter
}

func (m *metricsRecorder) WriteHeader(code int) {
	if m.status == 0 {
		m.status = code
	}
	m.ResponseWriter.WriteHeader(code)
}

// registerCollector registra el collector en el registry indicado, ignorando duplicados.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// RecordWSConnection ajusta el gauge de conexiones websocket (+1/-1).
func RecordWSConnection(delta int) {
	if wsConnections == nil {
		return
	}
	if delta >= 0 {
		wsConnections.Add(float64(delta))
	} else {
		wsConnections.Sub(float64(-delta))
	}
}

// RecordEmailDispatch registra el resultado de un despacho de correo.
func RecordEmailDispatch(kind, result string) {
	if emailDispatchTotal != nil {
		emailDispatchTotal.WithLabelValues(kind, result).Inc()
	}
}

// RecordCSRFCheck registra el resultado de un check CSRF.
func RecordCSRFCheck(result string) {
	if csrfChecksTotal != nil {
		csrfChecksTotal.WithLabelValues(result).Inc()
	}
}

// RecordVerificationDenial registra una negación por cuenta sin verificar.
func RecordVerificationDenial(transport string) {
	if verificationDenials != nil {
		verificationDenials.WithLabelValues(transport).Inc()
	}
}

var (
	uuidSegmentRE  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F-]{4}-[0-9a-fA-F-]{4,}$`)
	hexSegmentRE   = regexp.MustCompile(`^[0-9a-fA-F]{16,}$`)
	tokenSegmentRE = regexp.MustCompile(`^[A-Za-z0-9_-]{24,}$`)
)

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	clean := strings.SplitN(p, "?", 2)[0]
	if clean == "" {
		return "/"
	}
	if !strings.HasPrefix(clean, "/") {
		clean = "/" + clean
	}

	segments := strings.Split(clean, "/")
	var out []string
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if isDynamicSegment(seg) {
			out = append(out, ":param")
		} else {
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

func isDynamicSegment(seg string) bool {
	if len(seg) > 48 {
		return true
	}
	if uuidSegmentRE.MatchString(seg) {
		return true
	}
	if hexSegmentRE.MatchString(seg) {
		return true
	}
	if tokenSegmentRE.MatchString(seg) {
		return true
	}
	if _, err := strconv.Atoi(seg); err == nil {
		return true
	}
	return false
}
