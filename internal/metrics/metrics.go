package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cerdas", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "status"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cerdas", Name: "handler_errors_total", Help: "Handler errors",
	})
	GamesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cerdas", Name: "games_completed_total", Help: "Completed game sessions",
	})
	AchievementsAwarded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cerdas", Name: "achievements_awarded_total", Help: "Achievements awarded to students",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cerdas", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HandlerErrors, GamesCompleted, AchievementsAwarded, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
