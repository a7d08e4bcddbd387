package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the activity module.
type Metrics struct {
	// Submission outcomes by result and category
	SubmissionOutcome *prometheus.CounterVec

	// Check latencies by check name
	CheckLatency *prometheus.HistogramVec

	// Fraud score distribution for accepted and rejected submissions
	FraudScore prometheus.Histogram

	// Credits awarded per verified submission
	CreditsAwarded prometheus.Histogram

	// Overall pipeline latency
	SubmitLatency prometheus.Histogram
}

// New creates a new Metrics instance with all activity module metrics registered.
func New() *Metrics {
	return &Metrics{
		SubmissionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agrilog_activity_submissions_total",
			Help: "Total activity submissions by outcome and category",
		}, []string{"outcome", "category"}), // outcome: "verified", "flagged", "rejected"

		CheckLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agrilog_activity_check_duration_seconds",
			Help:    "Duration of individual verification checks by name",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"check"}), // check: "geo", "frequency", "pattern"

		FraudScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agrilog_activity_fraud_score",
			Help:    "Aggregated fraud score per submission",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 85, 100},
		}),

		CreditsAwarded: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agrilog_activity_credits_awarded",
			Help:    "Credits awarded per accepted submission",
			Buckets: []float64{5, 25, 50, 75, 100, 150, 200, 300},
		}),

		SubmitLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agrilog_activity_submit_duration_seconds",
			Help:    "Duration of full submission processing including external calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementOutcome records a submission outcome.
func (m *Metrics) IncrementOutcome(outcome, category string) {
	if m != nil {
		m.SubmissionOutcome.WithLabelValues(outcome, category).Inc()
	}
}

// ObserveCheckLatency records the duration of one verification check.
func (m *Metrics) ObserveCheckLatency(check string, d time.Duration) {
	if m != nil {
		m.CheckLatency.WithLabelValues(check).Observe(d.Seconds())
	}
}

// ObserveFraudScore records the aggregated fraud score of a submission.
func (m *Metrics) ObserveFraudScore(score int) {
	if m != nil {
		m.FraudScore.Observe(float64(score))
	}
}

// ObserveCreditsAwarded records the credits granted for a submission.
func (m *Metrics) ObserveCreditsAwarded(credits int) {
	if m != nil {
		m.CreditsAwarded.Observe(float64(credits))
	}
}

// ObserveSubmitLatency records the total submission processing duration.
func (m *Metrics) ObserveSubmitLatency(d time.Duration) {
	if m != nil {
		m.SubmitLatency.Observe(d.Seconds())
	}
}
