package reasoning

import "time"

// Thought submission outcomes as metric label values.
const (
	submissionAccepted = "accepted"
	submissionRejected = "rejected"
)

// MetricsRecorder records hub runtime metrics.
type MetricsRecorder interface {
	RecordThoughtSubmission(status string)
	RecordThoughtRejection(kind string)
	RecordSubmitDuration(duration time.Duration)
	SetHistorySize(size float64)
	SetBranchCount(count float64)
	RecordSuggestion(strategy string, duration time.Duration)
	RecordOutcomeRecorded()
	SetTreeSize(nodes, maxDepth float64)
	RecordCleanupRun(sweeper string, duration time.Duration)
	RecordBranchesPruned(count int)
	RecordSessionsExpired(count int)
	SetActiveSessions(count float64)
}

type nopMetricsRecorder struct{}

func (n *nopMetricsRecorder) RecordThoughtSubmission(status string)                    {}
func (n *nopMetricsRecorder) RecordThoughtRejection(kind string)                       {}
func (n *nopMetricsRecorder) RecordSubmitDuration(duration time.Duration)              {}
func (n *nopMetricsRecorder) SetHistorySize(size float64)                              {}
func (n *nopMetricsRecorder) SetBranchCount(count float64)                             {}
func (n *nopMetricsRecorder) RecordSuggestion(strategy string, duration time.Duration) {}
func (n *nopMetricsRecorder) RecordOutcomeRecorded()                                   {}
func (n *nopMetricsRecorder) SetTreeSize(nodes, maxDepth float64)                      {}
func (n *nopMetricsRecorder) RecordCleanupRun(sweeper string, duration time.Duration)  {}
func (n *nopMetricsRecorder) RecordBranchesPruned(count int)                           {}
func (n *nopMetricsRecorder) RecordSessionsExpired(count int)                          {}
func (n *nopMetricsRecorder) SetActiveSessions(count float64)                          {}
