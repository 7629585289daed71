package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManagerRegistersOnCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(WithPrometheusRegistry(reg), WithNamespace("test"), WithSubsystem("metrics"))
	if m == nil {
		t.Fatal("manager is nil")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	// Counters without observations do not appear until used; vecs need labels.
	// Gauges register immediately, so the registry must not be empty.
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}
}

func TestGlobalHelpersDoNotPanic(t *testing.T) {
	RecordResolution("high")
	RecordCoverageFallback()
	RecordResolutionError()
	RecordSampleSucceeded()
	RecordSampleFailed()
	RecordSeekLatency(12.5)
	RecordDetectorLatency(80)
	RecordDetectorError()
	RecordTrackBuilt(120)
	RecordTrackDegraded()
	RecordInterpolationDuration(3)
	UpdateQueueSize(1)
	UpdateQueueCapacity(100)
	UpdateQueueUtilization(0.01)
	RecordQueueEnqueue()
	RecordQueueDequeue()
	RecordQueueEnqueueError()
	UpdateWorkerActiveCount(4)
	RecordWorkerJobLatency(250)
	RecordWorkerError()
	RecordReplayJobCompleted()
	RecordHTTPRequest("replays", "POST", "202")
	RecordHTTPRequestDuration("replays", "POST", "202", 1.2)
	RecordErrorByComponent("sampler", "detector_error")
	UpdateSystemMemoryUsage(1 << 20)
	UpdateSystemGoroutineCount(10)

	if GetRegistry() == nil {
		t.Fatal("registry is nil")
	}
}
