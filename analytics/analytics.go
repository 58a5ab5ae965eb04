package analytics

import (
	"sync"
	"time"

	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/util"
)

type DataCollectorConfig struct {
	FileName      string
	CollectorType DataCollectorType
	BufferSize    int
}

type DataCollectorType string

const LOG_FILE_DATA_COLLECTOR DataCollectorType = "LOG_FILE_DATA_COLLECTOR"
const NOOP_DATA_COLLECTOR DataCollectorType = "NOOP_DATA_COLLECTOR"

// AssignmentEvent is one answered assignment request.
type AssignmentEvent struct {
	OrganizationId string
	ExperimentId   string
	UserId         string
	VariantId      string
	Environment    model.Environment
	Cached         bool
	At             time.Time
}

type AssignmentDataCollector interface {
	RecordAssignment(event AssignmentEvent)
}

type noopCollector struct{}

func (noopCollector) RecordAssignment(AssignmentEvent) {}

func NewDataCollector(config DataCollectorConfig) (AssignmentDataCollector, error) {
	switch config.CollectorType {
	case LOG_FILE_DATA_COLLECTOR:
		return NewLogFileDataCollector(config.FileName)
	}
	return noopCollector{}, nil
}

// Recorder hands events to the collector on a worker goroutine so that
// writing them never delays a response.
type Recorder struct {
	worker *util.Worker
}

func NewRecorder(collector AssignmentDataCollector, bufferSize int, wg *sync.WaitGroup) *Recorder {
	handler := func(task util.Task) error {
		if event, ok := task.(AssignmentEvent); ok {
			collector.RecordAssignment(event)
		}
		return nil
	}
	return &Recorder{worker: util.NewWorker("analytics", wg, handler, bufferSize)}
}

func (r *Recorder) Start() {
	r.worker.Start()
}

func (r *Recorder) Stop() error {
	r.worker.Stop()
	return nil
}

// Record reports false when the event was dropped because the buffer is full.
func (r *Recorder) Record(event AssignmentEvent) bool {
	if r == nil {
		return false
	}
	return r.worker.Submit(event)
}
