package analytics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mohitkumar/screenflow/model"
	"github.com/stretchr/testify/require"
)

func TestRecorderWritesLogFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "assignments.log")
	collector, err := NewDataCollector(DataCollectorConfig{FileName: file, CollectorType: LOG_FILE_DATA_COLLECTOR})
	require.NoError(t, err)

	var wg sync.WaitGroup
	rec := NewRecorder(collector, 8, &wg)
	rec.Start()
	require.True(t, rec.Record(AssignmentEvent{
		OrganizationId: "org-1", ExperimentId: "exp-1", UserId: "u-1",
		VariantId: "control", Environment: model.ENVIRONMENT_TEST, At: time.Now(),
	}))
	require.NoError(t, rec.Stop())
	wg.Wait()
	require.NoError(t, collector.(*LogFileDataCollector).Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "assignment", entry["msg"])
	require.Equal(t, "control", entry["variant"])
	require.Equal(t, "test", entry["environment"])
}

func TestNoopCollector(t *testing.T) {
	c, err := NewDataCollector(DataCollectorConfig{})
	require.NoError(t, err)
	c.RecordAssignment(AssignmentEvent{})

	var rec *Recorder
	require.False(t, rec.Record(AssignmentEvent{}))
}
