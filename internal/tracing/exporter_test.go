package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
	}
	return n
}

func TestNewFileExporter_CreatesParentDirectories(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "nested", "dir", "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	_, err = os.Stat(tracePath)
	require.NoError(t, err, "trace file should be created with parent dirs")
	require.NoError(t, exporter.Shutdown(context.Background()))
}

func TestNewFileExporter_Appends(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	require.NoError(t, os.WriteFile(tracePath, []byte(`{"existing": "data"}`+"\n"), 0644))

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	stub := tracetest.SpanStub{
		Name:      "command.indent",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(10 * time.Millisecond),
	}
	require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exporter.Shutdown(context.Background()))

	require.Equal(t, 2, countLines(t, tracePath))
}

func TestFileExporter_Record(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	start := time.Now()
	stub := tracetest.SpanStub{
		Name:      "command.reindent",
		StartTime: start,
		EndTime:   start.Add(100 * time.Millisecond),
		Status:    sdktrace.Status{Code: codes.Error, Description: "boom"},
		Attributes: []attribute.KeyValue{
			attribute.String(AttrFile, "main.cpp"),
			attribute.Int(AttrLines, 42),
		},
		Events: []sdktrace.Event{{
			Name:       EventIndentRule,
			Time:       start.Add(20 * time.Millisecond),
			Attributes: []attribute.KeyValue{attribute.String(AttrRule, "macro")},
		}},
	}
	require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exporter.Shutdown(context.Background()))

	f, err := os.Open(tracePath)
	require.NoError(t, err)
	defer f.Close()

	var rec SpanRecord
	require.NoError(t, json.NewDecoder(f).Decode(&rec))

	require.Equal(t, "command.reindent", rec.Name)
	require.Equal(t, "ERROR", rec.Status)
	require.Equal(t, "boom", rec.Error)
	require.InDelta(t, 100.0, rec.DurationMs, 0.001)
	require.Equal(t, "main.cpp", rec.Attributes[AttrFile])
	require.EqualValues(t, 42, rec.Attributes[AttrLines])
	require.Len(t, rec.Events, 1)
	require.Equal(t, "macro", rec.Events[0].Attributes[AttrRule])
	require.InDelta(t, 20.0, rec.Events[0].OffsetMs, 0.001)
}

func TestFileExporter_AfterShutdown(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "t.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))

	stub := tracetest.SpanStub{Name: "late"}
	err = exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()})
	require.Error(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))
}

func TestFileExporter_ConcurrentExports(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				stub := tracetest.SpanStub{Name: "span", StartTime: time.Now(), EndTime: time.Now()}
				_ = exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, exporter.Shutdown(context.Background()))

	require.Equal(t, 200, countLines(t, tracePath))
}
