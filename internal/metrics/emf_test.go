package metrics

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

// captureOutput redirects Flush output into a buffer for the duration of the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })
	return &buf
}

func TestRecorder_FlushOutput(t *testing.T) {
	buf := captureOutput(t)

	rec := New("PhotoEdit")
	rec.Dimension("Operation", "EditImage")
	rec.Metric("EditImageMs", 1234.5, UnitMilliseconds)
	rec.Metric("EditImageResult", 1, UnitCount)
	rec.Property("model", "gemini-2.5-flash-image")
	rec.Flush()

	output := buf.String()
	if strings.Count(output, "\n") != 1 {
		t.Fatalf("expected exactly one line, got %q", output)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		t.Fatalf("failed to parse EMF output as JSON: %v\nOutput: %s", err, output)
	}

	awsMap, ok := doc["_aws"].(map[string]interface{})
	if !ok {
		t.Fatal("missing _aws directive in EMF output")
	}
	if _, ok := awsMap["Timestamp"]; !ok {
		t.Error("missing Timestamp in _aws directive")
	}

	cwArr, ok := awsMap["CloudWatchMetrics"].([]interface{})
	if !ok || len(cwArr) == 0 {
		t.Fatal("CloudWatchMetrics should be a non-empty array")
	}
	cw := cwArr[0].(map[string]interface{})
	if cw["Namespace"] != "PhotoEdit" {
		t.Errorf("expected namespace PhotoEdit, got %v", cw["Namespace"])
	}

	if doc["Operation"] != "EditImage" {
		t.Errorf("expected Operation=EditImage, got %v", doc["Operation"])
	}
	if doc["EditImageMs"] != 1234.5 {
		t.Errorf("expected EditImageMs=1234.5, got %v", doc["EditImageMs"])
	}
	if doc["EditImageResult"] != float64(1) {
		t.Errorf("expected EditImageResult=1, got %v", doc["EditImageResult"])
	}
	if doc["model"] != "gemini-2.5-flash-image" {
		t.Errorf("expected model property, got %v", doc["model"])
	}
}

func TestRecorder_FlushEmpty(t *testing.T) {
	buf := captureOutput(t)

	New("Test").Flush()

	if buf.Len() != 0 {
		t.Errorf("expected no output for empty recorder, got: %s", buf.String())
	}
}

func TestSetOutputNilDiscards(t *testing.T) {
	SetOutput(nil)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	// Must not panic.
	New("Test").Count("Calls").Flush()
}

func TestRecorder_Count(t *testing.T) {
	rec := New("Test")
	rec.Count("Errors")

	if v, ok := rec.values["Errors"]; !ok || v != float64(1) {
		t.Errorf("expected Errors=1, got %v", v)
	}
	if m, ok := rec.metrics["Errors"]; !ok || m.Unit != UnitCount {
		t.Errorf("expected unit Count, got %v", m.Unit)
	}
}

func TestRecorder_Chaining(t *testing.T) {
	rec := New("Test").
		Dimension("Op", "test").
		Metric("Duration", 100, UnitMilliseconds).
		Count("Calls").
		Property("id", "xyz")

	if rec.dimensions["Op"] != "test" {
		t.Error("chaining Dimension failed")
	}
	if rec.values["Duration"] != float64(100) {
		t.Error("chaining Metric failed")
	}
	if rec.values["Calls"] != float64(1) {
		t.Error("chaining Count failed")
	}
	if rec.properties["id"] != "xyz" {
		t.Error("chaining Property failed")
	}
}
