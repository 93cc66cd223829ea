package metrics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.size); got != tt.want {
			t.Errorf("FormatBytes(%d): expected '%s', got '%s'", tt.size, tt.want, got)
		}
	}
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.json"), make([]byte, 2048), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	h := NewCollector(dir).Snapshot()
	if h.DataDiskSize != "2.0 KB" {
		t.Errorf("Expected DataDiskSize '2.0 KB', got '%s'", h.DataDiskSize)
	}
	if h.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", h.Goroutines)
	}

	if got := NewCollector("").Snapshot().DataDiskSize; got != "" {
		t.Errorf("Expected empty DataDiskSize without a path, got '%s'", got)
	}
}
