package shopping

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

// Export renders the pending items as "- name (quantity unit)" lines in list
// order. Completed items are left out.
func (s *Store) Export() string {
	lines := make([]string, 0)
	for _, it := range s.pending() {
		lines = append(lines, fmt.Sprintf("- %s (%s %s)", it.Name, FormatQuantity(it.Quantity), it.Unit))
	}
	return strings.Join(lines, "\n")
}

// ExportXLSX writes the pending items to w as a spreadsheet with Name,
// Quantity and Unit columns.
func (s *Store) ExportXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}
	if err := sw.SetRow("A1", []interface{}{"Name", "Quantity", "Unit"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, it := range s.pending() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := sw.SetRow(cell, []interface{}{it.Name, it.Quantity, it.Unit}); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

// FormatQuantity renders q in its shortest decimal form (3, 1.5).
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func (s *Store) pending() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if !it.Completed {
			out = append(out, it)
		}
	}
	return out
}
