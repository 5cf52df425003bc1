package encoder

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// InstructionStats is the count for one instruction kind.
type InstructionStats struct {
	Mnemonic string `json:"mnemonic"`
	Count    uint64 `json:"count"`
}

// Statistics counts the instructions assembled in one call. The
// collector belongs to the assembler and is reset at every Assemble
// entry.
type Statistics struct {
	TotalInstructions uint64
	InstructionCounts map[string]uint64
}

// NewStatistics creates an empty collector.
func NewStatistics() *Statistics {
	return &Statistics{InstructionCounts: make(map[string]uint64)}
}

// Reset clears all counts.
func (s *Statistics) Reset() {
	s.TotalInstructions = 0
	s.InstructionCounts = make(map[string]uint64)
}

// Record counts one assembled instruction.
func (s *Statistics) Record(mnemonic string) {
	s.TotalInstructions++
	s.InstructionCounts[mnemonic]++
}

// Sorted returns the counts ordered by count descending, then by
// mnemonic so equal counts list deterministically.
func (s *Statistics) Sorted() []InstructionStats {
	out := make([]InstructionStats, 0, len(s.InstructionCounts))
	for m, c := range s.InstructionCounts {
		out = append(out, InstructionStats{Mnemonic: m, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Mnemonic < out[j].Mnemonic
	})
	return out
}

// ExportJSON writes the statistics as JSON.
func (s *Statistics) ExportJSON(w io.Writer) error {
	report := struct {
		TotalInstructions uint64             `json:"total_instructions"`
		Instructions      []InstructionStats `json:"instructions"`
	}{
		TotalInstructions: s.TotalInstructions,
		Instructions:      s.Sorted(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// ExportCSV writes the statistics as CSV.
func (s *Statistics) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"mnemonic", "count"}); err != nil {
		return err
	}
	for _, row := range s.Sorted() {
		if err := cw.Write([]string{row.Mnemonic, strconv.FormatUint(row.Count, 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export writes the statistics in the named format.
func (s *Statistics) Export(w io.Writer, format string) error {
	switch format {
	case "json":
		return s.ExportJSON(w)
	case "csv":
		return s.ExportCSV(w)
	}
	return fmt.Errorf("unknown statistics format: %q", format)
}
