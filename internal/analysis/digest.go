package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	DefaultCharCap   = 1000
	truncationMarker = "...[truncated]"
)

// Digest is the bounded text handed to the narrative service.
type Digest struct {
	Text      string
	Errors    []string
	Available map[string]bool
}

// BuildDigest renders a Result as text. Output depends only on its inputs.
func BuildDigest(result Result, ticker string, charCap int) Digest {
	if charCap <= 0 {
		charCap = DefaultCharCap
	}

	qc := result.Context
	var sb strings.Builder

	sb.WriteString("OPTIONS MARKET SNAPSHOT\n")
	sb.WriteString(fmt.Sprintf("Ticker: %s\n", ticker))
	if qc.Requested != "" && qc.Requested != qc.Date {
		sb.WriteString(fmt.Sprintf("Trading date: %s (requested %s)\n", qc.Date, qc.Requested))
	} else {
		sb.WriteString(fmt.Sprintf("Trading date: %s\n", qc.Date))
	}
	if qc.Slot != "" {
		sb.WriteString(fmt.Sprintf("Time slot: %s (intraday model)\n", qc.Slot))
	} else {
		sb.WriteString("Time slot: none (daily snapshot)\n")
	}
	sb.WriteString(fmt.Sprintf("Resolution: %s\n", qc.Path))
	if qc.Reason != "" {
		sb.WriteString(fmt.Sprintf("Note: %s\n", qc.Reason))
	}
	sb.WriteString(fmt.Sprintf("Sources available: %d of %d\n", result.AvailableCount(), result.Total()))

	sb.WriteString("\nDATA AVAILABILITY\n")
	for _, o := range result.Outcomes {
		status := "unavailable"
		if o.OK() {
			status = "available"
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", o.Endpoint, status))
	}

	if result.AvailableCount() == 0 {
		sb.WriteString("\nNo detailed data: every source failed.\n")
	}

	for _, o := range result.Outcomes {
		if !o.OK() {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n=== %s ===\n", sectionLabel(o.Endpoint)))
		sb.WriteString(Truncate(renderPayload(o.Payload), charCap))
		sb.WriteString("\n")
	}

	return Digest{
		Text:      sb.String(),
		Errors:    append([]string{}, result.Errors...),
		Available: result.Available(),
	}
}

// Truncate caps s at charCap runes, marker included.
func Truncate(s string, charCap int) string {
	if charCap <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= charCap {
		return s
	}

	marker := []rune(truncationMarker)
	if charCap <= len(marker) {
		return string(runes[:charCap])
	}

	return string(runes[:charCap-len(marker)]) + truncationMarker
}

func renderPayload(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func sectionLabel(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "_", " "))
}
