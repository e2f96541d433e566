package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"pvelab/internal/provision"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Entry is the per-service outcome recorded in a run report.
type Entry struct {
	Service    string           `json:"service"`
	CTID       int              `json:"ctid"`
	Status     provision.Status `json:"status"`
	AccessURL  string           `json:"access_url,omitempty"`
	Credential string           `json:"credential,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Report describes one provisioning run.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Entries    []Entry   `json:"entries"`
}

// New creates a report for a run starting now.
func New() *Report {
	return &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
}

// Finish records the results and the finish time.
func (r *Report) Finish(results []provision.Result) {
	r.FinishedAt = time.Now()
	r.Entries = r.Entries[:0]
	for _, res := range results {
		entry := Entry{
			Service:    res.Spec.Name,
			CTID:       res.Spec.CTID,
			Status:     res.Status,
			AccessURL:  res.AccessURL,
			Credential: res.Credential,
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		r.Entries = append(r.Entries, entry)
	}
}

// Write saves the report as JSON.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

var statusColors = map[provision.Status]*color.Color{
	provision.StatusCreated:       color.New(color.FgGreen),
	provision.StatusSkippedExists: color.New(color.FgYellow),
	provision.StatusDisabled:      color.New(color.Faint),
	provision.StatusFailed:        color.New(color.FgRed, color.Bold),
}

// PrintSummary writes a human-readable summary table to w.
func (r *Report) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "\nProvisioning summary (run %s):\n", r.RunID)
	for _, e := range r.Entries {
		c, ok := statusColors[e.Status]
		if !ok {
			c = color.New()
		}
		line := fmt.Sprintf("  %-10s CTID %-5d %-15s", e.Service, e.CTID, e.Status)
		if e.AccessURL != "" {
			line += "  " + e.AccessURL
		}
		if e.Credential != "" {
			line += "  (credentials: " + e.Credential + ")"
		}
		if e.Error != "" {
			line += "  " + e.Error
		}
		c.Fprintln(w, line)
	}
}
