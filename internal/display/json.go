package display

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/models"
)

// Report is the machine-readable form of one fetch.
type Report struct {
	Provider string                `json:"provider" yaml:"provider"`
	OK       bool                  `json:"ok" yaml:"ok"`
	Reason   fetch.Reason          `json:"reason,omitempty" yaml:"reason,omitempty"`
	Message  string                `json:"message,omitempty" yaml:"message,omitempty"`
	Usage    *models.UsageSnapshot `json:"usage,omitempty" yaml:"usage,omitempty"`
}

// NewReport converts an outcome. Failures carry the reason code and a
// message that includes the underlying error.
func NewReport(providerID string, o fetch.Outcome) Report {
	if o.OK() {
		return Report{Provider: providerID, OK: true, Usage: o.Snapshot}
	}
	r := Report{Provider: providerID, Reason: o.Reason, Message: o.Reason.Message()}
	if o.Err != nil {
		r.Message = fmt.Sprintf("%s: %v", r.Message, o.Err)
	}
	return r
}

// OutputJSON writes pretty-printed JSON to the given writer.
func OutputJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// OutputYAML writes data as a single YAML document.
func OutputYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}
