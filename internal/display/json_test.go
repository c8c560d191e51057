package display

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/joshuadavidthomas/liment/internal/fetch"
)

func TestNewReport_Success(t *testing.T) {
	r := NewReport("claude_code", fetch.Success(testSnapshot()))
	if !r.OK || r.Usage == nil || r.Reason != fetch.ReasonNone || r.Message != "" {
		t.Errorf("report = %+v", r)
	}
}

func TestNewReport_Failure(t *testing.T) {
	r := NewReport("claude_code", fetch.Failure(fetch.TransportError, errors.New("dial tcp: timeout")))
	if r.OK || r.Usage != nil {
		t.Errorf("report = %+v", r)
	}
	if r.Reason != fetch.TransportError {
		t.Errorf("Reason = %v", r.Reason)
	}
	if !strings.Contains(r.Message, "dial tcp: timeout") || !strings.HasPrefix(r.Message, fetch.TransportError.Message()) {
		t.Errorf("Message = %q", r.Message)
	}
}

func TestOutputJSON_Report(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputJSON(&buf, NewReport("claude_code", fetch.Failure(fetch.AuthExpired, nil))); err != nil {
		t.Fatalf("OutputJSON() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got["reason"] != "auth_expired" {
		t.Errorf("reason = %v", got["reason"])
	}
	if _, ok := got["usage"]; ok {
		t.Error("failure should omit usage")
	}
	if !strings.Contains(buf.String(), "\n  \"provider\"") {
		t.Errorf("expected indented output:\n%s", buf.String())
	}
}

func TestOutputJSON_SuccessOmitsReason(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputJSON(&buf, NewReport("claude_code", fetch.Success(testSnapshot()))); err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if _, ok := got["reason"]; ok {
		t.Errorf("success should omit reason:\n%s", buf.String())
	}
	usage := got["usage"].(map[string]any)
	windows := usage["windows"].([]any)
	if len(windows) != 2 {
		t.Fatalf("windows = %v", windows)
	}
	if w := windows[0].(map[string]any); w["utilization"] != 42.0 || w["short_label"] != "5h" {
		t.Errorf("first window = %v", w)
	}
}

func TestOutputYAML_Report(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputYAML(&buf, NewReport("cliproxy_claude", fetch.Success(testSnapshot()))); err != nil {
		t.Fatalf("OutputYAML() error = %v", err)
	}

	var got struct {
		Provider string `yaml:"provider"`
		OK       bool   `yaml:"ok"`
		Usage    struct {
			Tier struct {
				Name string `yaml:"name"`
			} `yaml:"tier"`
			Windows []struct {
				Title       string  `yaml:"title"`
				Utilization float64 `yaml:"utilization"`
			} `yaml:"windows"`
		} `yaml:"usage"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if got.Provider != "cliproxy_claude" || !got.OK {
		t.Errorf("report = %+v", got)
	}
	if got.Usage.Tier.Name != "Max 5x" || len(got.Usage.Windows) != 2 || got.Usage.Windows[1].Utilization != 13 {
		t.Errorf("usage = %+v", got.Usage)
	}
}

func TestOutputYAML_ReasonIsText(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputYAML(&buf, NewReport("claude_code", fetch.Failure(fetch.AuthUnavailable, nil))); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "reason: auth_unavailable") {
		t.Errorf("YAML = %s", buf.String())
	}
}
