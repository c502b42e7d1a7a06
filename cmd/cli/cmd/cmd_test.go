package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"245", "245", false},
		{"$1,299.99", "1299.99", false},
		{"", "0", false},
		{"twelve", "0", true},
	}
	for _, tt := range tests {
		got, err := parsePrice(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePrice(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got.String() != tt.want {
			t.Errorf("parsePrice(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCheckCommandJSON(t *testing.T) {
	out, err := execute(t, "check", "--country", "Made in China", "--price", "245", "--category", "electronics", "--format", "json")
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	var res struct {
		PreTariffPrice float64 `json:"preTariffPrice"`
		TariffAmount   float64 `json:"tariffAmount"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if res.PreTariffPrice != 100 || res.TariffAmount != 145 {
		t.Errorf("unexpected decomposition: %+v", res)
	}
}

func TestRulesValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	if err := os.WriteFile(path, []byte(`baseline { kind = kind.percentage }`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "rules", "validate", path); err == nil {
		t.Error("expected invalid table to fail validation")
	}
}

func TestRulesDefaultRoundTrips(t *testing.T) {
	out, err := execute(t, "rules", "default")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "rules.hcl")
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		t.Fatal(err)
	}
	if out, err := execute(t, "rules", "validate", path); err != nil || !strings.Contains(out, "is valid") {
		t.Errorf("expected the built-in table to validate, got %v: %s", err, out)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("expected version in %q", out)
	}
}
