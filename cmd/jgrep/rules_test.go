package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coregx/jregex"
)

func TestParseRules(t *testing.T) {
	const doc = `
rules:
  - name: errors
    pattern: '^error: (.*)$'
    flags: [CASE_INSENSITIVE, multiline]
    replace: 'E: $1'
  - pattern: '\d{3}'
`
	rules, err := parseRules([]byte(doc), jregex.DotAll)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 2 {
		t.Fatalf("len(rules) = %d, want 2", len(rules))
	}
	r := rules[0]
	if r.Name != "errors" || r.Replace == nil || *r.Replace != "E: $1" {
		t.Errorf("rule 0 = %+v", r)
	}
	if want := jregex.DotAll | jregex.CaseInsensitive | jregex.Multiline; r.re.Flags() != want {
		t.Errorf("rule 0 flags = %v, want %v", r.re.Flags(), want)
	}
	if !r.re.MatchString("ok\nERROR: x") {
		t.Error("rule 0 should match a later line case-insensitively")
	}
	if rules[1].Replace != nil || !rules[1].re.MatchString("a123") {
		t.Errorf("rule 1 = %+v", rules[1])
	}
}

func TestParseRules_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "rules: []", "no rules"},
		{"missing pattern", "rules:\n  - name: x", "missing pattern"},
		{"unknown flag", "rules:\n  - pattern: a\n    flags: [FAST]", "unknown flag"},
		{"unknown field", "rules:\n  - pattern: a\n    color: red", "color"},
		{"bad pattern", "rules:\n  - name: broken\n    pattern: '(a'", "broken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRules([]byte(tt.doc), 0)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}

	_, err := parseRules([]byte("rules:\n  - pattern: '(a'"), 0)
	if !errors.Is(err, jregex.ErrSyntax) {
		t.Errorf("bad pattern error = %v, want ErrSyntax", err)
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  - pattern: 'b+'\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	rules, err := loadRules(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 1 || !rules[0].re.MatchString("abbc") {
		t.Errorf("rules = %+v", rules)
	}

	if _, err := loadRules(filepath.Join(t.TempDir(), "missing.yaml"), 0); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}
}
