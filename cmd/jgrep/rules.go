package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/coregx/jregex"
)

// A rule is one pattern to search for, optionally with a replacement
// applied to matching lines.
//
// Rules files are YAML:
//
//	rules:
//	  - name: errors
//	    pattern: '^error: (.*)$'
//	    flags: [CASE_INSENSITIVE]
//	    replace: 'E: $1'
type rule struct {
	Name    string   `json:"name,omitempty"`
	Pattern string   `json:"pattern"`
	Flags   []string `json:"flags,omitempty"`
	Replace *string  `json:"replace,omitempty"`

	re *jregex.Pattern
}

type ruleFile struct {
	Rules []*rule `json:"rules"`
}

var flagNames = map[string]jregex.Flags{
	"UNIX_LINES":       jregex.UnixLines,
	"CASE_INSENSITIVE": jregex.CaseInsensitive,
	"COMMENTS":         jregex.Comments,
	"MULTILINE":        jregex.Multiline,
	"LITERAL":          jregex.Literal,
	"DOTALL":           jregex.DotAll,
	"UNICODE_CASE":     jregex.UnicodeCase,
	"CANON_EQ":         jregex.CanonEq,
}

func parseFlagNames(names []string) (jregex.Flags, error) {
	var flags jregex.Flags
	for _, name := range names {
		f, ok := flagNames[strings.ToUpper(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown flag %q", name)
		}
		flags |= f
	}
	return flags, nil
}

// compile compiles the rule with its own flags added to base.
func (r *rule) compile(base jregex.Flags) error {
	flags, err := parseFlagNames(r.Flags)
	if err != nil {
		return fmt.Errorf("rule %s: %w", r.label(), err)
	}
	if r.re, err = jregex.CompileFlags(r.Pattern, base|flags); err != nil {
		return fmt.Errorf("rule %s: %w", r.label(), err)
	}
	return nil
}

func (r *rule) label() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("%q", r.Pattern)
}

// parseRules decodes and compiles a rules document.
func parseRules(data []byte, base jregex.Flags) ([]*rule, error) {
	var rf ruleFile
	if err := yaml.UnmarshalStrict(data, &rf); err != nil {
		return nil, err
	}
	if len(rf.Rules) == 0 {
		return nil, errors.New("no rules")
	}
	for i, r := range rf.Rules {
		if r == nil || r.Pattern == "" {
			return nil, fmt.Errorf("rule %d: missing pattern", i+1)
		}
		if err := r.compile(base); err != nil {
			return nil, err
		}
	}
	return rf.Rules, nil
}

func loadRules(path string, base jregex.Flags) ([]*rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rules, err := parseRules(data, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}
