package main

import (
	"bufio"
	"io"
	"strconv"

	"github.com/coregx/jregex"
)

const maxLineSize = 16 << 20

type options struct {
	flags        jregex.Flags
	onlyMatching bool
	count        bool
	lineNumbers  bool
	withFilename bool

	// replace applies to rules without a replacement of their own.
	replace *string
}

// grepper searches line-oriented input for any of its rules. Matchers are
// reused from line to line.
type grepper struct {
	opts     options
	rules    []*rule
	matchers []*jregex.Matcher
	out      *bufio.Writer
}

func newGrepper(opts options, rules []*rule, w io.Writer) *grepper {
	g := &grepper{
		opts:     opts,
		rules:    rules,
		matchers: make([]*jregex.Matcher, len(rules)),
		out:      bufio.NewWriter(w),
	}
	for i, r := range rules {
		g.matchers[i] = r.re.MatcherBytes(nil)
	}
	return g
}

func (g *grepper) replacement(r *rule) *string {
	if r.Replace != nil {
		return r.Replace
	}
	return g.opts.replace
}

// run reports the selected lines of r and returns how many lines matched.
func (g *grepper) run(name string, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	matched := 0
	for lineNo := 1; sc.Scan(); lineNo++ {
		ok, err := g.line(name, lineNo, sc.Bytes())
		if err != nil {
			return matched, err
		}
		if ok {
			matched++
		}
	}
	if err := sc.Err(); err != nil {
		return matched, err
	}
	if g.opts.count {
		g.prefix(name, 0)
		g.out.WriteString(strconv.Itoa(matched))
		g.out.WriteByte('\n')
	}
	return matched, g.out.Flush()
}

func (g *grepper) line(name string, lineNo int, line []byte) (bool, error) {
	if g.opts.onlyMatching {
		return g.onlyMatching(name, lineNo, line), nil
	}
	hit := false
	text := line
	for i, r := range g.rules {
		m := g.matchers[i]
		m.ResetInput(text)
		if !m.Find() {
			continue
		}
		hit = true
		if repl := g.replacement(r); repl != nil {
			s, err := m.ReplaceAll(*repl)
			if err != nil {
				return false, err
			}
			text = []byte(s)
		}
	}
	if hit && !g.opts.count {
		g.prefix(name, lineNo)
		g.out.Write(text)
		g.out.WriteByte('\n')
	}
	return hit, nil
}

// onlyMatching prints every non-empty match of every rule on its own line.
func (g *grepper) onlyMatching(name string, lineNo int, line []byte) bool {
	hit := false
	for _, m := range g.matchers {
		m.ResetInput(line)
		for m.Find() {
			start, end := m.Start(0), m.End(0)
			if start == end {
				continue
			}
			hit = true
			if !g.opts.count {
				g.prefix(name, lineNo)
				g.out.Write(line[start:end])
				g.out.WriteByte('\n')
			}
		}
	}
	return hit
}

func (g *grepper) prefix(name string, lineNo int) {
	if g.opts.withFilename {
		g.out.WriteString(name)
		g.out.WriteByte(':')
	}
	if g.opts.lineNumbers && lineNo > 0 {
		g.out.WriteString(strconv.Itoa(lineNo))
		g.out.WriteByte(':')
	}
}
