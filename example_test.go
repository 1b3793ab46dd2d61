package jregex_test

import (
	"fmt"

	"github.com/coregx/jregex"
)

func ExampleCompile() {
	p, err := jregex.Compile(`(\w+)@(\w+)\.com`)
	if err != nil {
		panic(err)
	}
	m := p.Matcher("mail alice@example.com")
	if m.Find() {
		user, _ := m.Group(1)
		host, _ := m.Group(2)
		fmt.Println(user, host)
	}
	// Output: alice example
}

func ExampleMatcher_Find() {
	m := jregex.MustCompile(`\d+`).Matcher("a1b22c333")
	for m.Find() {
		s, _ := m.Group(0)
		fmt.Println(s, m.Start(0))
	}
	// Output:
	// 1 1
	// 22 3
	// 333 6
}

func ExampleMatcher_Region() {
	m := jregex.MustCompile(`^bc$`).Matcher("abcd")
	if _, err := m.Region(1, 3); err != nil {
		panic(err)
	}
	fmt.Println(m.Matches())
	m.UseAnchoringBounds(false)
	fmt.Println(m.Matches())
	// Output:
	// true
	// false
}

func ExampleMatcher_AppendReplacement() {
	m := jregex.MustCompile(`cat`).Matcher("one cat, two cats")
	var out []byte
	for m.Find() {
		out, _ = m.AppendReplacement(out, "dog")
	}
	out = m.AppendTail(out)
	fmt.Println(string(out))
	// Output: one dog, two dogs
}

func ExamplePattern_ReplaceAllString() {
	p := jregex.MustCompile(`(\d+)`)
	s, err := p.ReplaceAllString("a12b34", "[$1]")
	if err != nil {
		panic(err)
	}
	fmt.Println(s)
	// Output: a[12]b[34]
}

func ExamplePattern_Split() {
	p := jregex.MustCompile(`\s*,\s*`)
	fmt.Printf("%q\n", p.Split("a , b,c,,", 0))
	// Output: ["a" "b" "c"]
}

func ExampleQuoteReplacement() {
	fmt.Println(jregex.QuoteReplacement(`$1\n`))
	// Output: \$1\\n
}

func ExampleQuote() {
	p := jregex.MustCompile(jregex.Quote("1+1=2"))
	fmt.Println(p.MatchString("so 1+1=2 holds"), p.MatchString("11=2"))
	// Output: true false
}

func ExampleCompileFlags() {
	p, err := jregex.CompileFlags(`^error: (.*)$`, jregex.Multiline|jregex.CaseInsensitive)
	if err != nil {
		panic(err)
	}
	m := p.Matcher("ok\nERROR: disk full\nok")
	if m.Find() {
		msg, _ := m.Group(1)
		fmt.Println(msg)
	}
	// Output: disk full
}

func ExampleMatcher_LookingAt() {
	m := jregex.MustCompile(`foo`).Matcher("foobar")
	fmt.Println(m.LookingAt(), m.Matches())
	// Output: true false
}
