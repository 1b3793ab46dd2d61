// jgrep searches files for lines matching Java-syntax regular expressions.
//
// Input files may be plain text or gzip or zstd compressed; compression is
// detected from the stream header. Patterns come from the command line or
// from a YAML rules file.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coregx/jregex"
)

// version is set at build time via -ldflags.
var version = "dev"

const (
	shortUsage = "usage: jgrep [options] pattern [file ...]\n       jgrep [options] -f rules.yaml [file ...]"
	longUsage  = `Pattern flags:
  -i                CASE_INSENSITIVE
  -u                UNICODE_CASE
  -m                MULTILINE
  -s                DOTALL
  -x                COMMENTS
  -F                LITERAL (pattern is a fixed string)
  -C                CANON_EQ
  -U                UNIX_LINES

Output:
  -o                print only the matched parts of lines
  -c                print only a count of matching lines
  -n                prefix lines with their line number
  -H                prefix lines with the file name
  -r replacement    print matching lines with every match replaced
                    ($n inserts group n, \x a literal x)

Other:
  -f rules.yaml     read patterns from a YAML rules file
  -h, --help        show this help message
  -version          show jgrep version and exit

Exit status is 0 if a line matched, 1 if none did and 2 on error.
`
)

//nolint:gocyclo // flat argument switch
func main() {
	var opts options
	var rulesFile string

	var i int
	for i = 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		if arg == "--" {
			i++
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "-i":
			opts.flags |= jregex.CaseInsensitive
		case "-u":
			opts.flags |= jregex.UnicodeCase
		case "-m":
			opts.flags |= jregex.Multiline
		case "-s":
			opts.flags |= jregex.DotAll
		case "-x":
			opts.flags |= jregex.Comments
		case "-F":
			opts.flags |= jregex.Literal
		case "-C":
			opts.flags |= jregex.CanonEq
		case "-U":
			opts.flags |= jregex.UnixLines
		case "-o":
			opts.onlyMatching = true
		case "-c":
			opts.count = true
		case "-n":
			opts.lineNumbers = true
		case "-H":
			opts.withFilename = true
		case "-r":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: -r")
			}
			i++
			repl := os.Args[i]
			opts.replace = &repl
		case "-f":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: -f")
			}
			i++
			rulesFile = os.Args[i]
		case "-h", "--help":
			fmt.Printf("jgrep %s\n\n%s\n\n%s", version, shortUsage, longUsage)
			os.Exit(0)
		case "-version", "--version":
			fmt.Printf("jgrep version %s\n", version)
			os.Exit(0)
		default:
			switch {
			case strings.HasPrefix(arg, "-r"):
				repl := arg[2:]
				opts.replace = &repl
			case strings.HasPrefix(arg, "-f"):
				rulesFile = arg[2:]
			default:
				errorExitf("flag provided but not defined: %s", arg)
			}
		}
	}
	args := os.Args[i:]

	var rules []*rule
	if rulesFile != "" {
		var err error
		if rules, err = loadRules(rulesFile, opts.flags); err != nil {
			errorExit(err)
		}
	} else {
		if len(args) == 0 {
			errorExitf(shortUsage)
		}
		r := &rule{Pattern: args[0]}
		if err := r.compile(opts.flags); err != nil {
			errorExit(err)
		}
		rules = []*rule{r}
		args = args[1:]
	}
	if len(args) > 1 {
		opts.withFilename = true
	}

	g := newGrepper(opts, rules, os.Stdout)
	matched := 0
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, name := range args {
		n, err := grepFile(g, name)
		if err != nil {
			errorExit(err)
		}
		matched += n
	}
	if matched == 0 {
		os.Exit(1)
	}
}

func grepFile(g *grepper, name string) (int, error) {
	var src io.Reader = os.Stdin
	label := "(standard input)"
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		src, label = f, name
	}
	r, err := decompress(src)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	defer r.Close()
	n, err := g.run(label, r)
	if err != nil {
		return n, fmt.Errorf("%s: %w", label, err)
	}
	return n, nil
}

// errorExitf prints a formatted error message and exits with code 2.
func errorExitf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "jgrep: "+format+"\n", args...)
	os.Exit(2)
}

// errorExit prints err and exits with code 2.
func errorExit(err error) {
	fmt.Fprintf(os.Stderr, "jgrep: %v\n", err)
	os.Exit(2)
}
