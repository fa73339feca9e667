// Command sqlrenderctl is a thin CLI over the sqlrender library:
// render a template, translate rendered SQL, or run both in sequence.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gosqlrender/sqlrender"
	"github.com/gosqlrender/sqlrender/internal/rendererr"
	"github.com/gosqlrender/sqlrender/pkg/dialect"
	"github.com/gosqlrender/sqlrender/pkg/translate"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	switch args[0] {
	case "render":
		return runRender(args[1:], stdout, stderr)
	case "translate":
		return runTranslate(args[1:], stdin, stdout, stderr)
	case "run":
		return runRenderTranslate(args[1:], stdout, stderr)
	case "dialects":
		return runDialects(stdout)
	case "-h", "--help", "help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown subcommand %q\n", args[0])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "sqlrenderctl - templating and dialect translation for SQL text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sqlrenderctl render -template <file> [-bind k=v,...]")
	fmt.Fprintln(w, "  sqlrenderctl translate -dialect <name> [-temp-schema <schema>] [-explain] [file]")
	fmt.Fprintln(w, "  sqlrenderctl run -template <file> -dialect <name> [-temp-schema <schema>] [-bind k=v,...] [-explain]")
	fmt.Fprintln(w, "  sqlrenderctl dialects")
}

func runDialects(stdout io.Writer) int {
	for _, d := range dialect.All() {
		fmt.Fprintln(stdout, d.String())
	}
	return 0
}

func runRender(args []string, stdout, stderr io.Writer) int {
	fs, opts := newRenderFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if opts.template == "" {
		fmt.Fprintln(stderr, "render: -template is required")
		return 2
	}

	tmplBytes, err := os.ReadFile(opts.template)
	if err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}

	bindings, err := parseBindings(opts.bindings)
	if err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 2
	}

	out, err := sqlrender.Render(string(tmplBytes), bindings)
	if err != nil {
		printCoreError(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}

func runTranslate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs, opts := newTranslateFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var sql []byte
	var err error
	if fs.NArg() > 0 {
		sql, err = os.ReadFile(fs.Arg(0))
	} else {
		sql, err = io.ReadAll(stdin)
	}
	if err != nil {
		fmt.Fprintf(stderr, "translate: %v\n", err)
		return 1
	}

	target, ok := dialect.Parse(opts.dialect)
	if !ok {
		fmt.Fprintf(stderr, "translate: unknown dialect %q\n", opts.dialect)
		return 1
	}

	if opts.explain {
		printExplain(stderr, string(sql), target)
	}

	out, err := sqlrender.Translate(string(sql), target, opts.tempSchema)
	if err != nil {
		printCoreError(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}

func runRenderTranslate(args []string, stdout, stderr io.Writer) int {
	fs, opts := newRunFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if opts.template == "" || opts.dialect == "" {
		fmt.Fprintln(stderr, "run: -template and -dialect are required")
		return 2
	}

	tmplBytes, err := os.ReadFile(opts.template)
	if err != nil {
		fmt.Fprintf(stderr, "run: %v\n", err)
		return 1
	}

	bindings, err := parseBindings(opts.bindings)
	if err != nil {
		fmt.Fprintf(stderr, "run: %v\n", err)
		return 2
	}

	target, ok := dialect.Parse(opts.dialect)
	if !ok {
		fmt.Fprintf(stderr, "run: unknown dialect %q\n", opts.dialect)
		return 1
	}

	rendered, err := sqlrender.Render(string(tmplBytes), bindings)
	if err != nil {
		printCoreError(stderr, err)
		return 1
	}

	if opts.explain {
		printExplain(stderr, rendered, target)
	}

	out, err := sqlrender.Translate(rendered, target, opts.tempSchema)
	if err != nil {
		printCoreError(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}

// printExplain prints the rules that actually fired against sql, in
// firing order, per SPEC_FULL.md §4's --explain mode.
func printExplain(stderr io.Writer, sql string, target dialect.Dialect) {
	fired, err := translate.ExplainMatches(sql, target)
	if err != nil {
		fmt.Fprintf(stderr, "explain: %v\n", err)
		return
	}
	fmt.Fprintf(stderr, "-- %d rule(s) fired for %s:\n", len(fired), target)
	for i, r := range fired {
		fmt.Fprintf(stderr, "--  [%d] %s => %s\n", i, r.PatternSearch, r.PatternReplace)
	}
}

func printCoreError(stderr io.Writer, err error) {
	code := rendererr.GetCode(err)
	fmt.Fprintf(stderr, "%s: %v\n", code, err)
}

func parseBindings(spec string) (map[string]sqlrender.Value, error) {
	bindings := make(map[string]sqlrender.Value)
	if spec == "" {
		return bindings, nil
	}
	for _, pair := range strings.Split(spec, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed binding %q, expected name=value", pair)
		}
		bindings[kv[0]] = sqlrender.StringValue(kv[1])
	}
	return bindings, nil
}
