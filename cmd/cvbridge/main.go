package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/cvbridge/bridge"
	"github.com/wippyai/cvbridge/dispatch"
	"github.com/wippyai/cvbridge/extmem"
	"github.com/wippyai/cvbridge/marshal"
	"github.com/wippyai/cvbridge/mat"
	"github.com/wippyai/cvbridge/resource"
)

func main() {
	var (
		list        = flag.Bool("list", false, "List every symbol and overload")
		constants   = flag.Bool("constants", false, "Print the constant table")
		schema      = flag.String("schema", "", "Print the WIT and JSON schema of a value type (\"all\" lists names)")
		callSym     = flag.String("call", "", "Call a free function or constructor")
		callArgs    = flag.String("args", "[]", "JSON array of arguments for -call")
		lenient     = flag.Bool("lenient", false, "Zero-pad short image records instead of rejecting them")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose debug logging")
	)
	flag.Parse()

	if *verbose {
		installLogger()
	}

	b, err := bridge.New(bridge.WithStrictImageRecords(!*lenient))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	switch {
	case *interactive:
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		err = runInteractive(b)
	case *list:
		printOverloads(b.Registry())
	case *constants:
		printConstants()
	case *schema != "":
		err = printSchema(*schema)
	case *callSym != "":
		err = callOnce(b, *callSym, *callArgs)
	default:
		fmt.Fprintln(os.Stderr, "Usage: cvbridge -list | -constants | -schema NAME | -call SYMBOL [-args JSON] | -i  [-v]")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// installLogger routes every package logger to a development logger.
func installLogger() {
	l, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return
	}
	bridge.SetLogger(l.Named("bridge"))
	dispatch.SetLogger(l.Named("dispatch"))
	mat.SetLogger(l.Named("mat"))
	resource.SetLogger(l.Named("resource"))
	extmem.SetLogger(l.Named("extmem"))
}

func printOverloads(reg *dispatch.Registry) {
	for _, sym := range reg.Symbols() {
		for _, ov := range reg.Overloads(sym) {
			kind := "func  "
			if ov.Method() {
				kind = "method"
			}
			fmt.Printf("%s  %s\n", kind, ov.Signature())
		}
	}
}

func printConstants() {
	c := bridge.Constants()
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c[a] != c[b] {
			return c[a] - c[b]
		}
		return strings.Compare(a, b)
	})
	for _, n := range names {
		fmt.Printf("%-16s %d\n", n, c[n])
	}
}

func printSchema(name string) error {
	if name == "all" {
		for _, n := range marshal.Names() {
			fmt.Println(n)
		}
		return nil
	}
	t, err := marshal.Schema(name)
	if err != nil {
		return err
	}
	fmt.Printf("wit: %s\n", dispatch.TypeString(t))
	js, err := marshal.JSONSchema(name)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", js)
	return nil
}

func callOnce(b *bridge.Bridge, symbol, rawArgs string) error {
	var args []any
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return fmt.Errorf("parse -args: %w", err)
	}
	result, err := b.Call(symbol, args...)
	if err != nil {
		return err
	}
	fmt.Println(describe(b, result))
	return nil
}

// describe renders a call result, expanding handles to the Mat header or
// vector they refer to.
func describe(b *bridge.Bridge, v any) string {
	switch r := v.(type) {
	case nil:
		return "ok"
	case resource.Handle:
		res, err := b.Resource(r)
		if err != nil {
			return fmt.Sprintf("handle %d (%v)", r, err)
		}
		return fmt.Sprintf("handle %d %v", r, res)
	case []any:
		parts := make([]string, len(r))
		for i, item := range r {
			parts[i] = describe(b, item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	if out, err := json.Marshal(v); err == nil {
		return string(out)
	}
	return fmt.Sprintf("%v", v)
}
