// Command inspect prints the shape and fill of a name filter snapshot.
//
//	inspect [-check name]... <snapshot>
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"name_guard/utils/bf"
)

type names []string

func (n *names) String() string     { return strings.Join(*n, ",") }
func (n *names) Set(v string) error { *n = append(*n, v); return nil }

func main() {
	var checks names
	flag.Var(&checks, "check", "name to test against the snapshot (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-check name]... <snapshot>")
		os.Exit(2)
	}
	if err := inspect(flag.Arg(0), checks, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func inspect(path string, checks []string, out io.Writer) error {
	f, err := bf.Load(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "path\t%s\n", path)
	fmt.Fprintf(out, "bits\t%d (%d bytes)\n", f.M(), (f.M()+7)/8)
	fmt.Fprintf(out, "hashes\t%d\n", f.K())
	fmt.Fprintf(out, "sized_for\t%d\n", f.ExpectedElements())
	fmt.Fprintf(out, "fill\t%.4f\n", f.FillRatio())
	fmt.Fprintf(out, "estimated_count\t%d\n", f.Count())
	fmt.Fprintf(out, "estimated_fp_rate\t%.6f\n", f.EstimatedFalsePositiveRate())

	for _, name := range checks {
		verdict := "absent"
		if f.Lookup(name) {
			verdict = "maybe present"
		}
		fmt.Fprintf(out, "check\t%s\t%s\n", name, verdict)
	}
	return nil
}
