// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ik5/zampler"
	"github.com/ik5/zampler/synth"
)

func runList(ctx context.Context, args []string) error {
	fs, ef := newFlagSet("list", "instrument...")
	formats := fs.Bool("formats", false, "print the supported sample formats and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	initLogger(ef.debug)
	if *formats {
		fmt.Println(strings.Join(zampler.Decoders().Formats(), " "))
		return nil
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	eng, err := ef.engine(ctx, fs.Args())
	if err != nil {
		return err
	}
	return printPatches(os.Stdout, eng.Patches())
}

func printPatches(w io.Writer, patches []synth.Patch) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROGRAM\tNAME\tREGIONS\tSOURCE")
	for _, p := range patches {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", p.Program, p.Name, p.Regions, p.Source)
	}
	return tw.Flush()
}
