// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/ik5/zampler/bank"
)

func runPack(ctx context.Context, args []string) error {
	flags, ef := newFlagSet("pack", "-o FILE -root FILE dir")
	outPath := flags.String("o", "", "bank file to write")
	root := flags.String("root", "", "instrument description inside dir")
	program := flags.Int("program", -1, "program to install the bank under, -1 lets the engine choose")
	name := flags.String("name", "", "instrument name stored in the manifest")
	if err := flags.Parse(args); err != nil {
		return err
	}
	initLogger(ef.debug)
	if *outPath == "" || *root == "" || flags.NArg() != 1 {
		flags.Usage()
		return errUsage
	}

	entries, err := collect(ctx, os.DirFS(flags.Arg(0)))
	if err != nil {
		return err
	}
	rf := bank.Rootfile{FullPath: path.Clean(*root), Name: *name}
	if *program >= 0 {
		rf.Program = program
	}

	out, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	err = bank.Write(out, rf, entries)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("pack %s: %w", *outPath, err)
	}
	logger.Info("wrote bank", "path", *outPath, "entries", len(entries), "root", rf.FullPath)
	return nil
}

// collect reads every regular file of fsys, skipping an existing manifest.
func collect(ctx context.Context, fsys fs.FS) ([]bank.Entry, error) {
	var entries []bank.Entry
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() || p == bank.ManifestPath {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		logger.Debug("adding entry", "name", p, "bytes", len(data))
		entries = append(entries, bank.Entry{Name: p, Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("no files to pack")
	}
	return entries, nil
}
