// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

/*
dms-counts post-processes per-site codon count tables produced by
dms-bcsubamp: it annotates them with derived mutation statistics, adjusts
error-control counts against a sample, and aggregates codon counts into
amino acid counts.
*/

import (
	"fmt"
	"io"
	"log"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/dms/counts"
	"github.com/klauspost/compress/gzip"
	"v.io/x/lib/cmdline"
)

// writeTSVToPath writes one TSV-producing function to a local or remote
// path, gzip-compressing by extension.
func writeTSVToPath(path string, write func(io.Writer) error) (err error) {
	ctx := vcontext.Background()
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	writer := io.Writer(out.Writer(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		gz := gzip.NewWriter(writer)
		defer func() {
			if cerr := gz.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		writer = gz
	}
	return write(writer)
}

func newCmdAnnotate() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "annotate",
		Short:    "Annotate a codon count table with derived mutation statistics",
		ArgsName: "inpath outpath",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("annotate takes inpath outpath, but got %v", argv)
		}
		table, err := counts.NewTableFromPath(vcontext.Background(), argv[0])
		if err != nil {
			return err
		}
		return writeTSVToPath(argv[1], counts.Annotate(table).WriteTSV)
	})
	return cmd
}

func newCmdAdjust() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "adjust",
		Short:    "Clamp error-control counts that exceed what the sample predicts",
		ArgsName: "errpath samplepath outpath",
	}
	maxExcessFlag := cmd.Flags.Int("max-excess", 1, "Error-control counts may exceed the sample-predicted count by this much before clamping")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("adjust takes errpath samplepath outpath, but got %v", argv)
		}
		ctx := vcontext.Background()
		errCounts, err := counts.NewTableFromPath(ctx, argv[0])
		if err != nil {
			return err
		}
		sample, err := counts.NewTableFromPath(ctx, argv[1])
		if err != nil {
			return err
		}
		adjusted, err := counts.AdjustErrorCounts(errCounts, sample, nil, *maxExcessFlag)
		if err != nil {
			return err
		}
		return adjusted.WriteToPath(argv[2])
	})
	return cmd
}

func newCmdAACounts() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "aacounts",
		Short:    "Aggregate a codon count table into amino acid counts",
		ArgsName: "inpath outpath",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("aacounts takes inpath outpath, but got %v", argv)
		}
		table, err := counts.NewTableFromPath(vcontext.Background(), argv[0])
		if err != nil {
			return err
		}
		return writeTSVToPath(argv[1], counts.ToAminoAcids(table).WriteTSV)
	})
	return cmd
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "dms-counts",
			Short:    "Tools for working with codon count tables",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdAnnotate(),
				newCmdAdjust(),
				newCmdAACounts(),
			},
		})
}
