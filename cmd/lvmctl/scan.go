// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	lvm2 "github.com/lvm2kit/lvm2"
	"github.com/lvm2kit/lvm2/log"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [directory]",
		Short: "Scan a directory of block-special files for LVM labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newCLILogger()
			results, err := lvm2.ScanDir(args[0], logger)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("%s\tvg=%s\tpv=%s\n", r.Path, r.VG.Name, r.Header.UUID)
			}
			return nil
		},
	}
}

func newCLILogger() *log.Helper {
	level := log.LevelWarn
	if verbose {
		level = log.LevelDebug
	}
	logger := log.NewFilter(log.NewStdLogger(os.Stderr), log.FilterLevel(level))
	return log.NewHelper(logger)
}
