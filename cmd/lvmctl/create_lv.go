// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	lvm2 "github.com/lvm2kit/lvm2"
)

func newCreateLVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-lv [device] [lvname] [extents]",
		Short: "Allocate a new linear LV and commit the updated metadata",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, lvName := args[0], args[1]
			extents, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid extent count %q: %w", args[2], err)
			}

			logger := newCLILogger()

			_, pv, err := lvm2.FindInDev(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			dev, err := lvm2.OpenRW(path)
			if err != nil {
				return err
			}
			defer dev.Close()

			text, err := lvm2.ReadCurrentMetadata(dev, pv.MetadataAreas, logger)
			if err != nil {
				return fmt.Errorf("reading metadata: %w", err)
			}
			textMap, err := lvm2.ParseTextConfig(text)
			if err != nil {
				return fmt.Errorf("parsing metadata: %w", err)
			}
			vg, err := lvm2.TextMapToVG(textMap)
			if err != nil {
				return fmt.Errorf("decoding metadata: %w", err)
			}

			lv, err := vg.NewLinearLV(lvName, extents)
			if err != nil {
				return fmt.Errorf("allocating %s: %w", lvName, err)
			}
			vg.Seqno++

			out := append(lvm2.SerializeTextConfig(lvm2.VGToTextMap(vg)), 0)
			if err := lvm2.WriteAllMetadata(dev, pv.MetadataAreas, out); err != nil {
				return fmt.Errorf("committing metadata: %w", err)
			}

			fmt.Printf("created %s: %d extents on %s\n", lv.Name, extents, lv.Segments[0].Stripes[0].PvName)
			return nil
		},
	}
}
