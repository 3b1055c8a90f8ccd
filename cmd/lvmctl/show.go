// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	lvm2 "github.com/lvm2kit/lvm2"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [device]",
		Short: "Print a device's label, PV header and current metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			label, pv, err := lvm2.FindInDev(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			fmt.Printf("label: sector=%d offset=%d\n", label.Sector, label.Offset)
			fmt.Printf("pv: uuid=%s size=%d\n", pv.UUID, pv.Size)
			for i, a := range pv.MetadataAreas {
				fmt.Printf("mda[%d]: offset=%d size=%d\n", i, a.Offset, a.Size)
			}

			logger := newCLILogger()
			dev, err := lvm2.OpenRO(path)
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

			fmt.Printf("vg: name=%s id=%s seqno=%d extents=%d/%d\n",
				vg.Name, vg.ID, vg.Seqno, vg.ExtentsInUse(), vg.Extents())
			for _, lv := range vg.LVs() {
				fmt.Printf("  lv: %s extents=%d\n", lv.Name, lv.UsedExtents())
			}
			return nil
		},
	}
}
