package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arm-software/astcenc-bridge/astc"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "info <file.astc>...",
		Short:       "Print .astc header information",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			headers := []string{"File", "Size", "Block", "Format", "Blocks", "Payload"}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignRight, alignRight}
			rows := make([][]string, 0, len(args))
			var failed bool
			for _, path := range args {
				row, err := describeAstcFile(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed = true
					continue
				}
				rows = append(rows, row)
			}
			if len(rows) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns, nil))
			}
			if failed {
				return errRequestsFailed
			}
			return nil
		},
	}
}

func describeAstcFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	h, blocks, err := astc.ParseFile(data)
	if err != nil {
		return nil, err
	}
	_, _, _, total, err := h.BlockCount()
	if err != nil {
		return nil, err
	}
	fp := h.Footprint()
	return []string{
		path,
		fmt.Sprintf("%dx%dx%d", h.SizeX, h.SizeY, h.SizeZ),
		fmt.Sprintf("%dx%dx%d", h.BlockX, h.BlockY, h.BlockZ),
		fp.Format().String(),
		formatBytes(total),
		formatBytes(len(blocks)),
	}, nil
}
