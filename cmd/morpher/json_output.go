package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	formatAuto  = "auto"
	formatTable = "table"
	formatJSON  = "json"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// wantTable reports whether list output should be a table. Auto picks a
// table for terminals and JSON otherwise.
func wantTable(cmd *cobra.Command, format string) (bool, error) {
	switch format {
	case formatTable:
		return true, nil
	case formatJSON:
		return false, nil
	case formatAuto, "":
		return isTerminal(cmd.OutOrStdout()), nil
	default:
		return false, fmt.Errorf("unsupported output format %q (use auto, table or json)", format)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// emit renders rows as a table or v as JSON.
func emit(cmd *cobra.Command, ctx *commandContext, v any, cols []column, rows [][]string) error {
	table, err := wantTable(cmd, ctx.outputFormat())
	if err != nil {
		return err
	}
	if !table {
		return writeJSON(cmd, v)
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "(none)")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(cols, rows))
	return nil
}
