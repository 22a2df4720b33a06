// Package printer renders everestctl output.
package printer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// StyleKubeCtl renders a table the way kubectl does.
//
//nolint:gochecknoglobals
var StyleKubeCtl = table.Style{
	Name:    "StyleKubeCtl",
	Box:     table.StyleBoxDefault,
	Color:   table.ColorOptionsDefault,
	Format:  table.FormatOptionsDefault,
	HTML:    table.DefaultHTMLOptions,
	Options: table.OptionsNoBordersAndSeparators,
	Title:   table.TitleOptionsDefault,
}

//nolint:gochecknoglobals
var (
	BoldGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	BoldRed   = color.New(color.FgRed, color.Bold).SprintFunc()
)

type TablePrinter struct {
	tbl table.Writer
}

func NewTablePrinter(out io.Writer) *TablePrinter {
	t := table.NewWriter()
	t.SetStyle(StyleKubeCtl)
	t.SetOutputMirror(out)
	return &TablePrinter{tbl: t}
}

func (t *TablePrinter) SetHeader(header ...any) {
	t.tbl.AppendHeader(header)
}

func (t *TablePrinter) AddRow(row ...any) {
	t.tbl.AppendRow(table.Row(row))
}

func (t *TablePrinter) Print() {
	t.tbl.Render()
}

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(out io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
