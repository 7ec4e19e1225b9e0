// cmd_inspect.go - Inspect Command
// Hauptfunktionen: InspectHandler
package cmd

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tedll/tedll/model"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the variables of a layer",
		Args:  cobra.NoArgs,
		RunE:  InspectHandler,
	}

	addModelFlags(cmd)
	return cmd
}

// InspectHandler - Listet die Variablen eines Layers mit Shape und Anzahl auf
func InspectHandler(cmd *cobra.Command, args []string) error {
	m, b, err := buildModel(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	p := message.NewPrinter(language.English)

	var data [][]string
	for _, name := range b.Variables() {
		shape := b.Get(name).Shape()
		data = append(data, []string{name, formatShape(shape), p.Sprintf("%d", numel(shape))})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"NAME", "SHAPE", "PARAMS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	fmt.Fprintln(cmd.OutOrStdout(), p.Sprintf("\ntotal parameters: %d", model.ParameterCount(m)))
	return nil
}

// formatShape - Formatiert eine Shape als (d0, d1, ...)
func formatShape(shape []int) string {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = fmt.Sprint(d)
	}

	return "(" + strings.Join(dims, ", ") + ")"
}

func numel(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
