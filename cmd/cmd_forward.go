// cmd_forward.go - Forward Command
// Hauptfunktionen: ForwardHandler, readSequences
package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tedll/tedll/envconfig"
	"github.com/tedll/tedll/ml"
	"github.com/tedll/tedll/model"
)

func newForwardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forward [IDS...]",
		Short: "Compute region embeddings of token id sequences",
		Long: `Compute region embeddings of token id sequences.

Every argument is one sequence of whitespace separated token ids. Without
arguments, sequences are read from stdin, one per line.`,
		RunE: ForwardHandler,
	}

	addModelFlags(cmd)
	cmd.Flags().Int("precision", 4, "Number of decimal places in terminal output")
	return cmd
}

// Region ist eine Ausgabe eines Layers fuer eine Sequenz
type Region struct {
	Shape []int     `json:"shape"`
	Data  []float32 `json:"data"`

	tensor ml.Tensor
}

// ForwardResult ist das Ergebnis einer Eingabezeile
type ForwardResult struct {
	Line    int      `json:"line"`
	IDs     []int32  `json:"ids"`
	Regions []Region `json:"regions"`
}

// ForwardHandler - Berechnet die Region-Embeddings aller Eingabezeilen
func ForwardHandler(cmd *cobra.Command, args []string) error {
	m, b, err := buildModel(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	var seqs [][]int32
	if len(args) > 0 {
		seqs, err = readSequences(strings.NewReader(strings.Join(args, "\n")))
	} else {
		seqs, err = readSequences(cmd.InOrStdin())
	}
	if err != nil {
		return err
	}

	results := make([]ForwardResult, len(seqs))

	var g errgroup.Group
	g.SetLimit(max(int(envconfig.NumThreads()), 1))
	for i, ids := range seqs {
		g.Go(func() error {
			ctx := b.NewContext()
			defer ctx.Close()

			outs, err := model.Forward(ctx, m, ctx.FromInts(ids, 1, len(ids)))
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}

			regions := make([]Region, len(outs))
			for j, t := range outs {
				regions[j] = Region{Shape: t.Shape(), Data: t.Floats(), tensor: t}
			}

			results[i] = ForwardResult{Line: i + 1, IDs: ids, Regions: regions}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if useTable(cmd.OutOrStdout()) {
		precision, err := cmd.Flags().GetInt("precision")
		if err != nil {
			return err
		}

		return printResults(cmd.OutOrStdout(), results, precision)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}

	return nil
}

// useTable - Tabellen nur auf Terminals, TEDLL_JSON erzwingt JSON-Zeilen
func useTable(w io.Writer) bool {
	return isTerminal(w) && !envconfig.JSONOutput()
}

// readSequences - Liest eine Sequenz von Token-IDs pro Zeile, leere Zeilen werden uebersprungen
func readSequences(r io.Reader) ([][]int32, error) {
	var seqs [][]int32

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		ids := make([]int32, len(fields))
		for i, f := range fields {
			id, err := strconv.ParseInt(f, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid token id %q", n, f)
			}
			ids[i] = int32(id)
		}

		seqs = append(seqs, ids)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return seqs, nil
}

// printResults - Gibt die Ergebnisse als Tabelle aus
func printResults(w io.Writer, results []ForwardResult, precision int) error {
	var data [][]string
	for _, r := range results {
		for _, region := range r.Regions {
			data = append(data, []string{
				strconv.Itoa(r.Line),
				formatShape(region.Shape),
				ml.Dump(region.tensor, ml.DumpWithPrecision(precision)),
			})
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"LINE", "SHAPE", "REGIONS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}
