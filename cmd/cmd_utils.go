// cmd_utils.go - Gemeinsame Flags und Layer-Erstellung
// Hauptfunktionen: addModelFlags, buildModel, isTerminal
package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tedll/tedll/envconfig"
	"github.com/tedll/tedll/ml"
	"github.com/tedll/tedll/ml/nn/pooling"
	"github.com/tedll/tedll/model"
	_ "github.com/tedll/tedll/model/region"
)

// addModelFlags - Registriert die Flags zur Beschreibung eines Layers
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().String("arch", "scalar_region", "Layer architecture")
	cmd.Flags().Int("vocab", 0, "Vocabulary size")
	cmd.Flags().Int("emb", 0, "Embedding size")
	cmd.Flags().Int("win", 3, "Window size")
	cmd.Flags().IntSlice("win-sizes", nil, "Window sizes (multi_region only)")
	cmd.Flags().String("merge", "sum", "Merge function over the window axis (sum, mean, max)")
	cmd.Flags().String("name", "", "Variable name prefix (default depends on the architecture)")
	cmd.Flags().Uint64("seed", 0, "Seed for variable initializers (default $TEDLL_SEED)")
}

// buildModel - Erstellt Backend und Layer aus den Flags
// Der Aufrufer muss das Backend schliessen.
func buildModel(cmd *cobra.Command) (model.Model, ml.Backend, error) {
	flags := cmd.Flags()

	arch, err := flags.GetString("arch")
	if err != nil {
		return nil, nil, err
	}

	var c model.Config
	if c.Name, err = flags.GetString("name"); err != nil {
		return nil, nil, err
	}
	if c.VocabSize, err = flags.GetInt("vocab"); err != nil {
		return nil, nil, err
	}
	if c.EmbSize, err = flags.GetInt("emb"); err != nil {
		return nil, nil, err
	}
	if c.WinSize, err = flags.GetInt("win"); err != nil {
		return nil, nil, err
	}
	if c.WinSizes, err = flags.GetIntSlice("win-sizes"); err != nil {
		return nil, nil, err
	}

	merge, err := flags.GetString("merge")
	if err != nil {
		return nil, nil, err
	}
	pt, err := pooling.ParseType(merge)
	if err != nil {
		return nil, nil, err
	}
	c.Merge = pt.Merge()

	seed := envconfig.Seed()
	if flags.Changed("seed") {
		if seed, err = flags.GetUint64("seed"); err != nil {
			return nil, nil, err
		}
	}

	b, err := ml.NewBackend(envconfig.Backend(), ml.BackendParams{Seed: seed})
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("building layer", "arch", arch, "vocab", c.VocabSize, "emb", c.EmbSize, "win", c.WinSize, "win_sizes", c.WinSizes, "merge", pt, "seed", seed)
	m, err := model.New(arch, b, c)
	if err != nil {
		b.Close()
		return nil, nil, err
	}

	return m, b, nil
}

// isTerminal - Prueft ob w ein Terminal ist
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
