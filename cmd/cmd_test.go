package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/tedll/tedll/model"
)

// run fuehrt das CLI mit den gegebenen Argumenten aus
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cli := NewCLI()
	cli.SetArgs(args)
	cli.SetIn(strings.NewReader(stdin))
	cli.SetOut(&stdout)
	cli.SetErr(&stderr)

	err := cli.Execute()
	return stdout.String(), err
}

func TestInspect(t *testing.T) {
	out, err := run(t, "", "inspect", "--vocab", "5", "--emb", "3", "--win", "3")
	require.NoError(t, err)

	for _, want := range []string{
		"NAME", "SHAPE", "PARAMS",
		"scalar_region_embedding_K", "(5, 3, 1)",
		"scalar_region_embedding_W", "(5, 3)",
		"total parameters: 30",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Ausgabe enthaelt %q nicht:\n%s", want, out)
		}
	}

	// Variablen in Erstellungsreihenfolge
	require.Less(t, strings.Index(out, "_K"), strings.Index(out, "_W"))
}

func TestInspectGroupedCount(t *testing.T) {
	out, err := run(t, "", "inspect", "--arch", "embedding", "--vocab", "1000", "--emb", "2", "--name", "tok")
	require.NoError(t, err)
	require.Contains(t, out, "tok_W")
	require.Contains(t, out, "total parameters: 2,000")
}

func TestInspectUnknownArch(t *testing.T) {
	_, err := run(t, "", "inspect", "--arch", "scalar_regin", "--vocab", "5", "--emb", "3")
	require.ErrorIs(t, err, model.ErrUnsupportedModel)
	require.Contains(t, err.Error(), `"scalar_region"`)
}

func TestInspectInvalidMerge(t *testing.T) {
	_, err := run(t, "", "inspect", "--vocab", "5", "--emb", "3", "--merge", "median")
	require.Error(t, err)
}

func TestForwardArgs(t *testing.T) {
	out, err := run(t, "", "forward", "--vocab", "5", "--emb", "3", "--win", "3", "0 1 2 3 4", "4 3 2")
	require.NoError(t, err)

	results := decodeResults(t, out)
	require.Len(t, results, 2)

	require.Equal(t, 1, results[0].Line)
	require.Equal(t, []int32{0, 1, 2, 3, 4}, results[0].IDs)
	require.Len(t, results[0].Regions, 1)
	require.Equal(t, []int{1, 3, 3}, results[0].Regions[0].Shape)
	require.Len(t, results[0].Regions[0].Data, 9)

	require.Equal(t, 2, results[1].Line)
	require.Equal(t, []int{1, 1, 3}, results[1].Regions[0].Shape)
}

func TestForwardStdin(t *testing.T) {
	out, err := run(t, "0 1 2 3 4 0 1\n\n4 3 2 1 0\n", "forward", "--arch", "multi_region", "--vocab", "5", "--emb", "2", "--win-sizes", "5,3")
	require.NoError(t, err)

	results := decodeResults(t, out)
	require.Len(t, results, 2)

	var shapes [][]int
	for _, r := range results[1].Regions {
		shapes = append(shapes, r.Shape)
	}

	if diff := cmp.Diff([][]int{{1, 3, 2}, {1, 1, 2}}, shapes); diff != "" {
		t.Errorf("Shapes (-want +got):\n%s", diff)
	}
}

func TestForwardSeed(t *testing.T) {
	args := []string{"forward", "--vocab", "5", "--emb", "3", "--seed", "9", "0 1 2 3"}

	first, err := run(t, "", args...)
	require.NoError(t, err)
	second, err := run(t, "", args...)
	require.NoError(t, err)
	require.Equal(t, first, second)

	other, err := run(t, "", "forward", "--vocab", "5", "--emb", "3", "--seed", "10", "0 1 2 3")
	require.NoError(t, err)
	require.NotEqual(t, first, other)
}

func TestForwardErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zu kurz", []string{"forward", "--vocab", "5", "--emb", "3", "--win", "3", "0 1 2", "0 1"}, "line 2"},
		{"ausserhalb", []string{"forward", "--vocab", "5", "--emb", "3", "0 1 7"}, "out of range"},
		{"keine zahl", []string{"forward", "--vocab", "5", "--emb", "3", "0 x 1"}, `invalid token id "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestForwardJSONOutput(t *testing.T) {
	t.Setenv("TEDLL_JSON", "1")

	out, err := run(t, "", "forward", "--vocab", "5", "--emb", "3", "0 1 2")
	require.NoError(t, err)
	require.Len(t, decodeResults(t, out), 1)

	// Puffer sind keine Terminals, mit und ohne TEDLL_JSON
	require.False(t, useTable(&bytes.Buffer{}))
	t.Setenv("TEDLL_JSON", "")
	require.False(t, useTable(&bytes.Buffer{}))
}

func TestForwardEnvDocs(t *testing.T) {
	out, err := run(t, "", "forward", "--help")
	require.NoError(t, err)
	for _, name := range []string{"TEDLL_DEBUG", "TEDLL_NUM_THREADS", "TEDLL_JSON"} {
		require.Contains(t, out, name)
	}

	out, err = run(t, "", "inspect", "--help")
	require.NoError(t, err)
	require.NotContains(t, out, "TEDLL_JSON")
}

func TestDebugLogsEnvironment(t *testing.T) {
	t.Setenv("TEDLL_DEBUG", "1")
	t.Setenv("TEDLL_SEED", "9")

	var stdout, stderr bytes.Buffer
	cli := NewCLI()
	cli.SetArgs([]string{"inspect", "--vocab", "5", "--emb", "3"})
	cli.SetOut(&stdout)
	cli.SetErr(&stderr)
	require.NoError(t, cli.Execute())

	require.Contains(t, stderr.String(), "environment")
	require.Contains(t, stderr.String(), "TEDLL_SEED:9")
}

func TestReadSequences(t *testing.T) {
	seqs, err := readSequences(strings.NewReader("1 2 3\n  \n4\t5\n"))
	require.NoError(t, err)

	if diff := cmp.Diff([][]int32{{1, 2, 3}, {4, 5}}, seqs); diff != "" {
		t.Errorf("readSequences (-want +got):\n%s", diff)
	}
}

func TestFormatShape(t *testing.T) {
	require.Equal(t, "(2, 3)", formatShape([]int{2, 3}))
	require.Equal(t, "()", formatShape(nil))
}

func decodeResults(t *testing.T, out string) []ForwardResult {
	t.Helper()

	var results []ForwardResult
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var r ForwardResult
		require.NoError(t, dec.Decode(&r))
		results = append(results, r)
	}

	return results
}
