package demangle

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"
)

// readLines loads one line per record, skipping empty lines; lines are not
// otherwise trimmed.
func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	return lines
}

// checkSnapshot demangles every symbol in symbolsFile under cfg and asserts
// the result matches goldenFile line for line. On a mismatch it renders a
// character-level diff of the offending line instead of a bare string
// inequality, since demangled declarations are long enough that spotting
// the actual divergence by eye is otherwise tedious.
func checkSnapshot(t *testing.T, symbolsFile, goldenFile string, cfg Config) {
	t.Helper()
	symbols := readLines(t, filepath.Join("testdata", symbolsFile))
	golden := readLines(t, filepath.Join("testdata", goldenFile))
	require.Equal(t, len(symbols), len(golden), "symbol list and golden file must have the same number of lines")

	dmp := diffmatchpatch.New()
	for i, sym := range symbols {
		got, err := Demangle(sym, cfg)
		require.NoErrorf(t, err, "symbol %q failed to demangle", sym)
		if got != golden[i] {
			diffs := dmp.DiffMain(golden[i], got, false)
			t.Errorf("mismatch for %q:\n%s", sym, dmp.DiffPrettyText(diffs))
		}
	}
}

func TestSnapshotCoreSymbols(t *testing.T) {
	checkSnapshot(t, "symbols_core.txt", "golden_core_cfilt.txt", MimicCfilt())
	checkSnapshot(t, "symbols_core.txt", "golden_core_g2dem.txt", NoCfiltMimics())
}

func TestSnapshotPrimitiveSymbols(t *testing.T) {
	checkSnapshot(t, "symbols_primitives.txt", "golden_primitives_cfilt.txt", MimicCfilt())
	checkSnapshot(t, "symbols_primitives.txt", "golden_primitives_g2dem.txt", NoCfiltMimics())
}

// TestSnapshotFilesStayInSync guards against a symbol list and its golden
// file silently drifting out of line-count sync, which would otherwise
// surface as a confusing index-misaligned failure above.
func TestSnapshotFilesStayInSync(t *testing.T) {
	pairs := [][2]string{
		{"symbols_core.txt", "golden_core_cfilt.txt"},
		{"symbols_core.txt", "golden_core_g2dem.txt"},
		{"symbols_primitives.txt", "golden_primitives_cfilt.txt"},
		{"symbols_primitives.txt", "golden_primitives_g2dem.txt"},
	}
	for _, p := range pairs {
		t.Run(fmt.Sprintf("%s/%s", p[0], p[1]), func(t *testing.T) {
			syms := readLines(t, filepath.Join("testdata", p[0]))
			golden := readLines(t, filepath.Join("testdata", p[1]))
			require.Equal(t, len(syms), len(golden))
		})
	}
}
