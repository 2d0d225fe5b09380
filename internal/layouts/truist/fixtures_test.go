package truist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// loadFixture returns the pages of testdata/statement.txt, which separates
// pages with form feeds the way pdftotext does.
func loadFixture(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "statement.txt"))
	require.NoError(t, err)
	return strings.Split(string(data), "\f")
}

// continuationPage builds a page that repeats only the table header
func continuationPage(rows ...string) string {
	var b strings.Builder
	b.WriteString("ACME WIDGETS LLC (continued)\n")
	b.WriteString("DATE DESCRIPTION AMOUNT\n")
	for _, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}
