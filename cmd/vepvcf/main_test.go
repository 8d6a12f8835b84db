package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vepvcf/internal/duckdb"
)

const testVCF = `##fileformat=VCFv4.2
##INFO=<ID=CSQ,Number=.,Type=String,Description="Consequence annotations from Ensembl VEP. Format: Allele|Consequence|IMPACT|SYMBOL|Gene|Feature_type|Feature|BIOTYPE|EXON|INTRON">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
1	65568	test1	A	C	.	.	CSQ=C|downstream_gene_variant|MODIFIER|OR4F5|ENSG00000186092|Transcript|ENST00000335137|protein_coding||
2	265023	.	C	T	.	.	CSQ=T|missense_variant|MODERATE|GENE2,T|intron_variant
3	319780	.	GA	G	.	.	DP=5
`

// newHome points HOME at a fresh directory so no user config is read.
func newHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCmd(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	viper.Reset()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestRun_List(t *testing.T) {
	newHome(t)
	path := writeFile(t, "in.vcf", testVCF)

	out, _, code := runCmd(t, "list", path)
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "0 1 65568 test1 A C\n1 2 265023 . C T\n2 3 319780 . GA G\n", out)
}

func TestRun_CSQ(t *testing.T) {
	newHome(t)
	path := writeFile(t, "in.vcf", testVCF)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "default eight columns",
			args: []string{"csq", path, "1"},
			want: "Allele\tConsequence\tIMPACT\tSYMBOL\tGene\tFeature_type\tFeature\tBIOTYPE\n" +
				"T\tmissense_variant\tMODERATE\tGENE2\t.\t.\t.\t.\n" +
				"T\tintron_variant\t.\t.\t.\t.\t.\t.\n",
		},
		{
			name: "column limit",
			args: []string{"csq", "--columns", "2", path, "0"},
			want: "Allele\tConsequence\nC\tdownstream_gene_variant\n",
		},
		{
			name: "all columns keeps empty values",
			args: []string{"csq", "--all-columns", path, "0"},
			want: "Allele\tConsequence\tIMPACT\tSYMBOL\tGene\tFeature_type\tFeature\tBIOTYPE\tEXON\tINTRON\n" +
				"C\tdownstream_gene_variant\tMODIFIER\tOR4F5\tENSG00000186092\tTranscript\tENST00000335137\tprotein_coding\t\t\n",
		},
		{
			name: "all records",
			args: []string{"csq", "--all", "--columns", "2", path},
			want: "#Record\tLocation\tAllele\tConsequence\n" +
				"0\t1:65568\tC\tdownstream_gene_variant\n" +
				"1\t2:265023\tT\tmissense_variant\n" +
				"1\t2:265023\tT\tintron_variant\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stderr, code := runCmd(t, tt.args...)
			require.Equal(t, ExitSuccess, code, stderr)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRun_CSQErrors(t *testing.T) {
	newHome(t)
	path := writeFile(t, "in.vcf", testVCF)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"no annotation", []string{"csq", path, "2"}, ExitError, "record 2: no CSQ annotation present"},
		{"index out of range", []string{"csq", path, "3"}, ExitError, "record 3: record index out of range"},
		{"invalid index", []string{"csq", path, "first"}, ExitUsage, `invalid record index "first"`},
		{"negative index", []string{"csq", path, "-1"}, ExitUsage, "unknown shorthand flag"},
		{"missing index", []string{"csq", path}, ExitUsage, "accepts 2 arg(s)"},
		{"missing file", []string{"csq", filepath.Join(t.TempDir(), "nope.vcf"), "0"}, ExitError, "open vcf file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stderr, code := runCmd(t, tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr, tt.wantErr)
			assert.Empty(t, out)
		})
	}
}

func TestRun_ParseErrorReportsFileLine(t *testing.T) {
	newHome(t)
	lines := strings.Split(testVCF, "\n")
	// Blank line 5 and a broken record at line 6.
	broken := strings.Join(append(lines[:4:4], "", "1\tabc\t.\tA\tC\t.\t.\t.", lines[4], lines[5]), "\n") + "\n"
	path := writeFile(t, "broken.vcf", broken)

	out, stderr, code := runCmd(t, "list", path)
	assert.Equal(t, ExitError, code)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "parse error at line 6: record parse failed")
	assert.Contains(t, stderr, "invalid position: abc")

	out, _, code = runCmd(t, "--keep-going", "list", path)
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "0 1 65568 test1 A C\n1 2 265023 . C T\n2 3 319780 . GA G\n", out)
}

func TestRun_Schema(t *testing.T) {
	newHome(t)
	path := writeFile(t, "in.vcf", testVCF)

	out, _, code := runCmd(t, "schema", path)
	require.Equal(t, ExitSuccess, code)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "0\tAllele", lines[0])
	assert.Equal(t, "9\tINTRON", lines[9])

	noCSQ := writeFile(t, "plain.vcf", "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n")
	_, stderr, code := runCmd(t, "--keep-going", "schema", noCSQ)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "CSQ schema unavailable")
}

func TestRun_Export(t *testing.T) {
	newHome(t)
	path := writeFile(t, "in.vcf", testVCF)
	dbPath := filepath.Join(t.TempDir(), "out.duckdb")

	_, stderr, code := runCmd(t, "export", path, "--db", dbPath, "--workers", "2")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stderr, "Exported 2 annotated records")

	// Up to date: nothing is re-exported.
	_, stderr, code = runCmd(t, "export", path, "--db", dbPath)
	require.Equal(t, ExitSuccess, code)
	assert.NotContains(t, stderr, "Exported")

	_, stderr, code = runCmd(t, "export", path, "--db", dbPath, "--force")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr, "Exported 2 annotated records")

	store, err := duckdb.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	values, err := store.LookupRecord(1)
	require.NoError(t, err)
	rows := duckdb.GroupRows(values)
	require.Len(t, rows, 2)
	assert.Equal(t, "GENE2", rows[0]["SYMBOL"])
	assert.Equal(t, "intron_variant", rows[1]["Consequence"])

	values, err = store.SearchByField("SYMBOL", "OR4F5")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, 0, values[0].RecordIndex)
}

func TestRun_ExportUsage(t *testing.T) {
	newHome(t)
	path := writeFile(t, "in.vcf", testVCF)

	_, stderr, code := runCmd(t, "export", path)
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "--db is required")

	_, _, code = runCmd(t, "export", "-", "--db", filepath.Join(t.TempDir(), "x.duckdb"))
	assert.Equal(t, ExitUsage, code)
}

func TestRun_Usage(t *testing.T) {
	newHome(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"annotate", "x.vcf"}},
		{"unknown flag", []string{"list", "--bogus", "x.vcf"}},
		{"bad log level", []string{"--log-level", "loud", "config"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runCmd(t, tt.args...)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, stderr, "vepvcf --help")
		})
	}
}

func TestRun_Version(t *testing.T) {
	newHome(t)
	out, _, code := runCmd(t, "--version")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "vepvcf version dev (none) built unknown\n", out)
}

func TestRun_Config(t *testing.T) {
	home := newHome(t)
	path := writeFile(t, "in.vcf", testVCF)

	out, _, code := runCmd(t, "config")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "columns: 8")
	assert.Contains(t, out, "missing:")

	out, _, code = runCmd(t, "config", "set", "csq.columns", "3")
	require.Equal(t, ExitSuccess, code)
	cfgFile := filepath.Join(home, ".vepvcf.yaml")
	assert.Equal(t, "Set csq.columns = 3 in "+cfgFile+"\n", out)
	assert.FileExists(t, cfgFile)

	out, _, code = runCmd(t, "config", "get", "csq.columns")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "3\n", out)

	// The stored value becomes the csq default.
	out, _, code = runCmd(t, "csq", path, "0")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Allele\tConsequence\tIMPACT\nC\tdownstream_gene_variant\tMODIFIER\n", out)

	_, stderr, code := runCmd(t, "config", "get", "no.such.key")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, `key "no.such.key" is not set`)
}

func TestRun_ConfigEnvOverride(t *testing.T) {
	newHome(t)
	path := writeFile(t, "in.vcf", testVCF)
	t.Setenv("VEPVCF_CSQ_MISSING", "-")

	out, _, code := runCmd(t, "csq", "--columns", "5", path, "1")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Allele\tConsequence\tIMPACT\tSYMBOL\tGene\n"+
		"T\tmissense_variant\tMODERATE\tGENE2\t-\n"+
		"T\tintron_variant\t-\t-\t-\n", out)
}
