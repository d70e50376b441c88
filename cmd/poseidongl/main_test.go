package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vocdoni/poseidongl"
	"github.com/vocdoni/poseidongl/field"
)

// run executes the CLI with args and returns what it wrote to stdout and
// stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(strings.NewReader(stdin), &stdout, &stderr)
	err := app.Run(append([]string{"poseidongl"}, args...))
	return stdout.String(), stderr.String(), err
}

func decimal(d poseidongl.Digest) string {
	parts := make([]string, len(d))
	for i, e := range d {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ") + "\n"
}

func hexadecimal(d poseidongl.Digest) string {
	return strings.Trim(d.String(), "[]") + "\n"
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poseidongl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestHashArgs(t *testing.T) {
	out, _, err := run(t, "", "hash", "1", "2", "0x3")
	require.NoError(t, err)
	require.Equal(t, decimal(poseidongl.Hash(field.FromRawSlice([]uint64{1, 2, 3})...)), out)

	out, _, err = run(t, "", "hash",
		"0", "18446744069414584320", "18446744069414584321", "18446744073709551615")
	require.NoError(t, err)
	require.Equal(t, "4232273098975321737 12849388521975736333 7619160321052700449 14243952864952487266\n", out)
}

func TestHashEmptyHex(t *testing.T) {
	out, _, err := run(t, "", "--format", "hex", "hash")
	require.NoError(t, err)
	require.Equal(t, "0x3c18a9786cb0b359 0xc4055e3364a246c3 0x7953db0ab48808f4 0xc71603f33a1144ca\n", out)
}

func TestHashStdin(t *testing.T) {
	out, _, err := run(t, "3 4\n5\t6\n", "hash", "--stdin", "1", "2")
	require.NoError(t, err)
	require.Equal(t, decimal(poseidongl.Hash(field.FromRawSlice([]uint64{1, 2, 3, 4, 5, 6})...)), out)
}

func TestHashLines(t *testing.T) {
	var stdin strings.Builder
	var want strings.Builder
	for n := range 40 {
		values := make([]field.Element, n%19)
		for i := range values {
			values[i] = field.FromRaw(uint64(n*100 + i))
			if i > 0 {
				stdin.WriteByte(' ')
			}
			stdin.WriteString(values[i].String())
		}
		stdin.WriteByte('\n')
		want.WriteString(decimal(poseidongl.Hash(values...)))
	}

	out, _, err := run(t, stdin.String(), "--workers", "3", "hash", "--lines")
	require.NoError(t, err)
	require.Equal(t, want.String(), out)
}

func TestHashErrors(t *testing.T) {
	_, _, err := run(t, "", "hash", "1", "nope")
	require.ErrorContains(t, err, "invalid element")

	_, _, err = run(t, "", "hash", "18446744073709551616")
	require.Error(t, err)

	_, _, err = run(t, "1 2\nfoo\n", "hash", "--lines")
	require.ErrorContains(t, err, "line 2")

	_, _, err = run(t, "", "hash", "--lines", "1")
	require.Error(t, err)
}

func TestHashCapacity(t *testing.T) {
	zeros := strings.Fields(strings.Repeat("0 ", poseidongl.Width))
	out, _, err := run(t, "", append([]string{"hash-capacity"}, zeros...)...)
	require.NoError(t, err)
	require.Equal(t, "4330397376401421145 14124799381142128323 8742572140681234676 14345658006221440202\n", out)

	_, _, err = run(t, "", append([]string{"hash-capacity"}, zeros[:8]...)...)
	require.ErrorContains(t, err, "expected 12 values")
}

func TestPermute(t *testing.T) {
	args := []string{"permute"}
	var state poseidongl.State
	for i := range state {
		state[i] = field.FromRaw(uint64(i))
		args = append(args, state[i].String())
	}
	out, _, err := run(t, "", args...)
	require.NoError(t, err)

	permuted := poseidongl.Permute(state)
	parts := make([]string, len(permuted))
	for i, e := range permuted {
		parts[i] = e.String()
	}
	require.Equal(t, strings.Join(parts, " ")+"\n", out)
}

func TestVectors(t *testing.T) {
	out, _, err := run(t, "", "--format", "hex", "vectors")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)

	published := "0x3c18a9786cb0b359 0xc4055e3364a246c3 0x7953db0ab48808f4 0xc71603f33a1144ca"
	require.True(t, strings.HasPrefix(lines[0], "permute(0^12)"))
	require.Contains(t, lines[0], published)
	require.True(t, strings.HasSuffix(lines[1], published))
	require.True(t, strings.HasSuffix(lines[3], published))
	require.Equal(t, hexadecimal(poseidongl.Hash(make([]field.Element, poseidongl.Width)...)),
		strings.TrimSpace(strings.TrimPrefix(lines[2], "hash(0^12)"))+"\n")
}

func TestConfigFile(t *testing.T) {
	path := writeConfig(t, `
format = "hex"
workers = 3

[log]
level = "debug"
json = true
`)
	out, logs, err := run(t, "", "--config", path, "hash", "7")
	require.NoError(t, err)
	require.Equal(t, hexadecimal(poseidongl.Hash(field.FromRaw(7))), out)
	require.Contains(t, logs, `"message":"configuration loaded"`)
	require.Contains(t, logs, `"workers":3`)

	// flags win over the file
	out, _, err = run(t, "", "--config", path, "--format", "dec", "hash", "7")
	require.NoError(t, err)
	require.Equal(t, decimal(poseidongl.Hash(field.FromRaw(7))), out)
}

func TestConfigErrors(t *testing.T) {
	_, _, err := run(t, "", "--config", writeConfig(t, `colour = "red"`), "vectors")
	require.ErrorContains(t, err, "unknown key")

	_, _, err = run(t, "", "--config", writeConfig(t, `format = 3`), "vectors")
	require.ErrorContains(t, err, "read config")

	_, _, err = run(t, "", "--config", filepath.Join(t.TempDir(), "missing.toml"), "vectors")
	require.Error(t, err)

	_, _, err = run(t, "", "--format", "base64", "vectors")
	require.ErrorContains(t, err, "invalid format")

	_, _, err = run(t, "", "--workers", "-1", "vectors")
	require.ErrorContains(t, err, "invalid workers")

	_, _, err = run(t, "", "--log.level", "loud", "vectors")
	require.ErrorContains(t, err, "invalid log level")
}

func TestConfigValidateDefaultsWorkers(t *testing.T) {
	cfg := defaultConfig()
	cfg.Workers = 0
	require.NoError(t, cfg.validate())
	require.Equal(t, runtime.NumCPU(), cfg.Workers)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("POSEIDONGL_FORMAT", "hex")
	out, _, err := run(t, "", "hash", "7")
	require.NoError(t, err)
	require.Equal(t, hexadecimal(poseidongl.Hash(field.FromRaw(7))), out)

	t.Setenv("POSEIDONGL_LOG_JSON", "true")
	t.Setenv("POSEIDONGL_LOG_LEVEL", "debug")
	_, logs, err := run(t, "", "hash", "7")
	require.NoError(t, err)
	require.Contains(t, logs, `"level":"debug"`)
}

func TestConstraintsRejectsCurves(t *testing.T) {
	_, _, err := run(t, "", "constraints", "--curve", "nope")
	require.ErrorContains(t, err, "unknown curve")

	_, _, err = run(t, "", "constraints", "--curve", "secp256k1")
	require.ErrorContains(t, err, "not supported")

	_, _, err = run(t, "", "constraints", "--inputs", "-2")
	require.ErrorContains(t, err, "invalid number of inputs")
}

func TestConstraintsSolve(t *testing.T) {
	if testing.Short() {
		t.Skip("compiles an emulated circuit")
	}
	out, logs, err := run(t, "", "--log.json", "constraints", "--node", "--solve")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "curve=bn254 builder=r1cs constraints="), out)
	require.Contains(t, logs, `"message":"circuit solved"`)
}
