package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"weaktrace/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(viper.New())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHelp_WritesNothing(t *testing.T) {
	for _, flag := range []string{"-h", "--help"} {
		dir := t.TempDir()
		out, err := execute(t, flag, dir, "10")
		require.NoError(t, err)
		require.Contains(t, out, "weaktrace [output_dir] [duration_seconds] [min_kbps] [max_kbps]")

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Empty(t, entries)
	}
}

func TestHelp_UsageOnStdout(t *testing.T) {
	cmd := newRootCmd(viper.New())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	require.Contains(t, stdout.String(), "Usage:")
	require.Contains(t, stdout.String(), "--up-seed")
	require.Empty(t, stderr.String())
}

func TestRoot_NegativeValues(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	_, err := execute(t, dir, "1", "-5")
	require.ErrorIs(t, err, config.ErrBadArgument)
	require.ErrorContains(t, err, "-5")

	_, err = execute(t, dir, "--", "1", "-5")
	require.ErrorContains(t, err, "min_kbps -5 must be positive")

	_, err = os.Stat(dir)
	require.True(t, os.IsNotExist(err))
}

func TestRoot_GeneratesTraces(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "5", "300", "1200")
	require.NoError(t, err)
	require.Contains(t, out, "Trace files generated successfully!")

	for _, ext := range []string{".up", ".down"} {
		_, err := os.Stat(filepath.Join(dir, "weak-network-300-1200kbps"+ext))
		require.NoError(t, err)
	}
}

func TestRoot_Flags(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "--prefix", "lte", "--up-seed", "7", "--down-seed", "8", "-q", dir, "2")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "lte-500-2000kbps.up"))
	require.NoError(t, err)
}

func TestRoot_RejectsBadArguments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	_, err := execute(t, dir, "ten")
	require.ErrorIs(t, err, config.ErrBadArgument)

	_, err = execute(t, dir, "10", "2000", "500")
	require.ErrorContains(t, err, "exceeds max_kbps")

	_, err = execute(t, dir, "1", "2", "3", "4")
	require.Error(t, err)

	_, err = os.Stat(dir)
	require.True(t, os.IsNotExist(err))
}
