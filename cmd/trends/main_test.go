package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trendcli/internal/errors"
	"trendcli/internal/infrastructure"
	"trendcli/internal/shared/testutil"
)

// inTempDir runs the test from an empty working directory, since default
// paths resolve against it.
func inTempDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		infrastructure.ResetLoggerForTesting()
		_ = os.Chdir(wd)
	})
	return dir
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_EndToEnd(t *testing.T) {
	dir := inTempDir(t)
	testutil.WriteFile(t, dir, "data/2015/offender_sex_2015.csv", "Male,Female\n100,50\n")

	code, stdout, _ := runCLI()
	require.Equal(t, apperrors.ExitOK, code)

	assert.Equal(t, "→ Wrote annual offender sex totals to "+filepath.Join("public", "processed", "offender_sex_trends.csv")+"\n", stdout)
	assert.Equal(t, "year,total_offender_count\n2015,150\n",
		testutil.ReadFile(t, filepath.Join(dir, "public", "processed", "offender_sex_trends.csv")))
}

func TestRun_MissingCategoryFileAborts(t *testing.T) {
	dir := inTempDir(t)
	testutil.WriteFile(t, dir, "data/2015/Offender Sex.csv", "a\n1\n")
	testutil.MakeDir(t, dir, "data/2016")

	code, stdout, _ := runCLI()
	assert.Equal(t, apperrors.ExitMissingData, code)
	assert.Empty(t, stdout)

	_, err := os.Stat(filepath.Join(dir, "public"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	dir := inTempDir(t)
	testutil.WriteFile(t, dir, "input/2016/Victim Sex.csv", "M,F\n2,3\n")
	testutil.MakeDir(t, dir, "input/2017")

	code, stdout, _ := runCLI("-data", "input", "-out", "out/victims.csv", "-dataset", "victim", "-missing", "skip")
	require.Equal(t, apperrors.ExitOK, code)

	assert.Equal(t, "→ Wrote annual victim sex totals to "+filepath.Join("out", "victims.csv")+"\n", stdout)
	assert.Equal(t, "year,total_offender_count\n2016,5\n", testutil.ReadFile(t, filepath.Join(dir, "out", "victims.csv")))
}

func TestRun_ConfigFile(t *testing.T) {
	dir := inTempDir(t)
	testutil.WriteFile(t, dir, "records/2020/offender-sex.csv", "n\n9\n")
	testutil.WriteFile(t, dir, "trends.yaml", "aggregator:\n  data_root: records\noutput:\n  path: build/totals.csv\n  xlsx_path: build/totals.xlsx\n")

	code, _, _ := runCLI()
	require.Equal(t, apperrors.ExitOK, code)

	assert.Equal(t, "year,total_offender_count\n2020,9\n", testutil.ReadFile(t, filepath.Join(dir, "build", "totals.csv")))
	assert.FileExists(t, filepath.Join(dir, "build", "totals.xlsx"))
}

func TestRun_DotEnv(t *testing.T) {
	const key = "TRENDS_AGGREGATOR_DATA_ROOT"
	// Registers a cleanup that unsets the variable again after .env sets it.
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	dir := inTempDir(t)
	testutil.WriteFile(t, dir, "from-env/2019/Offender Sex.csv", "a,b\n4,4\n")
	testutil.WriteFile(t, dir, ".env", key+"=from-env\n")

	code, _, _ := runCLI()
	require.Equal(t, apperrors.ExitOK, code)
	assert.Equal(t, "year,total_offender_count\n2019,8\n",
		testutil.ReadFile(t, filepath.Join(dir, "public", "processed", "offender_sex_trends.csv")))
}

func TestRun_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"-bogus"}},
		{name: "unknown dataset", args: []string{"-dataset", "weapons"}},
		{name: "unknown missing policy", args: []string{"-missing", "ignore"}},
		{name: "positional argument", args: []string{"data"}},
		{name: "missing config file", args: []string{"-config", "nope.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inTempDir(t)

			code, stdout, stderr := runCLI(tt.args...)
			assert.Equal(t, apperrors.ExitConfig, code)
			assert.Empty(t, stdout)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestRun_MissingDataRoot(t *testing.T) {
	inTempDir(t)

	code, stdout, _ := runCLI("-data", "absent")
	assert.Equal(t, apperrors.ExitFailure, code)
	assert.Empty(t, stdout)
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI("-version")
	assert.Equal(t, apperrors.ExitOK, code)
	assert.Contains(t, stdout, "trends v")
}

func TestDisplayPath(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "work")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"under base", filepath.Join(base, "public", "out.csv"), filepath.Join("public", "out.csv")},
		{"outside base", filepath.Join(string(filepath.Separator), "tmp", "out.csv"), filepath.Join(string(filepath.Separator), "tmp", "out.csv")},
		{"dot-dot prefixed name", filepath.Join(base, "..hidden", "out.csv"), filepath.Join("..hidden", "out.csv")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayPath(base, tt.path))
		})
	}
}
