package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slots = `{
	"Head": [
		{"Name": "A", "Weight": 2, "Power": 5},
		{"Name": "B", "Weight": 1, "Power": 3}
	],
	"Body": [
		{"Name": "C", "Weight": 3, "Power": 8},
		{"Name": "D", "Weight": 2, "Power": 4}
	]
}`

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "slots.json")
	require.NoError(t, os.WriteFile(path, []byte(slots), 0o600))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), append(args, "--log-level", "disabled"), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Flags(t *testing.T) {
	path := writeDataset(t)

	code, out, stderr := runCLI(t, "", "-d", path, "-b", "4", "-o", "Power")

	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "\nOptimal Armor Configuration:\nHead: B\nBody: C\n\nTotal Stats:\nPower: 11\t\n", out)
}

func TestRun_Prompts(t *testing.T) {
	path := writeDataset(t)

	code, out, stderr := runCLI(t, "4\n1\n", "--dataset", path)

	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, "Enter the weight cap: ")
	assert.Contains(t, out, "Select a parameter to maximize:\n1. Power \n")
	assert.Contains(t, out, "Enter the number of the parameter: ")
	assert.Contains(t, out, "Head: B\nBody: C\n")
}

func TestRun_JSON(t *testing.T) {
	path := writeDataset(t)

	code, out, stderr := runCLI(t, "", "-d", path, "-b", "4", "-o", "Power", "--json")

	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, `"objective": "Power"`)
	assert.Contains(t, out, `"value": 11`)
}

func TestRun_Top(t *testing.T) {
	path := writeDataset(t)

	code, out, stderr := runCLI(t, "", "-d", path, "-b", "4", "-o", "Power", "--top", "2")

	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t,
		"\nConfiguration 1 (Power 11):\nHead: B\nBody: C\n\nTotal Stats:\nPower: 11\t\n"+
			"\nConfiguration 2 (Power 9):\nHead: A\nBody: D\n\nTotal Stats:\nPower: 9\t\n",
		out)
}

func TestRun_Count(t *testing.T) {
	path := writeDataset(t)

	code, out, stderr := runCLI(t, "", "-d", path, "-b", "4", "--count")

	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "Configurations: 3\n", out)
}

func TestRun_ListAttributes(t *testing.T) {
	path := writeDataset(t)

	code, out, _ := runCLI(t, "", "-d", path, "--list-attributes")

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "Power\n", out)
}

func TestRun_Failures(t *testing.T) {
	path := writeDataset(t)

	tests := []struct {
		name      string
		stdin     string
		args      []string
		want      int
		wantError string
	}{
		{
			name:      "infeasible budget",
			args:      []string{"-d", path, "-b", "2", "-o", "Power"},
			want:      exitSolve,
			wantError: "the lightest weighs 3",
		},
		{
			name:      "unknown attribute",
			args:      []string{"-d", path, "-b", "4", "-o", "Focus"},
			want:      exitUsage,
			wantError: `unknown attribute "Focus"`,
		},
		{
			name:      "negative budget",
			args:      []string{"-d", path, "-b", "-1", "-o", "Power"},
			want:      exitUsage,
			wantError: "invalid input",
		},
		{
			name:      "menu choice out of range",
			stdin:     "4\n7\n",
			args:      []string{"-d", path},
			want:      exitUsage,
			wantError: "not between 1 and 1",
		},
		{
			name:      "budget not a number",
			stdin:     "heavy\n",
			args:      []string{"-d", path},
			want:      exitUsage,
			wantError: "is not a number",
		},
		{
			name:      "no input left",
			args:      []string{"-d", path},
			want:      exitUsage,
			wantError: "reading weight cap",
		},
		{
			name:      "no dataset",
			args:      []string{"-b", "4"},
			want:      exitUsage,
			wantError: "no dataset given",
		},
		{
			name:      "missing dataset file",
			args:      []string{"-d", filepath.Join(filepath.Dir(path), "absent.json"), "-b", "4"},
			want:      exitUsage,
			wantError: "reading dataset",
		},
		{
			name:      "unknown strategy",
			args:      []string{"-d", path, "-b", "4", "-o", "Power", "--strategy", "greedy"},
			want:      exitUsage,
			wantError: "solver.strategy",
		},
		{
			name: "unknown flag",
			args: []string{"--weight", "4"},
			want: exitUsage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.stdin, tt.args...)
			assert.Equal(t, tt.want, code)
			assert.Contains(t, stderr, tt.wantError)
		})
	}
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI(t, "", "--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "--dataset")
}
