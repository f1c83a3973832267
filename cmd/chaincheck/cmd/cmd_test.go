package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/checkchain/pkg/rop"
	"github.com/ib-77/checkchain/pkg/rop/batch"
	"github.com/ib-77/checkchain/pkg/rop/rules"
)

const fruitRules = `name: fruit
null_skip: true
fields:
  - name: name
    rules:
      - kind: not_blank
      - kind: regex
        pattern: '[a-z]+'
  - name: price
    rules:
      - kind: number_between
        min: "0"
        max: "10"
        reason: "{object}: {fieldName} {fieldValue} is out of range"
`

const strictRules = `
[[fields]]
name = "price"

  [[fields.rules]]
  kind = "number_between"
  min = "0"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command; flag variables are package state, so they are reset first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rulesFile, workers, keepGoing, outputFormat, ignoreKinds = "", batch.DefaultWorkers, false, "text", nil
	verbose, logFormat = false, "text"

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidate_Pass(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.yaml", fruitRules)
	doc := writeFile(t, dir, "kiwi.json", `{"name": "kiwi", "price": 2.5}`)
	noPrice := writeFile(t, dir, "fig.toml", `name = "fig"`)

	out, err := execute(t, "validate", "--rules", rulesPath, doc, noPrice)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  "+doc)
	assert.Contains(t, out, "PASS  "+noPrice)
	assert.Contains(t, out, "2 documents: 2 passed, 0 failed, 0 faulted")
}

func TestValidate_FailJSON(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.yaml", fruitRules)
	ok := writeFile(t, dir, "kiwi.yaml", "name: kiwi\nprice: 3\n")
	bad := writeFile(t, dir, "mango.yaml", "name: mango\nprice: 12\n")
	blank := writeFile(t, dir, "blank.yaml", "name: ' '\nprice: 1\n")

	out, err := execute(t, "validate", "-r", rulesPath, "-o", "json", ok, bad, blank)
	require.ErrorIs(t, err, ErrValidationFailed)

	var got []verdict
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)

	assert.Equal(t, "pass", got[0].Status)
	assert.Empty(t, got[0].Reason)
	assert.Equal(t, "fail", got[1].Status)
	assert.Equal(t, "fruit: price 12 is out of range", got[1].Reason)
	assert.Equal(t, "fail", got[2].Status)
	assert.Equal(t, "[name] must not be blank", got[2].Reason)
	for i, v := range got {
		assert.NotEmpty(t, v.ID, "verdict %d", i)
	}
}

func TestValidate_FaultWithoutNullSkip(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "strict.toml", strictRules)
	doc := writeFile(t, dir, "empty.yaml", "name: nothing\n")

	out, err := execute(t, "validate", "--rules", rulesPath, "--workers", "1", doc)
	require.Error(t, err)
	assert.True(t, rop.IsFaultError(err))
	assert.Contains(t, out, "FAULT "+doc)
	assert.Contains(t, out, "0 passed, 0 failed, 1 faulted")
}

func TestValidate_IgnoreKinds(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.yaml", fruitRules)
	bad := writeFile(t, dir, "mango.yaml", "name: mango\nprice: 12\n")

	out, err := execute(t, "validate", "--rules", rulesPath, "--ignore", "number_between", bad)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed")
}

func TestValidate_BadInputs(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.yaml", fruitRules)
	broken := writeFile(t, dir, "broken.yaml", "fields:\n  - name: a\n    rules:\n      - kind: size_between\n        min: \"3\"\n        max: \"1\"\n")
	doc := writeFile(t, dir, "kiwi.yaml", "name: kiwi\n")

	_, err := execute(t, "validate", "--rules", broken, doc)
	assert.Error(t, err)

	_, err = execute(t, "validate", "--rules", rulesPath, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "validate", "--rules", rulesPath, "--output", "xml", doc)
	assert.Error(t, err)

	_, err = execute(t, "validate", "--rules", rulesPath, "--log-format", "xml", doc)
	assert.Error(t, err)
}

func TestLint(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.yaml", fruitRules)

	out, err := execute(t, "lint", rulesPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2 fields, 3 rules (null_skip=true, use_catch=false)")
}

func TestLint_ListsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "rules.yaml", fruitRules)
	bad := writeFile(t, dir, "bad.yaml", `fields:
  - name: a
    rules:
      - kind: shiny
      - kind: regex
  - rules: []
`)

	out, err := execute(t, "lint", good, bad)
	require.ErrorIs(t, err, rules.ErrInvalidRule)
	assert.Contains(t, out, good+": 2 fields, 3 rules")
	assert.Contains(t, out, `unknown kind "shiny"`)
	assert.Contains(t, out, "regex rule without pattern")
	assert.Contains(t, out, "field #1 has no name")
	assert.Equal(t, 3, strings.Count(out, bad+": "))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "chaincheck v"+Version)
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := newLogger(buf, "json", true)
	require.NoError(t, err)
	logger.Debug("applying rule", "kind", "regex")
	assert.Contains(t, buf.String(), `"msg":"applying rule"`)

	buf.Reset()
	logger, err = newLogger(buf, "text", false)
	require.NoError(t, err)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	_, err = newLogger(buf, "xml", false)
	assert.Error(t, err)
}
