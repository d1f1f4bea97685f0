package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRepairCommand(t *testing.T) {
	out, err := execute(t, `{"drafts": [{"items": [{"qty": 2, "unit_price": 50}]}]}`, "repair")
	require.NoError(t, err)

	var bundle map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &bundle))
	assert.Equal(t, "QUOTATION", bundle["doc_type"])
	draft := bundle["drafts"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 100.0, draft["totals"].(map[string]interface{})["grand_total"])
}

func TestRepairCommand_Text(t *testing.T) {
	out, err := execute(t, "Sure!\n```json\n{\"doc_type\": \"TAX_INVOICE\", \"drafts\": [{}]}\n```", "repair", "--text")
	require.NoError(t, err)
	assert.Contains(t, out, `"doc_type": "TAX_INVOICE"`)
}

func TestValidateCommand(t *testing.T) {
	repaired, err := execute(t, `{"drafts": [{}]}`, "repair")
	require.NoError(t, err)

	out, err := execute(t, repaired, "validate")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true, "errors": []}`, out)

	out, err = execute(t, `{"doc_type": "TAX_INVOICE"}`, "validate")
	assert.ErrorIs(t, err, errInvalidBundle)
	assert.Contains(t, out, `"ok": false`)

	_, err = execute(t, `{not json`, "validate")
	assert.Error(t, err)
}

func TestTotalsCommand(t *testing.T) {
	out, err := execute(t, `{"items": [{"qty": 1, "unit_price": 10, "tax_rate": 5}]}`, "totals")
	require.NoError(t, err)

	var draft map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &draft))
	totals := draft["totals"].(map[string]interface{})
	assert.Equal(t, 10.5, totals["subtotal"].(float64)+totals["tax_total"].(float64))
	assert.Equal(t, 11.0, totals["grand_total"])
}

func TestUPICommand(t *testing.T) {
	out, err := execute(t, "", "upi", "--id", "acme@upi", "--payee", "Acme Solutions", "--amount", "99.5", "--note", "Advance")
	require.NoError(t, err)
	assert.Equal(t, "upi://pay?pa=acme%40upi&pn=Acme%20Solutions&am=99.50&cu=INR&tn=Advance\n", out)

	_, err = execute(t, "", "upi", "--id", "acme@upi", "--payee", "Acme", "--amount", "ten")
	assert.Error(t, err)

	_, err = execute(t, "", "upi", "--payee", "Acme")
	assert.Error(t, err)
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"drafts"`)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bundle.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"drafts": [{"doc_meta": {"doc_no": "Q-1"}, "items": [{}]}]}`), 0o600))

	target := filepath.Join(dir, "out.csv")
	_, err := execute(t, "", "export", input, "--format", "csv", "-o", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Q-1")

	out, err := execute(t, `{"drafts": [{}]}`, "export", "-f", "xlsx", "-o", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "PK"))

	_, err = execute(t, `{}`, "export", "-f", "docx")
	assert.Error(t, err)
}
