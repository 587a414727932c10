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

	"order-intake/internal/intake/model"
)

const testCatalogCSV = `Name,Category,Supplier
Cucumber,Vegetables,Green Farm
Tomato,Vegetables,Green Farm
Eggs,Dairy,Farm Fresh
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogCSV), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	catalog := writeCatalog(t)
	out, err := run(t, "Cucumber4pcs\nTomato 5 kg\nEggs 30\nXyzzy Widget 2\n", "parse", "--catalog", catalog)
	require.NoError(t, err)

	var got struct {
		Cards []model.DispatchCard `json:"cards"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Cards, 3)
	assert.Equal(t, "Green Farm", got.Cards[0].SupplierName)
	assert.Len(t, got.Cards[0].Items, 2)
	assert.Equal(t, "Farm Fresh", got.Cards[1].SupplierName)
	assert.Equal(t, model.NewItemsSupplier, got.Cards[2].SupplierName)
	assert.InDelta(t, 2, got.Cards[2].Items[0].Quantity, 0)
}

func TestParseCommandFromFile(t *testing.T) {
	catalog := writeCatalog(t)
	input := filepath.Join(t.TempDir(), "order.txt")
	require.NoError(t, os.WriteFile(input, []byte("Tomato 3\n"), 0o600))

	out, err := run(t, "", "parse", "--catalog", catalog, "--input", input, "--lines")
	require.NoError(t, err)
	assert.Contains(t, out, `"lines"`)
	assert.Contains(t, out, `"Tomato"`)
}

func TestQuickCommand(t *testing.T) {
	catalog := writeCatalog(t)
	out, err := run(t, "", "quick", "--catalog", catalog, "Egg", "30")
	require.NoError(t, err)

	var got struct {
		Item     model.CatalogItem `json:"item"`
		Quantity float64           `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Eggs", got.Item.Name)
	assert.InDelta(t, 30, got.Quantity, 0)

	_, err = run(t, "", "quick", "--catalog", catalog, "Banana 2")
	assert.ErrorIs(t, err, errNoMatch)
}

func TestCatalogFlagRequired(t *testing.T) {
	_, err := run(t, "", "quick", "Egg 30")
	assert.Error(t, err)
}
