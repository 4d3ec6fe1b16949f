package deployments

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const mangroveDocument = `[
  {
    "contractName": "Mangrove",
    "version": "2.0.0",
    "released": true,
    "networkAddresses": {
      "1": {"primaryAddress": "0x1111", "allAddresses": [{"address": "0x1111", "released": true}]},
      "137": {"primaryAddress": "0x1370"}
    }
  },
  {
    "contractName": "Mangrove",
    "deploymentName": "Mangrove",
    "version": "2.1.0",
    "released": false,
    "networkAddresses": {
      "137": {"primaryAddress": "0x1371"}
    }
  }
]`

func writeDocument(t *testing.T, root, document, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(document))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
