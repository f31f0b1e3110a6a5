package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectIsins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isins.txt")
	err := os.WriteFile(path, []byte("# watchlist\nFR0010017731\n\n  LU0119750205  \n"), 0600)
	if err != nil {
		t.Fatal(err)
	}

	isins, err := collectIsins([]string{"FR0000989626"}, path, []string{"XX0000000000"})
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []string{"FR0000989626", "FR0010017731", "LU0119750205"}, isins)

	isins, err = collectIsins(nil, "", []string{"XX0000000000"})
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []string{"XX0000000000"}, isins)

	_, err = collectIsins(nil, "", nil)
	require.Error(t, err)

	_, err = collectIsins(nil, filepath.Join(t.TempDir(), "missing.txt"), nil)
	require.ErrorIs(t, err, os.ErrNotExist)
}
