package localpath

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandBlank(t *testing.T) {
	assert.Equal(t, "", Expand(""))
	assert.Equal(t, "", Expand("   "))
}

func TestExpandHome(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "maps", "topology.tpl"), Expand("~/maps/topology.tpl"))
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("TOPO_DATA", "/srv/data")
	assert.Equal(t, filepath.Clean("/srv/data/alps.xcm"), Expand("$TOPO_DATA/alps.xcm"))
}

func TestExpandCleans(t *testing.T) {
	assert.Equal(t, filepath.Clean("/a/b/c.tpl"), Expand(" /a//b/./c.tpl "))
}
