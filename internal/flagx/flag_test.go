package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	got := FilterArgs([]string{"-a", "http://x", "-z", "junk"}, []string{"-a"})
	require.Equal(t, []string{"-a", "http://x"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	got := FilterArgs([]string{"--config=conf.json", "--other=1"}, []string{"--config"})
	require.Equal(t, []string{"--config=conf.json"}, got)
}

func TestFilterArgs_BoolFlagWithoutValue(t *testing.T) {
	got := FilterArgs([]string{"-demo", "-a", "http://x"}, []string{"-demo"})
	require.Equal(t, []string{"-demo"}, got)
}

func TestFilterArgs_NothingAllowed(t *testing.T) {
	got := FilterArgs([]string{"-a", "1", "-b", "2"}, nil)
	require.Empty(t, got)
}

func TestJsonConfigFlags_ShortFlag(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"cmd", "-c", "conf.json", "-a", "ignored"}
	require.Equal(t, "conf.json", JsonConfigFlags())
}

func TestJsonConfigFlags_LongForm(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"cmd", "-config=settings.json"}
	require.Equal(t, "settings.json", JsonConfigFlags())
}

func TestJsonConfigFlags_Absent(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"cmd", "-a", "http://x"}
	require.Equal(t, "", JsonConfigFlags())
}
