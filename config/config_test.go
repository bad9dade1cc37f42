package config

import (
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.GetInt(ConfigDefaultDepth), 5)
	is.Equal(c.GetBool(ConfigBootstrapDefenderHand), true)
	is.Equal(c.GetBool(ConfigDebug), false)
	is.Equal(c.GetString(ConfigNatsSubject), "tsume.solve")
}

func TestFlags(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"--default-depth", "7", "--debug", "--bootstrap-defender-hand=false"})
	is.NoErr(err)
	is.Equal(c.GetInt(ConfigDefaultDepth), 7)
	is.True(c.GetBool(ConfigDebug))
	is.True(!c.GetBool(ConfigBootstrapDefenderHand))
}

func TestArgsAfterFlags(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{"--default-depth", "3", "solve", "-depth", "7"}))
	is.Equal(c.GetInt(ConfigDefaultDepth), 3)
	is.Equal(c.Args(), []string{"solve", "-depth", "7"})
}

func TestBadFlag(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.True(c.Load([]string{"--no-such-flag"}) != nil)
}

func TestEnvironment(t *testing.T) {
	is := is.New(t)
	t.Setenv("TSUME_DEFAULT_DEPTH", "9")
	t.Setenv("TSUME_DB_PATH", "/tmp/solutions.db")
	c := DefaultConfig()
	is.Equal(c.GetInt(ConfigDefaultDepth), 9)
	is.Equal(c.GetString(ConfigDBPath), "/tmp/solutions.db")
}

func TestAdjustRelativePaths(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{"--db-path", "./tsume.db"}))
	c.AdjustRelativePaths("/opt/tsume")
	is.Equal(c.GetString(ConfigDBPath), "/opt/tsume/tsume.db")
	is.Equal(c.GetString(ConfigProblemsPath), "/opt/tsume/data/problems")
}

func TestSanitizedSettings(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	s := c.SanitizedSettings()
	is.Equal(s[ConfigNatsURL], "********")
	is.Equal(s[ConfigDefaultDepth], 5)
}
