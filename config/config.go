package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug                 = "debug"
	ConfigDefaultDepth          = "default-depth"
	ConfigDBPath                = "db-path"
	ConfigNatsURL               = "nats-url"
	ConfigNatsSubject           = "nats-subject"
	ConfigProblemsPath          = "problems-path"
	ConfigCPUProfile            = "cpu-profile"
	ConfigMemProfile            = "mem-profile"
	ConfigBootstrapDefenderHand = "bootstrap-defender-hand"
)

// Config wraps a viper instance. Every key can be set with a command-line
// flag or with an environment variable: default-depth is TSUME_DEFAULT_DEPTH.
type Config struct {
	*viper.Viper
	args []string
}

// secretKeys are hidden by SanitizedSettings.
var secretKeys = []string{ConfigNatsURL}

func (c *Config) Load(args []string) error {
	c.Viper = viper.New()

	fs := pflag.NewFlagSet("tsume", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigDefaultDepth, 5, "search depth in plies when none is given (odd)")
	fs.String(ConfigDBPath, "", "sqlite file for storing solutions; empty disables the store")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "the NATS server URL")
	fs.String(ConfigNatsSubject, "tsume.solve", "the NATS subject the bot answers on")
	fs.String(ConfigProblemsPath, "./data/problems", "directory holding problem sets")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")
	fs.Bool(ConfigBootstrapDefenderHand, true, "give the defender every piece not on the board or in the attacker's hand")

	// flags end at the first non-flag argument, so one-shot commands
	// keep their own options
	fs.SetInterspersed(false)
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("tsume")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return nil
}

// Args returns the arguments left after the flags.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes ./ paths relative to the executable's directory.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigProblemsPath, ConfigDBPath} {
		p := c.GetString(key)
		if strings.HasPrefix(p, "./") {
			c.Set(key, filepath.Join(basepath, p))
		}
	}
}

// SanitizedSettings returns all settings with secrets masked, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	for _, k := range secretKeys {
		if _, ok := settings[k]; ok {
			settings[k] = "********"
		}
	}
	return settings
}

// DefaultConfig is the configuration with no flags and no environment.
func DefaultConfig() *Config {
	c := &Config{}
	if err := c.Load(nil); err != nil {
		panic(err)
	}
	return c
}
