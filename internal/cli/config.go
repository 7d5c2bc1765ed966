package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/equiv"
	"github.com/roach88/typematrix/internal/harness"
)

const (
	configFileName = "typematrix"
	configFileType = "yaml"
	envPrefix      = "TYPEMATRIX"

	cfgKeyFormat   = "format"
	cfgKeyTarget   = "target"
	cfgKeyPlans    = "plans"
	cfgKeyRuns     = "runs"
	cfgKeyFloat32  = "epsilon.float32"
	cfgKeyFloat64  = "epsilon.float64"
	defaultVerifyN = 2
)

// Settings is the resolved configuration a command runs with.
// Precedence: flag, environment, config file, default.
type Settings struct {
	Format     string
	Target     catalog.Target
	Plans      []string
	Runs       int
	Tolerances equiv.Tolerances
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	cfgKeyFormat: "format",
	cfgKeyTarget: "target",
	cfgKeyRuns:   "runs",
}

// loadSettings reads typematrix.yaml, TYPEMATRIX_* variables and the
// command's flags. An explicit configFile must exist; the default lookup in
// the working directory may find nothing.
func loadSettings(configFile string, flags *pflag.FlagSet) (Settings, error) {
	v := viper.New()
	tol := equiv.DefaultTolerances()
	v.SetDefault(cfgKeyFormat, "text")
	v.SetDefault(cfgKeyTarget, catalog.HostTarget().Arch)
	v.SetDefault(cfgKeyPlans, harness.BuiltinPlanNames())
	v.SetDefault(cfgKeyRuns, defaultVerifyN)
	v.SetDefault(cfgKeyFloat32, tol.Float32)
	v.SetDefault(cfgKeyFloat64, tol.Float64)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Settings{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	s := Settings{
		Format: v.GetString(cfgKeyFormat),
		Plans:  v.GetStringSlice(cfgKeyPlans),
		Runs:   v.GetInt(cfgKeyRuns),
		Tolerances: equiv.Tolerances{
			Float32: v.GetFloat64(cfgKeyFloat32),
			Float64: v.GetFloat64(cfgKeyFloat64),
		},
	}
	if !isValidFormat(s.Format) {
		return Settings{}, fmt.Errorf("invalid format %q: must be one of %v", s.Format, ValidFormats)
	}
	target, err := catalog.LookupTarget(v.GetString(cfgKeyTarget))
	if err != nil {
		return Settings{}, err
	}
	s.Target = target
	if s.Tolerances.Float32 <= 0 || s.Tolerances.Float64 <= 0 {
		return Settings{}, fmt.Errorf("epsilon must be positive, got float32=%g float64=%g",
			s.Tolerances.Float32, s.Tolerances.Float64)
	}
	return s, nil
}
