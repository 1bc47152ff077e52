package cmd

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "APPCONFIG"

// Settings is the resolved CLI configuration. Flags win over APPCONFIG_*
// environment variables, which win over defaults.
type Settings struct {
	Project     string `mapstructure:"project" validate:"required"`
	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFile     string `mapstructure:"log_file"`
	Parallelism int    `mapstructure:"parallelism" validate:"gte=1"`
}

// settingFlags maps setting keys to the flag that can set them.
var settingFlags = map[string]string{
	"project":     "project",
	"log_level":   "log-level",
	"log_file":    "log-file",
	"parallelism": "parallelism",
}

var validate = validator.New()

func loadSettings(cmd *cobra.Command) (Settings, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("project", ".")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("parallelism", runtime.NumCPU())

	for key, name := range settingFlags {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return Settings{}, err
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, err
	}
	if err := validate.Struct(s); err != nil {
		return Settings{}, err
	}

	project, err := filepath.Abs(s.Project)
	if err != nil {
		return Settings{}, err
	}
	s.Project = project
	return s, nil
}
