package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config locates the store on disk.
type Config interface {
	BasePath() string
}

// Dir is a Config rooted at a fixed directory.
type Dir string

func (d Dir) BasePath() string {
	return string(d)
}

// LogName is the default log file, kept in the store directory. The leading
// dot keeps it out of listings and the watcher.
const LogName = ".inkpad.log"

// Settings is everything read from the .inkpad config file and INKPAD_*
// environment variables.
type Settings struct {
	Path      string
	Extension string

	Width  int
	Height int

	Quiet       time.Duration
	MinRefresh  time.Duration
	Flush       time.Duration
	Screensaver time.Duration
	Sleep       time.Duration
	FnHold      time.Duration
	Status      time.Duration

	SimPartial time.Duration
	SimFull    time.Duration

	LogFile string
	Debug   bool
}

func (s *Settings) BasePath() string {
	return s.Path
}

func defaults(v *viper.Viper) {
	v.SetDefault("path", "~/.inkpad")
	v.SetDefault("extension", ".txt")
	v.SetDefault("display.width", 400)
	v.SetDefault("display.height", 300)
	v.SetDefault("timing.quiet", "500ms")
	v.SetDefault("timing.min_refresh", "50ms")
	v.SetDefault("timing.flush", "2s")
	v.SetDefault("timing.screensaver", "2m")
	v.SetDefault("timing.sleep", "10m")
	v.SetDefault("timing.fn_hold", "2s")
	v.SetDefault("timing.status", "2s")
	v.SetDefault("sim.partial", "300ms")
	v.SetDefault("sim.full", "1500ms")
	v.SetDefault("log.file", "")
	v.SetDefault("log.debug", false)
}

// LoadConfig reads .inkpad.yaml from $INKPAD_CONFIG_PATH, the working
// directory or $HOME. A missing file is fine; every key has a default.
func LoadConfig() (*Settings, error) {
	v := viper.New()
	defaults(v)
	v.SetConfigName(".inkpad") // .yaml is implicit
	v.SetEnvPrefix("INKPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("INKPAD_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	ext := v.GetString("extension")
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	s := &Settings{
		Path:        path,
		Extension:   ext,
		Width:       v.GetInt("display.width"),
		Height:      v.GetInt("display.height"),
		Quiet:       v.GetDuration("timing.quiet"),
		MinRefresh:  v.GetDuration("timing.min_refresh"),
		Flush:       v.GetDuration("timing.flush"),
		Screensaver: v.GetDuration("timing.screensaver"),
		Sleep:       v.GetDuration("timing.sleep"),
		FnHold:      v.GetDuration("timing.fn_hold"),
		Status:      v.GetDuration("timing.status"),
		SimPartial:  v.GetDuration("sim.partial"),
		SimFull:     v.GetDuration("sim.full"),
		LogFile:     v.GetString("log.file"),
		Debug:       v.GetBool("log.debug"),
	}
	if s.LogFile == "" {
		s.LogFile = filepath.Join(path, LogName)
	} else if s.LogFile, err = homedir.Expand(s.LogFile); err != nil {
		return nil, fmt.Errorf("store: expand log file: %w", err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("store: invalid display size %dx%d", s.Width, s.Height)
	}
	return s, nil
}
