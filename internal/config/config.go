// Package config loads and hot-reloads the CLI's own settings: merge
// conflict policy, whether to prompt interactively, color output, and
// how many lines of context a formatted patch carries.
package config

import (
	"context"
	"errors"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// MergeStrategy selects how ModelDelta.Merge conflicts that the user
// hasn't resolved interactively should be handled by default.
type MergeStrategy string

const (
	// MergeStrategyFail aborts the merge on the first conflict.
	MergeStrategyFail MergeStrategy = "fail"
	// MergeStrategyPreferOurs resolves a conflict by keeping the first
	// delta passed to Merge.
	MergeStrategyPreferOurs MergeStrategy = "prefer-ours"
	// MergeStrategyPreferTheirs resolves a conflict by keeping the
	// second delta passed to Merge.
	MergeStrategyPreferTheirs MergeStrategy = "prefer-theirs"
)

// Config holds the CLI's settings.
type Config struct {
	MergeStrategy  MergeStrategy `mapstructure:"MergeStrategy"`
	Interactive    bool          `mapstructure:"Interactive"`
	Color          bool          `mapstructure:"Color"`
	ContextLines   int           `mapstructure:"ContextLines"`
	LogLevel       string        `mapstructure:"LogLevel"`
}

// C is the global configuration instance, populated by Load.
var C Config

var mu sync.RWMutex

var (
	watcherMu       sync.Mutex
	watcherActive   bool
	watcherCtx      context.Context
	watcherCancel   context.CancelFunc
	currentCallback ReloadCallback
)

// ReloadCallback is invoked with the old and new configuration whenever
// the config file changes on disk.
type ReloadCallback func(old, new Config)

// Load reads configuration from "$HOME/.nurbsdiff/nurbsdiff.toml" (or
// ./nurbsdiff.toml), falling back to built-in defaults when no file is
// present.
func Load() error {
	viper.SetConfigName("nurbsdiff")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.nurbsdiff")

	viper.SetDefault("MergeStrategy", string(MergeStrategyFail))
	viper.SetDefault("Interactive", true)
	viper.SetDefault("Color", true)
	viper.SetDefault("ContextLines", 3)
	viper.SetDefault("LogLevel", "info")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	mu.Lock()
	defer mu.Unlock()
	return viper.Unmarshal(&C)
}

// Get returns a copy of the current configuration, safe to call while a
// hot-reload watcher is active.
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return C
}

// Watch starts watching the config file for changes, invoking callback
// with the old and new config on every reload. Only one watcher may be
// active at a time; calling Watch again replaces the callback rather
// than starting a second file watcher.
func Watch(callback ReloadCallback) (stop func(), err error) {
	watcherMu.Lock()
	defer watcherMu.Unlock()

	if !watcherActive {
		ctx, cancel := context.WithCancel(context.Background())
		watcherCtx = ctx
		watcherCancel = cancel
		currentCallback = callback
		watcherActive = true

		viper.WatchConfig()
		viper.OnConfigChange(func(e fsnotify.Event) {
			watcherMu.Lock()
			cb := currentCallback
			ctx := watcherCtx
			watcherMu.Unlock()

			if ctx != nil {
				select {
				case <-ctx.Done():
					return
				default:
				}
			}

			mu.Lock()
			old := C
			var newCfg Config
			if err := viper.Unmarshal(&newCfg); err == nil {
				C = newCfg
				mu.Unlock()
				if cb != nil {
					cb(old, newCfg)
				}
			} else {
				mu.Unlock()
			}
		})
	} else {
		currentCallback = callback
	}

	return func() {
		watcherMu.Lock()
		defer watcherMu.Unlock()
		if watcherCancel != nil {
			watcherCancel()
		}
		watcherActive = false
		currentCallback = nil
	}, nil
}
