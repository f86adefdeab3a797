package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings is the merged user configuration
type Settings struct {
	HTTP    HTTPSettings    `mapstructure:"http"`
	Proxy   ProxySettings   `mapstructure:"proxy"`
	SSL     SSLSettings     `mapstructure:"ssl"`
	UI      UISettings      `mapstructure:"ui"`
	Editor  EditorSettings  `mapstructure:"editor"`
	History HistorySettings `mapstructure:"history"`
	Log     LogSettings     `mapstructure:"log"`
}

// HTTPSettings controls the request client
type HTTPSettings struct {
	// Timeout in seconds, 0 disables it
	Timeout         int  `mapstructure:"timeout"`
	FollowRedirects bool `mapstructure:"follow_redirects"`
	MaxRedirects    int  `mapstructure:"max_redirects"`
}

// TimeoutDuration returns the timeout as a time.Duration
func (h HTTPSettings) TimeoutDuration() time.Duration {
	return time.Duration(h.Timeout) * time.Second
}

// ProxySettings routes requests through an HTTP proxy
type ProxySettings struct {
	URL     string `mapstructure:"url"`
	NoProxy string `mapstructure:"no_proxy"`
}

// SSLSettings configures TLS verification and client certificates
type SSLSettings struct {
	Verify     bool   `mapstructure:"verify"`
	CACert     string `mapstructure:"ca_cert"`
	ClientCert string `mapstructure:"client_cert"`
	ClientKey  string `mapstructure:"client_key"`
}

// UISettings holds interface preferences
type UISettings struct {
	SidebarWidth int    `mapstructure:"sidebar_width"`
	Theme        string `mapstructure:"theme"`
}

// EditorSettings holds field editor preferences
type EditorSettings struct {
	TabSize int `mapstructure:"tab_size"`
}

// HistorySettings toggles send history
type HistorySettings struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogSettings holds the log level name (debug, info, warn, error)
type LogSettings struct {
	Level string `mapstructure:"level"`
}

// applyDefaults sets default configuration values
func applyDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", 30)
	v.SetDefault("http.follow_redirects", true)
	v.SetDefault("http.max_redirects", 10)

	v.SetDefault("proxy.url", "")
	v.SetDefault("proxy.no_proxy", "")

	v.SetDefault("ssl.verify", true)
	v.SetDefault("ssl.ca_cert", "")
	v.SetDefault("ssl.client_cert", "")
	v.SetDefault("ssl.client_key", "")

	v.SetDefault("ui.sidebar_width", 32)
	v.SetDefault("ui.theme", "monokai")

	v.SetDefault("editor.tab_size", 2)

	v.SetDefault("history.enabled", true)

	v.SetDefault("log.level", "info")
}

// Default returns the built-in settings
func Default() *Settings {
	s, _ := LoadFrom("", "")
	return s
}

// Load reads the global config file and the overlay of the project at root.
// Missing files are skipped.
func Load(root string) (*Settings, error) {
	project := ""
	if root != "" {
		project = filepath.Join(StorageDir(root), ConfigFileName)
	}
	return LoadFrom(GlobalConfigFile, project)
}

// LoadFrom merges defaults, the global file, the project file and PERSEUS_*
// environment variables, in increasing priority. Only keys present in a
// file override the layer below it.
func LoadFrom(globalPath, projectPath string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.SetEnvPrefix("PERSEUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	for _, path := range []string{globalPath, projectPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("config error: failed to parse %q: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	s.SSL.CACert = ExpandHome(s.SSL.CACert)
	s.SSL.ClientCert = ExpandHome(s.SSL.ClientCert)
	s.SSL.ClientKey = ExpandHome(s.SSL.ClientKey)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks value ranges and referenced files, reporting every problem
func (s *Settings) Validate() error {
	var errs []error

	if s.HTTP.Timeout < 0 || s.HTTP.Timeout > 600 {
		errs = append(errs, fmt.Errorf("config error: http.timeout = %d is out of range (0..600)", s.HTTP.Timeout))
	}
	if s.HTTP.MaxRedirects < 0 || s.HTTP.MaxRedirects > 100 {
		errs = append(errs, fmt.Errorf("config error: http.max_redirects = %d is out of range (0..100)", s.HTTP.MaxRedirects))
	}
	if s.UI.SidebarWidth < 28 || s.UI.SidebarWidth > 60 {
		errs = append(errs, fmt.Errorf("config error: ui.sidebar_width = %d is out of range (28..60)", s.UI.SidebarWidth))
	}
	if s.Editor.TabSize < 1 || s.Editor.TabSize > 8 {
		errs = append(errs, fmt.Errorf("config error: editor.tab_size = %d is out of range (1..8)", s.Editor.TabSize))
	}

	if s.Proxy.URL != "" {
		if u, err := url.Parse(s.Proxy.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("config error: proxy.url = %q is not a valid URL", s.Proxy.URL))
		}
	}

	for _, f := range []struct {
		key  string
		path string
	}{
		{"ssl.ca_cert", s.SSL.CACert},
		{"ssl.client_cert", s.SSL.ClientCert},
		{"ssl.client_key", s.SSL.ClientKey},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); err != nil {
			errs = append(errs, fmt.Errorf("config error: %s = %q: file not found", f.key, f.path))
		}
	}

	if (s.SSL.ClientCert == "") != (s.SSL.ClientKey == "") {
		errs = append(errs, errors.New("config error: ssl.client_cert and ssl.client_key must both be set or both be unset"))
	}

	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("config error: log.level = %q must be one of debug, info, warn, error", s.Log.Level))
	}

	return errors.Join(errs...)
}
