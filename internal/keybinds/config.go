package keybinds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// Config maps context -> key -> action. A "none" action removes a default
// binding. The file may contain comments and trailing commas.
type Config struct {
	Version  string            `json:"version"`
	Global   map[string]string `json:"global,omitempty"`
	Sidebar  map[string]string `json:"sidebar,omitempty"`
	Request  map[string]string `json:"request,omitempty"`
	Response map[string]string `json:"response,omitempty"`
	Prompt   map[string]string `json:"prompt,omitempty"`
	Confirm  map[string]string `json:"confirm,omitempty"`
	Help     map[string]string `json:"help,omitempty"`
}

// unbind is the action name that removes a default binding
const unbind = "none"

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:   c.Global,
		ContextSidebar:  c.Sidebar,
		ContextRequest:  c.Request,
		ContextResponse: c.Response,
		ContextPrompt:   c.Prompt,
		ContextConfirm:  c.Confirm,
		ContextHelp:     c.Help,
	}
}

// LoadConfig loads keybinding configuration from a JSON (with comments) file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}
	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ApplyConfig applies user configuration to a registry. User bindings
// override default bindings.
func ApplyConfig(registry *Registry, config *Config) error {
	var errs []error
	for context, bindings := range config.sections() {
		for key, actionStr := range bindings {
			if err := ValidateKey(key); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", context, err))
				continue
			}
			if strings.EqualFold(actionStr, unbind) {
				registry.Unregister(context, key)
				continue
			}
			action := Action(actionStr)
			if !IsKnownAction(action) {
				errs = append(errs, fmt.Errorf("%s: unknown action %q for key %q", context, actionStr, key))
				continue
			}
			registry.Register(context, key, action)
		}
	}
	return errors.Join(errs...)
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err != nil {
		return registry, nil
	}
	config, err := LoadConfig(configPath)
	if err != nil {
		return registry, fmt.Errorf("failed to load keybinds.json: %w", err)
	}
	if err := ApplyConfig(registry, config); err != nil {
		return registry, fmt.Errorf("failed to apply keybinds config: %w", err)
	}
	return registry, nil
}

// ExportConfig converts a registry into a Config
func ExportConfig(registry *Registry) *Config {
	config := &Config{Version: "1.0"}
	for _, context := range Contexts {
		bindings := registry.ListBindings(context)
		if len(bindings) == 0 {
			continue
		}
		section := make(map[string]string, len(bindings))
		for _, b := range bindings {
			section[b.Key] = string(b.Action)
		}
		switch context {
		case ContextGlobal:
			config.Global = section
		case ContextSidebar:
			config.Sidebar = section
		case ContextRequest:
			config.Request = section
		case ContextResponse:
			config.Response = section
		case ContextPrompt:
			config.Prompt = section
		case ContextConfirm:
			config.Confirm = section
		case ContextHelp:
			config.Help = section
		}
	}
	return config
}

// CreateExampleConfig writes the default bindings to path so users can edit
// them
func CreateExampleConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return SaveConfig(ExportConfig(NewDefaultRegistry()), path)
}
