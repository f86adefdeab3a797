package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/perseus/internal/config"
	"github.com/studiowebux/perseus/internal/logger"
	"github.com/studiowebux/perseus/internal/types"
)

// EnvironmentsDirName is the environments directory inside the storage dir
const EnvironmentsDirName = "environments"

// Variable is one environment entry. Enabled defaults to true when omitted.
type Variable struct {
	Key     string `yaml:"key"`
	Value   string `yaml:"value"`
	Enabled bool   `yaml:"enabled"`
	Type    string `yaml:"type,omitempty"`
}

func (v *Variable) UnmarshalYAML(node *yaml.Node) error {
	type plain Variable
	p := plain{Enabled: true, Type: "default"}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*v = Variable(p)
	return nil
}

// Environment is a named set of variables
type Environment struct {
	Name   string     `yaml:"name"`
	Values []Variable `yaml:"values"`
}

// Set adds or replaces key
func (e *Environment) Set(key, value string) {
	for i := range e.Values {
		if e.Values[i].Key == key {
			e.Values[i].Value = value
			return
		}
	}
	e.Values = append(e.Values, Variable{Key: key, Value: value, Enabled: true, Type: "default"})
}

// Variables collects enabled variables. A nil environment yields an empty map.
func (e *Environment) Variables() map[string]string {
	vars := make(map[string]string)
	if e == nil {
		return vars
	}
	for _, v := range e.Values {
		if v.Enabled {
			vars[v.Key] = v.Value
		}
	}
	return vars
}

// EnvironmentsDir returns the environments directory for root
func EnvironmentsDir(root string) string {
	return filepath.Join(config.StorageDir(root), EnvironmentsDirName)
}

// ValidEnvironmentName reports whether name is safe to use as a file name
func ValidEnvironmentName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return false
		}
	}
	return true
}

// LoadEnvironments reads every *.yaml file of root's environments directory,
// sorted by name. Unreadable files are skipped with a warning.
func LoadEnvironments(root string) ([]*Environment, error) {
	dir := EnvironmentsDir(root)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read environments: %w", err)
	}

	var envs []*Environment
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		env, err := loadEnvironment(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn("skipping environment file", "file", entry.Name(), "error", err)
			continue
		}
		if env.Name == "" {
			env.Name = strings.TrimSuffix(entry.Name(), ext)
		}
		envs = append(envs, env)
	}
	sort.Slice(envs, func(i, j int) bool { return envs[i].Name < envs[j].Name })
	return envs, nil
}

func loadEnvironment(path string) (*Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var env Environment
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &env, nil
}

// SaveEnvironment writes env to <name>.yaml
func SaveEnvironment(root string, env *Environment) error {
	if !ValidEnvironmentName(env.Name) {
		return fmt.Errorf("invalid environment name %q: use letters, digits, underscore or hyphen", env.Name)
	}
	dir := EnvironmentsDir(root)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create environments directory: %w", err)
	}
	data, err := yaml.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to serialize environment: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, env.Name+".yaml"), data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write environment: %w", err)
	}
	return nil
}

// DeleteEnvironment removes <name>.yaml; a missing file is not an error
func DeleteEnvironment(root, name string) error {
	if !ValidEnvironmentName(name) {
		return fmt.Errorf("invalid environment name %q", name)
	}
	err := os.Remove(filepath.Join(EnvironmentsDir(root), name+".yaml"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete environment: %w", err)
	}
	return nil
}

// FindEnvironment returns the environment called name, or nil
func FindEnvironment(envs []*Environment, name string) *Environment {
	for _, e := range envs {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Substitute replaces {{name}} with values from vars. Unknown names are left
// in place and returned in order of appearance. Unclosed or empty braces are
// kept literally.
func Substitute(template string, vars map[string]string) (string, []string) {
	var (
		b          strings.Builder
		unresolved []string
	)
	rest := template
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:open])
		after := rest[open+2:]
		end := strings.Index(after, "}}")
		if end < 0 {
			b.WriteString(rest[open:])
			break
		}
		name := after[:end]
		switch val, ok := vars[name]; {
		case name == "":
			b.WriteString("{{}}")
		case ok:
			b.WriteString(val)
		default:
			b.WriteString("{{" + name + "}}")
			unresolved = append(unresolved, name)
		}
		rest = after[end+2:]
	}
	return b.String(), unresolved
}

// Resolve returns a copy of req with variables substituted in the URL,
// headers, body and auth values, plus the distinct unresolved names
func Resolve(req *types.Request, vars map[string]string) (*types.Request, []string) {
	out := *req
	seen := make(map[string]bool)
	var missing []string
	sub := func(s string) string {
		res, unresolved := Substitute(s, vars)
		for _, name := range unresolved {
			if !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
		}
		return res
	}

	out.URL = sub(req.URL)
	out.Headers = sub(req.Headers)
	out.Body = sub(req.Body)
	if req.Auth != nil {
		a := *req.Auth
		a.Token = sub(a.Token)
		a.Username = sub(a.Username)
		a.Password = sub(a.Password)
		a.Key = sub(a.Key)
		a.Value = sub(a.Value)
		out.Auth = &a
	}
	return &out, missing
}
