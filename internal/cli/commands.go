package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/studiowebux/perseus/internal/converter"
	"github.com/studiowebux/perseus/internal/keybinds"
	"github.com/studiowebux/perseus/internal/storage"
)

// ImportOptions apply to HAR captures only
type ImportOptions struct {
	ImportHeaders bool
	Filter        string
}

// Import merges a Postman v2.1 collection or a HAR capture into the
// workspace. A HAR capture becomes a project named after the file, and
// an extracted bearer token is saved as an environment.
func Import(w io.Writer, ws *Workspace, path string, opts ImportOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !converter.IsHAR(data) {
		n, err := ws.Store.ImportFile(path)
		if err != nil {
			return err
		}
		if err := ws.Store.Save(); err != nil {
			return err
		}
		fmt.Fprintf(w, "Imported %d requests from %s\n", n, path)
		return nil
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	result, err := converter.HAR(data, converter.HAROptions{
		Name:          name,
		ImportHeaders: opts.ImportHeaders,
		Filter:        opts.Filter,
	})
	if err != nil {
		return err
	}
	n := ws.Store.Import(result.Collection)
	if err := ws.Store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Imported %d requests from %s", n, path)
	if result.Skipped > 0 {
		fmt.Fprintf(w, " (%d entries skipped)", result.Skipped)
	}
	fmt.Fprintln(w)

	if result.Environment != nil {
		if storage.FindEnvironment(ws.Environments, result.Environment.Name) != nil {
			fmt.Fprintf(w, "Environment %s exists, token not saved\n", result.Environment.Name)
			return nil
		}
		if err := storage.SaveEnvironment(ws.Root, result.Environment); err != nil {
			return err
		}
		ws.Environments = append(ws.Environments, result.Environment)
		fmt.Fprintf(w, "Saved bearer token to environment %s\n", result.Environment.Name)
	}
	return nil
}

// InitKeybinds writes the default bindings to path for editing
func InitKeybinds(w io.Writer, path string) error {
	if err := keybinds.CreateExampleConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote default key bindings to %s\n", path)
	return nil
}

// CheckKeybinds validates the bindings file at path. Warnings are printed;
// errors fail the check.
func CheckKeybinds(w io.Writer, path string) error {
	cfg, err := keybinds.LoadConfig(path)
	if err != nil {
		return err
	}
	result := keybinds.NewValidator().ValidateConfig(cfg)
	if result.HasErrors() || result.HasWarnings() {
		fmt.Fprint(w, result.String())
	}
	if result.HasErrors() {
		return fmt.Errorf("%s has %d errors", path, len(result.Errors))
	}
	fmt.Fprintf(w, "%s is valid\n", path)
	return nil
}
