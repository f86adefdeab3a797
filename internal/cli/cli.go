package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/perseus/internal/config"
	"github.com/studiowebux/perseus/internal/executor"
	"github.com/studiowebux/perseus/internal/filter"
	"github.com/studiowebux/perseus/internal/history"
	"github.com/studiowebux/perseus/internal/logger"
	"github.com/studiowebux/perseus/internal/storage"
	"github.com/studiowebux/perseus/internal/types"
)

// ErrRequestFailed is returned by Send when the server answered 4xx/5xx.
// The response has already been printed.
var ErrRequestFailed = errors.New("request failed")

// Workspace is a loaded project: its root, merged settings, collection and
// environments
type Workspace struct {
	Root         string
	Settings     *config.Settings
	Store        *storage.Store
	Environments []*storage.Environment
}

// OpenWorkspace finds the project root above dir and loads everything in it
func OpenWorkspace(dir string) (*Workspace, error) {
	root, err := config.FindProjectRoot(dir)
	if err != nil {
		return nil, err
	}
	if _, err := config.EnsureStorageDir(root); err != nil {
		return nil, err
	}
	settings, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	store, err := storage.Open(root)
	if err != nil {
		return nil, err
	}
	envs, err := storage.LoadEnvironments(root)
	if err != nil {
		return nil, err
	}
	logger.Debug("workspace opened", "root", root, "environments", len(envs))
	return &Workspace{Root: root, Settings: settings, Store: store, Environments: envs}, nil
}

// History opens the send history of this project, or returns nil when
// history is disabled
func (w *Workspace) History() (*history.Manager, error) {
	if !w.Settings.History.Enabled {
		return nil, nil
	}
	return history.NewManager(config.DatabasePath, config.ProjectKey(w.Root))
}

// Environment returns the environment called name. An empty name yields nil.
func (w *Workspace) Environment(name string) (*storage.Environment, error) {
	if name == "" {
		return nil, nil
	}
	env := storage.FindEnvironment(w.Environments, name)
	if env == nil {
		return nil, fmt.Errorf("environment %q not found", name)
	}
	return env, nil
}

// SendOptions contains options for sending a saved request headlessly
type SendOptions struct {
	// Path is "Folder/Request" inside the first project, or
	// "Project/Folder/Request". Empty asks interactively.
	Path         string
	Environment  string
	OutputFormat string // text, json, yaml, body
	SavePath     string
	BodyOverride string
	ShowFull     bool
	ExtraVars    []string // key=value pairs, override the environment
	Filter       string   // JMESPath expression applied to the body
}

// Send resolves and sends a saved request, printing the response to out
func Send(ctx context.Context, w *Workspace, opts SendOptions, out io.Writer) error {
	id, err := resolveRequestPath(w, opts.Path)
	if err != nil {
		return err
	}
	req, err := w.Store.Request(id)
	if err != nil {
		return err
	}

	// Check if stdin is being piped (for body override)
	stdinPiped := false
	if opts.BodyOverride != "" {
		req.Body = opts.BodyOverride
	} else if !isInteractive() {
		stdinPiped = true
		if data, err := io.ReadAll(os.Stdin); err == nil && len(data) > 0 {
			req.Body = string(data)
		}
	}

	env, err := w.Environment(opts.Environment)
	if err != nil {
		return err
	}
	vars := env.Variables()
	for k, v := range parseExtraVars(opts.ExtraVars) {
		vars[k] = v
	}

	resolved, missing := storage.Resolve(req, vars)
	if len(missing) > 0 && !stdinPiped && isInteractive() {
		for _, name := range missing {
			value, err := promptForVariable(name)
			if err != nil {
				return fmt.Errorf("failed to read input for '%s': %w", name, err)
			}
			vars[name] = value
		}
		resolved, missing = storage.Resolve(req, vars)
	}
	if len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: unresolved variables: %s\n", strings.Join(missing, ", "))
	}

	client, err := executor.NewClient(w.Settings)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle Ctrl+C for graceful cancellation
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nRequest cancelled by user")
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info("sending request", "method", resolved.Method, "url", resolved.URL)
	resp, sendErr := executor.Send(ctx, client, resolved)

	hist, err := w.History()
	if err != nil {
		// Don't fail if history is unavailable, just warn
		fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
	}
	if hist != nil {
		if !errors.Is(sendErr, executor.ErrCanceled) {
			if _, err := hist.Save(history.NewEntry(resolved, resp, sendErr)); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
			}
		}
		hist.Close()
	}

	if sendErr != nil {
		return errors.New(executor.Describe(sendErr))
	}

	if opts.Filter != "" {
		filtered, err := filter.Apply(resp.Body, opts.Filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: filter error: %v\n", err)
		} else {
			resp.Body = filtered
		}
	}

	outputFormat := opts.OutputFormat
	if outputFormat == "" {
		if isTerminal(os.Stdout) {
			outputFormat = "text"
		} else {
			// Output is being piped, just show body
			outputFormat = "body"
		}
	}

	output, err := formatOutput(resp, outputFormat, opts.ShowFull)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if opts.SavePath != "" {
		if err := os.WriteFile(opts.SavePath, []byte(output), config.FilePermissions); err != nil {
			return fmt.Errorf("failed to save response: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Response saved to %s\n", opts.SavePath)
	} else {
		fmt.Fprint(out, output)
	}

	if resp.Status >= 400 {
		return ErrRequestFailed
	}
	return nil
}

// resolveRequestPath finds the request named by path, trying it inside the
// first project before treating it as absolute
func resolveRequestPath(w *Workspace, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		if !isInteractive() {
			return "", errors.New("no request path given (non-interactive mode)")
		}
		return pickRequest(w.Store)
	}

	var candidates []string
	if projects := w.Store.Projects(); len(projects) > 0 {
		candidates = append(candidates, projects[0].Name+"/"+path)
	}
	candidates = append(candidates, path)

	for _, c := range candidates {
		id, err := w.Store.FindByPath(c)
		if err != nil {
			continue
		}
		item, err := w.Store.Item(id)
		if err != nil {
			return "", err
		}
		if !item.IsRequest() {
			return "", fmt.Errorf("%s is a folder, not a request", path)
		}
		return id, nil
	}
	return "", fmt.Errorf("no request at %s", path)
}

// parseExtraVars turns key=value pairs into a map; a bare key sets ""
func parseExtraVars(pairs []string) map[string]string {
	vars := make(map[string]string, len(pairs))
	for _, ev := range pairs {
		key, value, _ := strings.Cut(ev, "=")
		if key = strings.TrimSpace(key); key != "" {
			vars[key] = value
		}
	}
	return vars
}

// formatOutput formats the response based on the output format
func formatOutput(resp *types.Response, format string, showFull bool) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(resp)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "body":
		return resp.Body, nil

	case "text":
		fallthrough
	default:
		var sb strings.Builder

		sb.WriteString(statusColor(resp.Status).Sprintf("%d %s", resp.Status, resp.StatusText))
		sb.WriteString("\n")
		sb.WriteString(color.New(color.Faint).Sprintf("Duration: %s | Size: %s",
			executor.FormatDuration(resp.Duration),
			humanize.Bytes(uint64(resp.ResponseSize))))
		sb.WriteString("\n")

		if showFull && len(resp.Headers) > 0 {
			sb.WriteString("\nHeaders:\n")
			key := color.New(color.FgCyan)
			for _, h := range resp.Headers {
				sb.WriteString("  " + key.Sprint(h.Key) + ": " + h.Value + "\n")
			}
		}

		if resp.Body != "" {
			if showFull {
				sb.WriteString("\nBody:\n")
			} else {
				sb.WriteString("\n")
			}
			sb.WriteString(filter.Pretty(resp.Body))
			sb.WriteString("\n")
		}
		return sb.String(), nil
	}
}

func statusColor(status int) *color.Color {
	switch {
	case executor.IsSuccessStatus(status):
		return color.New(color.FgGreen, color.Bold)
	case status >= 400:
		return color.New(color.FgRed, color.Bold)
	}
	return color.New(color.FgYellow, color.Bold)
}

// promptForVariable prompts the user to enter a value for a variable
func promptForVariable(name string) (string, error) {
	fmt.Fprintf(os.Stderr, "Enter value for '%s': ", name)
	reader := bufio.NewReader(os.Stdin)
	value, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	return isTerminal(os.Stdin)
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
