package converter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/studiowebux/perseus/internal/storage"
	"github.com/studiowebux/perseus/internal/types"
)

// HAROptions contains options for HAR conversion
type HAROptions struct {
	// Name of the project the requests are placed in
	Name          string
	ImportHeaders bool   // If true, include sensitive headers
	Filter        string // Only entries whose URL contains Filter
}

// HARFile represents the HAR file structure
type HARFile struct {
	Log HARLog `json:"log"`
}

// HARLog represents the log section of HAR
type HARLog struct {
	Version string     `json:"version"`
	Creator HARCreator `json:"creator"`
	Entries []HAREntry `json:"entries"`
}

// HARCreator represents the tool that created the HAR
type HARCreator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HAREntry represents a single HTTP request/response
type HAREntry struct {
	Request HARRequest `json:"request"`
}

// HARRequest represents the request part of an entry
type HARRequest struct {
	Method   string       `json:"method"`
	URL      string       `json:"url"`
	Headers  []HARHeader  `json:"headers"`
	PostData *HARPostData `json:"postData,omitempty"`
}

// HARHeader represents a single header
type HARHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HARPostData represents POST data
type HARPostData struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// HARResult is a converted capture: one project with a folder per host,
// plus the variables pulled out of the requests
type HARResult struct {
	Collection *storage.Collection
	Skipped    int
	// Environment holds extracted secrets such as bearer tokens, nil when
	// nothing was extracted
	Environment *storage.Environment
}

var sensitiveHeaders = []string{"Cookie", "Authorization", "X-Auth-Token", "X-API-Key"}

var invalidNameChars = regexp.MustCompile(`[^a-z0-9-_]+`)

// IsHAR reports whether data looks like a HAR capture rather than a
// Postman collection
func IsHAR(data []byte) bool {
	var probe struct {
		Log *struct {
			Entries json.RawMessage `json:"entries"`
		} `json:"log"`
	}
	return json.Unmarshal(data, &probe) == nil && probe.Log != nil && probe.Log.Entries != nil
}

// HAR converts a HAR capture to a collection
func HAR(data []byte, opts HAROptions) (*HARResult, error) {
	var har HARFile
	if err := json.Unmarshal(data, &har); err != nil {
		return nil, fmt.Errorf("failed to parse HAR file: %w", err)
	}
	if len(har.Log.Entries) == 0 {
		return nil, errors.New("no entries found in HAR file")
	}

	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = "Imported"
	}
	col := storage.NewCollection(name)
	project := &storage.Item{Name: name, ID: storage.NewID()}
	col.Item = append(col.Item, project)

	folders := make(map[string]*storage.Item)
	used := make(map[string]int)
	token := ""
	result := &HARResult{Collection: col}

	for i, entry := range har.Log.Entries {
		req := entry.Request
		if opts.Filter != "" && !strings.Contains(req.URL, opts.Filter) {
			result.Skipped++
			continue
		}
		u, err := url.Parse(req.URL)
		// Skip non-HTTP(S) requests
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			result.Skipped++
			continue
		}

		headers := filterHeaders(req.Headers, opts.ImportHeaders)
		for j, h := range headers {
			if !strings.EqualFold(h.Name, "Authorization") || !strings.HasPrefix(h.Value, "Bearer ") {
				continue
			}
			value := strings.TrimPrefix(h.Value, "Bearer ")
			if token == "" {
				token = value
			}
			if value == token {
				headers[j].Value = "Bearer {{token}}"
			}
		}

		r := &types.Request{
			Method:  types.ParseMethod(req.Method),
			URL:     req.URL,
			Headers: headerText(headers),
		}
		if req.PostData != nil {
			r.Body = req.PostData.Text
		}

		folder, ok := folders[u.Host]
		if !ok {
			folder = &storage.Item{Name: u.Host, ID: storage.NewID()}
			folders[u.Host] = folder
			project.Item = append(project.Item, folder)
		}

		itemName := requestName(u, req.Method, i)
		key := u.Host + "\x00" + itemName
		used[key]++
		if n := used[key]; n > 1 {
			itemName = fmt.Sprintf("%s-%d", itemName, n)
		}

		folder.Item = append(folder.Item, &storage.Item{Name: itemName, ID: storage.NewID(), Request: storage.FromRequest(r)})
	}

	if len(folders) == 0 {
		return nil, errors.New("no HTTP entries found in HAR file")
	}
	sort.Slice(project.Item, func(a, b int) bool { return project.Item[a].Name < project.Item[b].Name })

	if token != "" {
		result.Environment = &storage.Environment{Name: environmentName(name)}
		result.Environment.Set("token", token)
	}
	return result, nil
}

// filterHeaders drops pseudo-headers and, unless importSensitive is set,
// credentials
func filterHeaders(in []HARHeader, importSensitive bool) []HARHeader {
	out := make([]HARHeader, 0, len(in))
	for _, h := range in {
		if strings.HasPrefix(h.Name, ":") {
			continue
		}
		if !importSensitive && isSensitive(h.Name) {
			// bearer tokens are kept so they can become a variable
			if !strings.EqualFold(h.Name, "Authorization") || !strings.HasPrefix(h.Value, "Bearer ") {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}

func headerText(headers []HARHeader) string {
	lines := make([]string, len(headers))
	for i, h := range headers {
		lines[i] = h.Name + ": " + h.Value
	}
	return strings.Join(lines, "\n")
}

func isSensitive(name string) bool {
	for _, s := range sensitiveHeaders {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// requestName derives a name like "get-users-42" from the method and path
func requestName(u *url.URL, method string, index int) string {
	name := strings.ToLower(strings.Trim(u.Path, "/"))
	name = invalidNameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	method = strings.ToLower(method)
	if name == "" {
		return fmt.Sprintf("%s-request-%d", method, index)
	}
	return method + "-" + name
}

// environmentName turns a project name into a valid environment file name
func environmentName(project string) string {
	name := invalidNameChars.ReplaceAllString(strings.ToLower(project), "-")
	name = strings.Trim(name, "-")
	if name == "" || !storage.ValidEnvironmentName(name) {
		return "imported"
	}
	return name
}
