package storage

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/studiowebux/perseus/internal/types"
)

// SchemaURL identifies Postman collection format v2.1
const SchemaURL = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// Collection is a Postman v2.1 collection. Top-level items are projects;
// nested items without a request are folders.
type Collection struct {
	Info Info    `json:"info"`
	Item []*Item `json:"item"`
}

// Info is the collection header
type Info struct {
	Name      string `json:"name"`
	PostmanID string `json:"_postman_id"`
	Schema    string `json:"schema"`
}

// Item is a folder (Request == nil) or a request
type Item struct {
	Name     string            `json:"name"`
	ID       string            `json:"id"`
	Item     []*Item           `json:"item,omitempty"`
	Request  *Request          `json:"request,omitempty"`
	Response []json.RawMessage `json:"response,omitempty"`
}

// IsRequest reports whether the item holds a request
func (i *Item) IsRequest() bool {
	return i.Request != nil
}

// Request is the Postman request body of an Item
type Request struct {
	Method string   `json:"method"`
	Header []Header `json:"header,omitempty"`
	Body   *Body    `json:"body,omitempty"`
	URL    URL      `json:"url"`
	Auth   *Auth    `json:"auth,omitempty"`
}

// Header is a Postman header entry
type Header struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Body is a Postman body; only raw bodies are edited
type Body struct {
	Mode string `json:"mode"`
	Raw  string `json:"raw,omitempty"`
}

// URL accepts both the string and the object form of a Postman URL and is
// always written back as a string
type URL struct {
	Raw string
}

func (u URL) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Raw)
}

func (u *URL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		u.Raw = s
		return nil
	}
	var obj struct {
		Raw string `json:"raw"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	u.Raw = obj.Raw
	return nil
}

// AuthAttribute is one key/value entry of a Postman auth block
type AuthAttribute struct {
	Key   string `json:"key"`
	Value any    `json:"value,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Auth is a Postman auth block
type Auth struct {
	Type   string          `json:"type"`
	Bearer []AuthAttribute `json:"bearer,omitempty"`
	Basic  []AuthAttribute `json:"basic,omitempty"`
	APIKey []AuthAttribute `json:"apikey,omitempty"`
}

func attr(attrs []AuthAttribute, key string) string {
	for _, a := range attrs {
		if a.Key == key {
			if s, ok := a.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

func stringAttr(key, value string) AuthAttribute {
	return AuthAttribute{Key: key, Value: value, Type: "string"}
}

// NewID returns a fresh node id
func NewID() string {
	return uuid.NewString()
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// NewCollection creates an empty collection
func NewCollection(name string) *Collection {
	return &Collection{
		Info: Info{Name: name, PostmanID: NewID(), Schema: SchemaURL},
		Item: []*Item{},
	}
}

func newFolder(name string) *Item {
	return &Item{Name: name, ID: NewID()}
}

// headerText renders enabled headers as "Key: Value" lines
func headerText(headers []Header) string {
	lines := make([]string, 0, len(headers))
	for _, h := range headers {
		if h.Disabled {
			continue
		}
		lines = append(lines, h.Key+": "+h.Value)
	}
	return strings.Join(lines, "\n")
}

// parseHeaderText is the lenient inverse of headerText used when saving:
// lines without a key are dropped instead of rejected
func parseHeaderText(raw string) []Header {
	var out []Header
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, _ := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out = append(out, Header{Key: key, Value: strings.TrimSpace(value)})
	}
	return out
}

// ToRequest converts a stored item into an editable request
func (i *Item) ToRequest() *types.Request {
	r := &types.Request{ID: i.ID, Name: i.Name, Method: types.MethodGet}
	if i.Request == nil {
		return r
	}
	r.Method = types.ParseMethod(i.Request.Method)
	r.URL = i.Request.URL.Raw
	r.Headers = headerText(i.Request.Header)
	if i.Request.Body != nil {
		r.Body = i.Request.Body.Raw
	}
	r.Auth = i.Request.Auth.toAuth()
	return r
}

// FromRequest converts an editable request into the Postman form
func FromRequest(r *types.Request) *Request {
	out := &Request{
		Method: string(types.ParseMethod(string(r.Method))),
		Header: parseHeaderText(r.Headers),
		URL:    URL{Raw: r.URL},
		Auth:   fromAuth(r.Auth),
	}
	if strings.TrimSpace(r.Body) != "" {
		out.Body = &Body{Mode: "raw", Raw: r.Body}
	}
	return out
}

func (a *Auth) toAuth() *types.Auth {
	if a == nil {
		return nil
	}
	switch a.Type {
	case "bearer":
		return &types.Auth{Type: types.AuthBearer, Token: attr(a.Bearer, "token")}
	case "basic":
		return &types.Auth{
			Type:     types.AuthBasic,
			Username: attr(a.Basic, "username"),
			Password: attr(a.Basic, "password"),
		}
	case "apikey":
		in := attr(a.APIKey, "in")
		if in == "" {
			in = "header"
		}
		return &types.Auth{
			Type:  types.AuthAPIKey,
			Key:   attr(a.APIKey, "key"),
			Value: attr(a.APIKey, "value"),
			In:    in,
		}
	}
	return nil
}

func fromAuth(a *types.Auth) *Auth {
	if a == nil {
		return nil
	}
	switch a.Type {
	case types.AuthBearer:
		return &Auth{Type: "bearer", Bearer: []AuthAttribute{stringAttr("token", a.Token)}}
	case types.AuthBasic:
		return &Auth{Type: "basic", Basic: []AuthAttribute{
			stringAttr("username", a.Username),
			stringAttr("password", a.Password),
		}}
	case types.AuthAPIKey:
		in := a.In
		if in == "" {
			in = "header"
		}
		return &Auth{Type: "apikey", APIKey: []AuthAttribute{
			stringAttr("key", a.Key),
			stringAttr("value", a.Value),
			stringAttr("in", in),
		}}
	}
	return nil
}
