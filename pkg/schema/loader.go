package schema

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/githubnext/validata/pkg/codec"
	"github.com/githubnext/validata/pkg/constants"
	"github.com/githubnext/validata/pkg/document"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// httpURLLoader implements jsonschema.URLLoader for HTTP(S) URLs
type httpURLLoader struct {
	client *http.Client
}

// Load implements URLLoader interface for HTTP URLs
func (h *httpURLLoader) Load(url string) (any, error) {
	data, err := h.fetch(url)
	if err != nil {
		return nil, err
	}
	doc, err := decodeSchemaDocument(url, data)
	if err != nil {
		return nil, err
	}
	return document.ToJSONModel(doc), nil
}

func (h *httpURLLoader) fetch(url string) ([]byte, error) {
	resp, err := h.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL %s: HTTP %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return data, nil
}

// Loader resolves locators into compiled schemas. Local sources are read
// through an afero filesystem, remote ones over HTTP.
type Loader struct {
	fs   afero.Fs
	http *httpURLLoader
}

// NewLoader creates a loader reading local schema files from fs.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{
		fs:   fs,
		http: &httpURLLoader{client: &http.Client{Timeout: constants.RemoteSchemaTimeout}},
	}
}

// WithHTTPClient replaces the client used for remote schemas.
func (l *Loader) WithHTTPClient(client *http.Client) *Loader {
	l.http = &httpURLLoader{client: client}
	return l
}

// Load resolves a <source>:<name> locator.
func (l *Loader) Load(locator string) (*Schema, error) {
	loc, err := ParseLocator(locator)
	if err != nil {
		return nil, err
	}
	return l.LoadLocator(loc)
}

// LoadLocator resolves an already parsed locator.
func (l *Loader) LoadLocator(loc Locator) (*Schema, error) {
	var data []byte
	var err error
	if loc.IsRemote() {
		data, err = l.http.fetch(loc.Source)
	} else {
		data, err = afero.ReadFile(l.fs, loc.Source)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", loc.Source)
		}
	}
	if err != nil {
		return nil, err
	}

	raw, err := decodeSchemaDocument(loc.Source, data)
	if err != nil {
		return nil, err
	}

	return Parse(raw, Options{
		Name:   loc.Name,
		Source: loc.Source,
		URLLoader: jsonschema.SchemeURLLoader{
			"http":  l.http,
			"https": l.http,
			"file":  jsonschema.FileLoader{},
		},
	})
}

// decodeSchemaDocument decodes JSON, or YAML for .yaml/.yml sources, keeping
// property declaration order.
func decodeSchemaDocument(source string, data []byte) (document.Value, error) {
	if isYAMLSource(source) {
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			line, column, msg := codec.ExtractYAMLError(err, 0)
			if line > 0 {
				return nil, fmt.Errorf("failed to parse schema %s at line %d, column %d: %s", source, line, column, msg)
			}
			return nil, fmt.Errorf("failed to parse schema %s: %w", source, err)
		}
		return yamlNodeToDocument(&root)
	}

	doc, err := codec.Decode(string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), codec.JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", source, err)
	}
	return doc, nil
}

func isYAMLSource(source string) bool {
	p := source
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	return ext == ".yaml" || ext == ".yml"
}

// yamlNodeToDocument walks a yaml.v3 node tree. Node decoding keeps mapping
// order, which plain map decoding would lose.
func yamlNodeToDocument(n *yaml.Node) (document.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlNodeToDocument(n.Content[0])
	case yaml.MappingNode:
		m := make(document.Map, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			value, err := yamlNodeToDocument(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m = append(m, document.Entry{Key: n.Content[i].Value, Value: value})
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			value, err := yamlNodeToDocument(c)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.AliasNode:
		return yamlNodeToDocument(n.Alias)
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if t, ok := v.(time.Time); ok {
			return t.Format(time.RFC3339), nil
		}
		return document.Normalize(v), nil
	}
}
