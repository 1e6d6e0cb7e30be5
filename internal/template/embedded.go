package template

import (
	_ "embed"
	"fmt"
	"os"
	"sync"
)

//go:embed default_template.json
var embeddedTemplate []byte

var loadEmbedded = sync.OnceValues(func() (*Template, error) {
	return Parse(embeddedTemplate, "embedded")
})

// Default returns the embedded template. It is parsed once per process and
// shared; callers must treat it as read-only.
func Default() (*Template, error) {
	return loadEmbedded()
}

// LoadFile reads and parses an external template file. The result fully
// replaces the embedded default for the runs that use it.
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateError{
			Source:  path,
			Message: fmt.Sprintf("reading file: %v", err),
			Err:     err,
		}
	}
	return Parse(data, path)
}

// Load resolves the active template: path when non-empty, otherwise the
// embedded default.
func Load(path string) (*Template, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}
