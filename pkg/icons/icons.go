package icons

import (
	"embed"
	"encoding/base64"
	"errors"
	"io/fs"
	"path"
	"slices"
	"strings"
)

const extension = ".png"

//go:embed assets/*.png
var assets embed.FS

// Registry maps icon file names to base64 encoded image data.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	icons map[string]string
}

// Embedded returns a registry built from the icons compiled into the binary.
func Embedded() (*Registry, error) {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		return nil, errors.Join(ErrReadAssets, err)
	}
	return New(sub)
}

// New builds a registry from every *.png file in the root of fsys.
func New(fsys fs.FS) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Join(ErrReadAssets, err)
	}

	r := &Registry{icons: make(map[string]string, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(path.Ext(entry.Name()), extension) {
			continue
		}
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, errors.Join(ErrReadAssets, err)
		}
		r.icons[entry.Name()] = base64.StdEncoding.EncodeToString(data)
	}
	return r, nil
}

// Lookup returns the encoded icon for name.
// The name is trimmed and tried verbatim first, then with a ".png" suffix
// unless it already ends with one.
func (r *Registry) Lookup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	if data, ok := r.icons[name]; ok {
		return data, true
	}
	if strings.HasSuffix(strings.ToLower(name), extension) {
		return "", false
	}
	data, ok := r.icons[name+extension]
	return data, ok
}

// Names returns the registered icon file names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.icons))
	for name := range r.icons {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
