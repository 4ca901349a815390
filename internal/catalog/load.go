package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
)

//go:embed data/*.yaml
var bundled embed.FS

// LoadDefault returns the catalog bundled with the binary.
func LoadDefault() (*Catalog, error) {
	menu, err := bundled.ReadFile("data/menu.yaml")
	if err != nil {
		return nil, err
	}
	cats, err := bundled.ReadFile("data/categories.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(menu, cats)
}

// LoadDir reads menu.yaml and categories.yaml from dir (CATALOG_PATH).
func LoadDir(dir string) (*Catalog, error) {
	menu, err := os.ReadFile(filepath.Join(dir, "menu.yaml"))
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	cats, err := os.ReadFile(filepath.Join(dir, "categories.yaml"))
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Parse(menu, cats)
}

// Load picks LoadDir when dir is set, the bundled data otherwise.
func Load(dir string) (*Catalog, error) {
	if dir == "" {
		return LoadDefault()
	}
	return LoadDir(dir)
}

func Parse(menuYAML, categoriesYAML []byte) (*Catalog, error) {
	var entries []orders.MenuEntry
	if err := decodeStrict(menuYAML, &entries); err != nil {
		return nil, fmt.Errorf("catalog: menu: %w", err)
	}
	var cats []orders.Category
	if err := decodeStrict(categoriesYAML, &cats); err != nil {
		return nil, fmt.Errorf("catalog: categories: %w", err)
	}
	return New(entries, cats)
}

func decodeStrict(b []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	return dec.Decode(out)
}
