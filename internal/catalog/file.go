package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hammamikhairi/stockpile/internal/domain"
)

// fileCategory is the on-disk shape of one category.
type fileCategory struct {
	Name  string                  `json:"name"`
	Items []domain.ItemDefinition `json:"items"`
}

// fileGroup is the on-disk shape of one group.
type fileGroup struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// LoadFile reads a JSON catalog file of the form
//
//	{ "water": { "name": "Water", "items": [ ... ] }, ... }
//
// Category order follows the order of keys in the file.
func LoadFile(path string) (*domain.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a JSON catalog from r.
func Parse(r io.Reader) (*domain.Catalog, error) {
	var categories []domain.Category
	err := decodeOrderedObject(json.NewDecoder(r), func(key string, dec *json.Decoder) error {
		var fc fileCategory
		if err := dec.Decode(&fc); err != nil {
			return fmt.Errorf("category %q: %w", key, err)
		}
		categories = append(categories, domain.Category{Key: key, Name: fc.Name, Items: fc.Items})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(categories...), nil
}

// LoadGroupsFile reads a JSON groups file of the form
//
//	{ "critical": { "name": "Critical Supplies", "categories": ["water"] } }
func LoadGroupsFile(path string) ([]domain.Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening groups: %w", err)
	}
	defer f.Close()

	var groups []domain.Group
	err = decodeOrderedObject(json.NewDecoder(f), func(key string, dec *json.Decoder) error {
		var fg fileGroup
		if err := dec.Decode(&fg); err != nil {
			return fmt.Errorf("group %q: %w", key, err)
		}
		groups = append(groups, domain.Group{Key: key, Name: fg.Name, Categories: fg.Categories})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing groups %s: %w", path, err)
	}
	return groups, nil
}

// decodeOrderedObject walks the top-level JSON object, calling fn for each
// key with the decoder positioned at its value.
func decodeOrderedObject(dec *json.Decoder, fn func(key string, dec *json.Decoder) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("expected a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		if err := fn(key, dec); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
