package template

import (
	"fmt"
	"io/fs"
	stdpath "path"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/slotmenu/internal/log"
)

// File is the YAML shape of one template document.
type File struct {
	Name    string              `yaml:"name"`
	Rows    int                 `yaml:"rows"`
	Pattern []string            `yaml:"pattern"`
	Items   map[string]ItemFile `yaml:"items"`
}

// ItemFile is the YAML shape of one item descriptor.
type ItemFile struct {
	Material   string   `yaml:"material"`
	Amount     int      `yaml:"amount"`
	Name       string   `yaml:"name"`
	Lore       []string `yaml:"lore"`
	Glowing    bool     `yaml:"glowing"`
	CancelMove bool     `yaml:"cancel-move"`
}

// LoadOptions controls template parsing.
type LoadOptions struct {
	// Validate runs the JSON schema over each document before decoding.
	Validate bool
}

// Parse decodes one YAML template document.
func Parse(data []byte, opts LoadOptions) (*InventoryTemplate, error) {
	if opts.Validate {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		if err := ValidateDocument(doc); err != nil {
			return nil, err
		}
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return f.Template()
}

// Template converts the YAML shape into a validated template.
func (f File) Template() (*InventoryTemplate, error) {
	items := make(map[rune]ItemDescriptor, len(f.Items))
	for key, it := range f.Items {
		if utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("%w: item key %q must be a single character", ErrInvalidItem, key)
		}
		r, _ := utf8.DecodeRuneInString(key)
		items[r] = ItemDescriptor{
			Material:   it.Material,
			Amount:     it.Amount,
			Name:       it.Name,
			Lore:       it.Lore,
			Glowing:    it.Glowing,
			CancelMove: it.CancelMove,
		}
	}
	return New(f.Name, f.Rows, f.Pattern, items)
}

// LoadFS loads every <group>/<id>.yaml (or .yml) file below root into
// pools, one pool per group directory. Files directly in root are skipped.
func LoadFS(fsys fs.FS, root string, opts LoadOptions) ([]*Pool, error) {
	byGroup := make(map[string]map[string]*InventoryTemplate)

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := stdpath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		// Use path (not filepath) since fs.FS always uses forward slashes
		rel := path
		if root != "." {
			rel = strings.TrimPrefix(path, root+"/")
		}
		group := stdpath.Dir(rel)
		if group == "." {
			log.Debug(log.CatTemplate, "skipping template outside a group", "path", path)
			return nil
		}
		id := strings.TrimSuffix(stdpath.Base(rel), ext)

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		t, err := Parse(content, opts)
		if err != nil {
			return fmt.Errorf("template %s/%s in %s: %w", group, id, path, err)
		}

		if byGroup[group] == nil {
			byGroup[group] = make(map[string]*InventoryTemplate)
		}
		byGroup[group][id] = t
		log.Debug(log.CatTemplate, "loaded template", "group", group, "id", id, "rows", t.Rows())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan templates: %w", err)
	}

	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	pools := make([]*Pool, 0, len(groups))
	for _, g := range groups {
		pools = append(pools, NewPool(g, byGroup[g]))
	}
	return pools, nil
}

// LoadLibrary is LoadFS followed by NewLibrary.
func LoadLibrary(fsys fs.FS, root string, opts LoadOptions) (*Library, error) {
	pools, err := LoadFS(fsys, root, opts)
	if err != nil {
		return nil, err
	}
	return NewLibrary(pools...), nil
}
