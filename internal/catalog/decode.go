package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	devbooterrors "github.com/wexinc/devboot/internal/errors"
	"github.com/wexinc/devboot/internal/logging"
)

type appsEnvelope struct {
	Version string    `yaml:"version"`
	Apps    yaml.Node `yaml:"apps"`
}

type sectionRecord struct {
	Section string      `yaml:"section"`
	Apps    []yaml.Node `yaml:"apps"`
}

type appRecord struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type shellsEnvelope struct {
	Version string    `yaml:"version"`
	Shells  yaml.Node `yaml:"shells"`
}

type shellRecord struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Function    string    `yaml:"function"`
	Order       yaml.Node `yaml:"order"`
	Hidden      yaml.Node `yaml:"hidden"`
	Description string    `yaml:"description"`
	Requires    []string  `yaml:"requires"`
}

// ParseApps decodes an application catalog. The document is either a list of
// sections or an object with an "apps" list. A document of the wrong shape is
// an error; a malformed section or app is skipped and reported in Warnings.
func ParseApps(data []byte, source string) (*AppCatalog, error) {
	root, err := parseRoot(data)
	if err != nil {
		return nil, devbooterrors.CatalogParseError(source, err)
	}

	list := root
	if root.Kind == yaml.MappingNode {
		var env appsEnvelope
		if err := decodeStrict(root, &env); err != nil {
			return nil, devbooterrors.CatalogParseError(source, err)
		}
		if env.Apps.Kind == 0 {
			return nil, devbooterrors.CatalogParseError(source, errors.New(`missing "apps" key`))
		}
		list = &env.Apps
	}
	if list.Kind != yaml.SequenceNode {
		return nil, devbooterrors.CatalogParseError(source, fmt.Errorf("expected a list of sections, got %s", kindName(list)))
	}

	cat := &AppCatalog{Source: source}
	seen := map[string]bool{}

	for i, node := range list.Content {
		var sec sectionRecord
		if err := decodeStrict(node, &sec); err != nil {
			cat.warn("invalid section #%d: %v", i+1, err)
			continue
		}
		sec.Section = strings.TrimSpace(sec.Section)
		if sec.Section == "" {
			cat.warn("invalid section #%d: missing \"section\"", i+1)
			continue
		}

		cat.Entries = append(cat.Entries, GroupHeader(sec.Section))
		for j, appNode := range sec.Apps {
			var app appRecord
			if err := decodeStrict(&appNode, &app); err != nil {
				cat.warn("invalid app #%d in %s: %v", j+1, sec.Section, err)
				continue
			}
			if app.ID == "" || app.Name == "" {
				cat.warn("invalid app #%d in %s: id and name are required", j+1, sec.Section)
				continue
			}
			if seen[app.ID] {
				cat.warn("duplicate app id %s in %s", app.ID, sec.Section)
				continue
			}
			seen[app.ID] = true
			cat.Entries = append(cat.Entries, CatalogEntry{
				ID:      app.ID,
				Name:    app.Name,
				Section: sec.Section,
			})
		}
	}

	return cat, nil
}

// ParseShells decodes a shell catalog: a list of shells or an object with a
// "version" and a "shells" list. Records missing id, name or function are
// skipped; a malformed order or hidden flag falls back to its default. The result is sorted by order with unordered entries last.
func ParseShells(data []byte, source string) (*ShellCatalog, error) {
	root, err := parseRoot(data)
	if err != nil {
		return nil, devbooterrors.CatalogParseError(source, err)
	}

	cat := &ShellCatalog{Source: source}

	list := root
	if root.Kind == yaml.MappingNode {
		var env shellsEnvelope
		if err := decodeStrict(root, &env); err != nil {
			return nil, devbooterrors.CatalogParseError(source, err)
		}
		if env.Shells.Kind == 0 {
			return nil, devbooterrors.CatalogParseError(source, errors.New(`missing "shells" key`))
		}
		cat.Version = env.Version
		list = &env.Shells
	}
	if list.Kind != yaml.SequenceNode {
		return nil, devbooterrors.CatalogParseError(source, fmt.Errorf("expected a list of shells, got %s", kindName(list)))
	}

	seen := map[string]bool{}
	for i, node := range list.Content {
		var rec shellRecord
		if err := decodeStrict(node, &rec); err != nil {
			cat.warn("invalid shell entry #%d: %v", i+1, err)
			continue
		}
		if missing := rec.missing(); len(missing) > 0 {
			cat.warn("missing required fields in shell #%d: %s", i+1, strings.Join(missing, ", "))
			continue
		}
		key := strings.ToLower(rec.ID)
		if seen[key] {
			cat.warn("duplicate shell id %s", rec.ID)
			continue
		}
		seen[key] = true

		order := DefaultShellOrder
		if !optional(&rec.Order, &order) {
			logging.Debug("ignoring malformed shell order", "shell", rec.ID, "value", rec.Order.Value)
		}
		var hidden bool
		if !optional(&rec.Hidden, &hidden) {
			logging.Debug("ignoring malformed shell hidden flag", "shell", rec.ID, "value", rec.Hidden.Value)
		}
		cat.Shells = append(cat.Shells, ShellEntry{
			ID:          rec.ID,
			Name:        rec.Name,
			Function:    rec.Function,
			Order:       order,
			Hidden:      hidden,
			Description: rec.Description,
			Requires:    rec.Requires,
		})
	}

	sortShells(cat.Shells)
	return cat, nil
}

func (r *shellRecord) missing() []string {
	var out []string
	if r.ID == "" {
		out = append(out, "id")
	}
	if r.Name == "" {
		out = append(out, "name")
	}
	if r.Function == "" {
		out = append(out, "function")
	}
	return out
}

// optional decodes an optional field into v. An absent or null field leaves
// v untouched. A value of the wrong type also leaves v untouched and reports
// false.
func optional[T any](node *yaml.Node, v *T) bool {
	if node.Kind == 0 || node.Tag == "!!null" {
		return true
	}
	var val T
	if err := node.Decode(&val); err != nil {
		return false
	}
	*v = val
	return true
}

func parseRoot(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}
	return doc.Content[0], nil
}

// decodeStrict decodes node into v, rejecting fields v does not declare.
// Node.Decode has no strict mode, so the node is re-encoded and run through
// a KnownFields decoder.
func decodeStrict(node *yaml.Node, v any) error {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.MappingNode:
		return "an object"
	case yaml.SequenceNode:
		return "a list"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "nothing"
	}
}

func (c *AppCatalog) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func (c *ShellCatalog) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}
