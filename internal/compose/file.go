// Package compose edits docker-compose documents structurally.
//
// Documents stay as yaml.v3 node trees from load to dump, so mapping keys keep
// their original order and untouched values keep their original spelling.
// Nothing is ever lowered to a Go map.
package compose

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	tplerrors "github.com/ai-infra-matrix/matrix-tpl/internal/errors"
	"github.com/ai-infra-matrix/matrix-tpl/internal/pathutil"
)

// File is a parsed compose document.
type File struct {
	// Path is where the document was read from, empty for Parse.
	Path string

	// Root is the document node.
	Root *yaml.Node

	// Services is the mapping node under the top-level services key.
	Services *yaml.Node
}

// Load reads and parses the compose file at path. A missing file is an
// InputError; structural problems are StructureErrors.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tplerrors.NewInputError(path, "compose file not found", nil)
		}
		return nil, tplerrors.NewInputError(path, "failed to read compose file", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse parses a compose document whose root is a mapping with a services
// mapping.
func Parse(data []byte) (*File, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, missingKey("services")
	}
	doc := resolve(root.Content[0])
	if doc.Kind != yaml.MappingNode {
		return nil, &StructureError{Key: "(root)", Err: ErrNotMapping}
	}

	services := lookup(doc, "services")
	if services == nil {
		return nil, missingKey("services")
	}
	if services.Kind != yaml.MappingNode {
		return nil, &StructureError{Key: "services", Err: ErrNotMapping}
	}

	// Services are edited in place, so the mapping must not be shared.
	return &File{Root: &root, Services: own(doc, "services")}, nil
}

// Service returns the named service. A service declared with an empty value
// ("name:" with nothing after it) is present and is turned into an empty
// mapping so that patches can add keys to it.
func (f *File) Service(name string) (*Service, error) {
	node := lookup(f.Services, name)
	if node == nil {
		return nil, missingKey("services." + name)
	}
	if isNull(node) {
		node = own(f.Services, name)
		node.Kind = yaml.MappingNode
		node.Tag = "!!map"
		node.Value = ""
		node.Style = 0
	}
	if node.Kind != yaml.MappingNode {
		return nil, &StructureError{Key: "services." + name, Err: ErrNotMapping}
	}
	return &Service{Name: name, Node: node, file: f}, nil
}

// ServiceNames lists the services in document order.
func (f *File) ServiceNames() []string {
	var names []string
	for i := 0; i+1 < len(f.Services.Content); i += 2 {
		names = append(names, f.Services.Content[i].Value)
	}
	return names
}

// Encode serialises the document in block style with two-space indentation.
// Unicode is written unescaped. Encoding the result of Parse(Encode()) again
// yields the same bytes.
func (f *File) Encode() ([]byte, error) {
	blockStyle(f.Root)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f.Root); err != nil {
		return nil, fmt.Errorf("encode compose document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode compose document: %w", err)
	}
	return buf.Bytes(), nil
}

// Write encodes the document and atomically replaces path with it.
func (f *File) Write(path string) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	if err := pathutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return tplerrors.NewRuntimeError("failed to write compose file", err)
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

// blockStyle clears flow style on every collection so the output is written
// one key or item per line.
func blockStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style &^= yaml.FlowStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
