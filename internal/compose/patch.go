package compose

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// RestartNo is the restart policy written by RestartPatch.
	RestartNo = "no"
	// DefaultEnvVolume is the bind mount ensured by EnvVolumePatch.
	DefaultEnvVolume = "./.env.prod:/app/.env:ro"
	// DefaultEnvFileKey and DefaultEnvFileValue form the entry ensured by EnvVarPatch.
	DefaultEnvFileKey   = "ENV_FILE"
	DefaultEnvFileValue = "/app/.env"
)

// Service is one entry under the top-level services mapping.
type Service struct {
	Name string
	Node *yaml.Node

	file     *File
	detached bool
}

// edit prepares the service for modification. An aliased service gets its
// own copy, and aliases elsewhere in the document that point into the
// service are expanded so other services keep their current values.
// Patches call it only once they know they will change something.
func (s *Service) edit() {
	if s.detached || s.file == nil {
		return
	}
	s.detached = true
	if node := own(s.file.Services, s.Name); node != nil {
		s.Node = node
	}
	s.file.unshare(s.Node)
}

// Patch is an idempotent edit of a single service.
type Patch interface {
	// Name identifies the patch in diagnostics.
	Name() string
	// Apply edits svc in place and reports whether anything changed.
	Apply(svc *Service) (bool, error)
}

// RestartPatch sets restart to the string "no".
type RestartPatch struct{}

func (RestartPatch) Name() string { return "restart" }

// Apply leaves an existing "no" alone, rewrites any other value in place and
// appends the key at the end of the service when it is absent.
func (RestartPatch) Apply(svc *Service) (bool, error) {
	if value := lookup(svc.Node, "restart"); value != nil && value.Kind == yaml.ScalarNode && value.Value == RestartNo {
		return false, nil
	}

	svc.edit()
	value := own(svc.Node, "restart")
	if value == nil {
		appendPair(svc.Node, "restart", quotedString(RestartNo))
		return true, nil
	}
	setScalar(value, RestartNo, yaml.SingleQuotedStyle)
	return true, nil
}

// EnvVolumePatch ensures Volume is listed under volumes.
type EnvVolumePatch struct {
	Volume string
}

func (EnvVolumePatch) Name() string { return "env-volume" }

func (p EnvVolumePatch) volume() string {
	if p.Volume == "" {
		return DefaultEnvVolume
	}
	return p.Volume
}

// Apply creates volumes when absent and appends the mount unless an
// identical short-syntax entry is already there.
func (p EnvVolumePatch) Apply(svc *Service) (bool, error) {
	existing, err := sequence(svc, "volumes")
	if err != nil {
		return false, err
	}
	if existing != nil {
		for _, item := range existing.Content {
			if item = resolve(item); item.Kind == yaml.ScalarNode && item.Value == p.volume() {
				return false, nil
			}
		}
	}

	svc.edit()
	seq, err := ensureSequence(svc, "volumes")
	if err != nil {
		return false, err
	}
	appendItem(seq, plainString(p.volume()))
	return true, nil
}

// EnvVarPatch ensures KEY=VALUE under environment, replacing the first
// existing KEY= entry.
type EnvVarPatch struct {
	Key   string
	Value string
}

func (EnvVarPatch) Name() string { return "env-var" }

func (p EnvVarPatch) key() string {
	if p.Key == "" {
		return DefaultEnvFileKey
	}
	return p.Key
}

func (p EnvVarPatch) value() string {
	if p.Value == "" {
		return DefaultEnvFileValue
	}
	return p.Value
}

func (p EnvVarPatch) entry() string {
	return p.key() + "=" + p.value()
}

// Apply handles both list ("- KEY=VALUE") and map ("KEY: VALUE")
// environment forms. An absent environment key is created as a list.
func (p EnvVarPatch) Apply(svc *Service) (bool, error) {
	if existing := lookup(svc.Node, "environment"); existing != nil && existing.Kind == yaml.MappingNode {
		return p.applyMapping(svc, existing), nil
	}

	existing, err := sequence(svc, "environment")
	if err != nil {
		return false, err
	}
	if existing != nil {
		if i := p.index(existing); i >= 0 && resolve(existing.Content[i]).Value == p.entry() {
			return false, nil
		}
	}

	svc.edit()
	seq, err := ensureSequence(svc, "environment")
	if err != nil {
		return false, err
	}
	i := p.index(seq)
	if i < 0 {
		appendItem(seq, plainString(p.entry()))
		return true, nil
	}
	if item := seq.Content[i]; item.Kind == yaml.AliasNode {
		materialize(item)
	}
	seq.Content[i].Value = p.entry()
	seq.Content[i].Tag = "!!str"
	return true, nil
}

// index returns the position of the first KEY= entry in seq, or -1.
func (p EnvVarPatch) index(seq *yaml.Node) int {
	prefix := p.key() + "="
	for i, item := range seq.Content {
		if item = resolve(item); item.Kind == yaml.ScalarNode && strings.HasPrefix(item.Value, prefix) {
			return i
		}
	}
	return -1
}

func (p EnvVarPatch) applyMapping(svc *Service, env *yaml.Node) bool {
	if value := lookup(env, p.key()); value != nil && value.Kind == yaml.ScalarNode && value.Value == p.value() {
		return false
	}

	svc.edit()
	env = own(svc.Node, "environment")
	if value := own(env, p.key()); value != nil {
		setScalar(value, p.value(), 0)
		return true
	}
	appendPair(env, p.key(), plainString(p.value()))
	return true
}

// Apply runs patches against the named service in order and returns the
// names of the patches that changed something.
func (f *File) Apply(service string, patches ...Patch) ([]string, error) {
	svc, err := f.Service(service)
	if err != nil {
		return nil, err
	}
	var changed []string
	for _, p := range patches {
		ok, err := p.Apply(svc)
		if err != nil {
			return changed, err
		}
		if ok {
			changed = append(changed, p.Name())
		}
	}
	return changed, nil
}

// sequence returns the sequence under key for reading, nil when the key is
// absent or null.
func sequence(svc *Service, key string) (*yaml.Node, error) {
	value := lookup(svc.Node, key)
	switch {
	case value == nil, isNull(value):
		return nil, nil
	case value.Kind != yaml.SequenceNode:
		return nil, notSequence(svc, key)
	}
	return value, nil
}

// ensureSequence returns the service's own sequence under key, creating an
// empty one at the end of the service when the key is absent or null.
func ensureSequence(svc *Service, key string) (*yaml.Node, error) {
	value := own(svc.Node, key)
	switch {
	case value == nil:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		appendPair(svc.Node, key, seq)
		return seq, nil
	case isNull(value):
		*value = yaml.Node{
			Kind:        yaml.SequenceNode,
			Tag:         "!!seq",
			Anchor:      value.Anchor,
			HeadComment: value.HeadComment,
			LineComment: value.LineComment,
			FootComment: value.FootComment,
		}
	case value.Kind != yaml.SequenceNode:
		return nil, notSequence(svc, key)
	}
	return value, nil
}

func notSequence(svc *Service, key string) error {
	return &StructureError{Key: "services." + svc.Name + "." + key, Err: ErrNotSequence}
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}

// appendItem adds n to the end of seq. A comment trailing the last item is
// moved below n so the list stays contiguous.
func appendItem(seq, n *yaml.Node) {
	if len(seq.Content) > 0 {
		last := seq.Content[len(seq.Content)-1]
		if last.FootComment != "" {
			n.FootComment, last.FootComment = last.FootComment, ""
		}
	}
	seq.Content = append(seq.Content, n)
}

// setScalar rewrites n as a string scalar, keeping its anchor and comments.
func setScalar(n *yaml.Node, value string, style yaml.Style) {
	n.Kind = yaml.ScalarNode
	n.Tag = "!!str"
	n.Value = value
	n.Style = style
	n.Content = nil
	n.Alias = nil
}

func plainString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func quotedString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.SingleQuotedStyle}
}
