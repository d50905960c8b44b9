package compose

import "gopkg.in/yaml.v3"

// Compose files commonly share values through anchors, aliases and "<<"
// merge keys (x- extension fields). Reads follow them; writes never go
// through them. Before a service is edited it is given its own copy of
// anything it shares, and aliases elsewhere that point into it are expanded
// so they keep the value they had.

// lookup returns the value for key in mapping m with aliases resolved, or
// nil. Keys written in m win over keys inherited through "<<"; among merge
// sources the first that has the key wins.
func lookup(m *yaml.Node, key string) *yaml.Node {
	m = resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if !isMergeKey(m.Content[i]) && m.Content[i].Value == key {
			return resolve(m.Content[i+1])
		}
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if !isMergeKey(m.Content[i]) {
			continue
		}
		for _, src := range mergeSources(m.Content[i+1]) {
			if v := lookup(src, key); v != nil {
				return v
			}
		}
	}
	return nil
}

// own returns the value for key as a node that belongs to m alone. An
// aliased value is replaced by a copy in place; a value inherited through a
// merge key is copied into m under key. It returns nil when key is absent.
func own(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if isMergeKey(m.Content[i]) || m.Content[i].Value != key {
			continue
		}
		if m.Content[i+1].Kind == yaml.AliasNode {
			materialize(m.Content[i+1])
		}
		return m.Content[i+1]
	}
	if inherited := lookup(m, key); inherited != nil {
		c := clone(inherited)
		appendPair(m, key, c)
		return c
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!merge"
}

// mergeSources lists the mappings named by a "<<" value: one mapping or a
// sequence of them.
func mergeSources(v *yaml.Node) []*yaml.Node {
	v = resolve(v)
	switch v.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{v}
	case yaml.SequenceNode:
		var srcs []*yaml.Node
		for _, item := range v.Content {
			if item = resolve(item); item.Kind == yaml.MappingNode {
				srcs = append(srcs, item)
			}
		}
		return srcs
	}
	return nil
}

// clone deep-copies n without anchors. Aliases inside n stay aliases to
// the same targets.
func clone(n *yaml.Node) *yaml.Node {
	c := *n
	c.Anchor = ""
	if n.Content != nil {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = clone(child)
		}
	}
	return &c
}

// materialize turns alias node a into a copy of its target, keeping the
// comments written on the alias.
func materialize(a *yaml.Node) {
	c := clone(resolve(a))
	c.HeadComment, c.LineComment, c.FootComment = a.HeadComment, a.LineComment, a.FootComment
	*a = *c
}

// unshare expands every alias in the document that points at target, at a
// node inside target, or at a node that contains target.
func (f *File) unshare(target *yaml.Node) {
	shared := make(map[*yaml.Node]bool)
	var collect func(n *yaml.Node)
	collect = func(n *yaml.Node) {
		shared[n] = true
		for _, c := range n.Content {
			collect(c)
		}
	}
	collect(target)
	for _, n := range pathTo(f.Root, target) {
		shared[n] = true
	}

	var expand func(n *yaml.Node)
	expand = func(n *yaml.Node) {
		if n.Kind == yaml.AliasNode && shared[n.Alias] {
			materialize(n)
		}
		for _, c := range n.Content {
			expand(c)
		}
	}
	expand(f.Root)
}

// pathTo returns the nodes from root down to target, target included, or
// nil when target is not reachable without following aliases.
func pathTo(root, target *yaml.Node) []*yaml.Node {
	if root == target {
		return []*yaml.Node{root}
	}
	for _, c := range root.Content {
		if p := pathTo(c, target); p != nil {
			return append([]*yaml.Node{root}, p...)
		}
	}
	return nil
}
