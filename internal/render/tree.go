package render

import (
	"path/filepath"
	"sort"
	"strings"
)

// treeNode is one directory or file in the rendered hierarchy.
type treeNode struct {
	children map[string]*treeNode
	isFile   bool
}

// DirectoryTree renders file paths as a box-drawing tree rooted at their
// common layout. Entries are sorted with directories first.
func DirectoryTree(paths []string) string {
	root := &treeNode{children: make(map[string]*treeNode)}

	for _, path := range paths {
		parts := strings.Split(filepath.ToSlash(path), "/")
		node := root
		for i, part := range parts {
			if part == "" || part == "." {
				continue
			}
			child, ok := node.children[part]
			if !ok {
				child = &treeNode{children: make(map[string]*treeNode)}
				node.children[part] = child
			}
			if i == len(parts)-1 {
				child.isFile = true
			}
			node = child
		}
	}

	var b strings.Builder
	b.WriteString(".\n")
	writeTreeLevel(&b, root, "")
	return b.String()
}

func writeTreeLevel(b *strings.Builder, node *treeNode, prefix string) {
	names := sortedChildren(node)

	for i, name := range names {
		child := node.children[name]
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(names)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(name)
		b.WriteString("\n")

		writeTreeLevel(b, child, childPrefix)
	}
}

// sortedChildren orders directories before files, then alphabetically.
func sortedChildren(node *treeNode) []string {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := node.children[names[i]], node.children[names[j]]
		if a.isFile != b.isFile {
			return !a.isFile
		}
		return names[i] < names[j]
	})
	return names
}
