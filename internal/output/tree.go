package output

import (
	"strings"
)

const (
	// Tree characters
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// Description alignment column
	descriptionColumn = 36
)

// TreeNode is one line of a rendered tree.
type TreeNode struct {
	Name        string
	Description string
	Children    []*TreeNode
}

// RenderTree renders a forest under a bold title. Children keep the order they
// were given in; descriptions are aligned at a fixed column.
func RenderTree(title string, roots []*TreeNode) string {
	var sb strings.Builder
	sb.WriteString(StyleSummary.Render(title))
	sb.WriteString("\n")
	for i, root := range roots {
		renderNode(&sb, root, "", i == len(roots)-1)
	}
	return sb.String()
}

func renderNode(sb *strings.Builder, node *TreeNode, prefix string, isLast bool) {
	connector := treeEdge
	childPrefix := prefix + treeVert
	if isLast {
		connector = treeLast
		childPrefix = prefix + treeSpace
	}

	line := prefix + connector + node.Name
	plain := len([]rune(line))
	line = prefix + connector + StyleNoun.Render(node.Name)

	if node.Description != "" {
		padding := descriptionColumn - plain
		if padding < 2 {
			padding = 2
		}
		line += strings.Repeat(" ", padding)
		line += StyleDim.Render(node.Description)
	}

	sb.WriteString(line)
	sb.WriteString("\n")

	for i, child := range node.Children {
		renderNode(sb, child, childPrefix, i == len(node.Children)-1)
	}
}
