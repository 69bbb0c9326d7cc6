package engine

import "github.com/anonto42/picfeed/internal/models"

// BuildCommentTree turns a flat list of comments, oldest first, into its root comments with
// Replies filled in. Sibling order follows input order. A comment whose parent is not in the
// batch is a root. Later duplicates of an id are dropped. Comments that sit on a parent cycle
// are all promoted to roots.
func BuildCommentTree(flat []models.Comment) []*models.Comment {
	roots := make([]*models.Comment, 0)
	if len(flat) == 0 {
		return roots
	}

	// nodes is never resized after this loop, so pointers into it stay valid
	nodes := make([]models.Comment, 0, len(flat))
	index := make(map[string]int, len(flat))
	for _, c := range flat {
		if _, dup := index[c.ID]; dup {
			continue
		}
		index[c.ID] = len(nodes)
		c.Replies = []*models.Comment{}
		nodes = append(nodes, c)
	}

	parent := make([]int, len(nodes))
	for i := range nodes {
		parent[i] = -1
		if p := nodes[i].ParentID; p != nil {
			if j, ok := index[*p]; ok {
				parent[i] = j
			}
		}
	}
	breakCycles(parent)

	for i := range nodes {
		if parent[i] < 0 {
			roots = append(roots, &nodes[i])
			continue
		}
		p := &nodes[parent[i]]
		p.Replies = append(p.Replies, &nodes[i])
	}
	return roots
}

// breakCycles detaches every node that lies on a cycle of parent links. -1 means root.
func breakCycles(parent []int) {
	const (
		unseen uint8 = iota
		onPath
		done
	)
	state := make([]uint8, len(parent))
	for i := range parent {
		if state[i] != unseen {
			continue
		}
		var path []int
		j := i
		for j >= 0 && state[j] == unseen {
			state[j] = onPath
			path = append(path, j)
			j = parent[j]
		}
		if j >= 0 && state[j] == onPath {
			for k := len(path) - 1; k >= 0; k-- {
				member := path[k]
				parent[member] = -1
				if member == j {
					break
				}
			}
		}
		for _, k := range path {
			state[k] = done
		}
	}
}

// InsertReply places a freshly created comment into an already built tree: under its parent
// when the parent is present, at the end of the roots otherwise.
func InsertReply(tree []*models.Comment, c *models.Comment) []*models.Comment {
	if c.Replies == nil {
		c.Replies = []*models.Comment{}
	}
	if c.ParentID != nil {
		if parent := findComment(tree, *c.ParentID); parent != nil {
			parent.Replies = append(parent.Replies, c)
			return tree
		}
	}
	return append(tree, c)
}

func findComment(tree []*models.Comment, id string) *models.Comment {
	for _, c := range tree {
		if c.ID == id {
			return c
		}
		if found := findComment(c.Replies, id); found != nil {
			return found
		}
	}
	return nil
}
