package diagram

import (
	"github.com/matzehuels/sketchgraph/pkg/errors"
)

// Validate checks the document invariants: node ids unique, edge ids
// unique, every edge's endpoints resolving, image nodes carrying an image
// URL, and persisted paths having enough points. Returns the first
// violation found.
func (d *Document) Validate() error {
	nodeIDs := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "node with empty id")
		}
		if _, dup := nodeIDs[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		nodeIDs[n.ID] = struct{}{}

		switch n.Type {
		case NodeRectangle, NodeEllipse, NodeDiamond:
		case NodeImage:
			if n.ImageURL == "" {
				return errors.New(errors.ErrCodeInvalidInput, "image node %q has no image URL", n.ID)
			}
		default:
			return errors.New(errors.ErrCodeInvalidInput, "node %q has unknown type %q", n.ID, n.Type)
		}

		if n.Dimensions.Width <= 0 || n.Dimensions.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "node %q has non-positive dimensions", n.ID)
		}
	}

	edgeIDs := make(map[string]struct{}, len(d.Edges))
	for _, e := range d.Edges {
		if _, dup := edgeIDs[e.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate edge id %q", e.ID)
		}
		edgeIDs[e.ID] = struct{}{}

		if _, ok := nodeIDs[e.From]; !ok {
			return errors.New(errors.ErrCodeInvalidInput, "edge %q references unknown node %q", e.ID, e.From)
		}
		if _, ok := nodeIDs[e.To]; !ok {
			return errors.New(errors.ErrCodeInvalidInput, "edge %q references unknown node %q", e.ID, e.To)
		}
	}

	for _, p := range d.Paths {
		if len(p.Points) < MinPathPoints {
			return errors.New(errors.ErrCodeInvalidInput, "path %q has fewer than %d points", p.ID, MinPathPoints)
		}
		if p.Width <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "path %q has non-positive width", p.ID)
		}
	}

	return nil
}
