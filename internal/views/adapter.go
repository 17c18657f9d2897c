package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
)

// component lets a gomponents tree be rendered wherever a templ.Component is expected,
// so handlers render every page with Render(ctx, c.Response()).
type component struct {
	node g.Node
}

func (c component) Render(_ context.Context, w io.Writer) error {
	return c.node.Render(w)
}

// Component wraps a gomponents node as a templ.Component
func Component(node g.Node) templ.Component {
	return component{node: node}
}
