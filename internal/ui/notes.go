package ui

import (
	"pxed/internal/dock"
	"pxed/internal/editor"
	"pxed/internal/geom"
)

// Notes is the sprite notes pad: a text editor that can be docked on any
// edge of the workspace.
type Notes struct {
	*editor.TextEdit
	hint geom.Size
}

func (n *Notes) DockableAt() dock.Side     { return dock.Edges | dock.Expansive }
func (n *Notes) DockHandleSide() dock.Side { return dock.Top }

// SizeHint is fixed so that redocking does not depend on the text length.
func (n *Notes) SizeHint() geom.Size { return n.hint }
