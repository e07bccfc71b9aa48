// Package render draws diagram documents.
//
// # Overview
//
// Two renderers are provided:
//
//   - The frame renderer ([Renderer.Frame]) draws the live editing view as
//     SVG: grid, nodes, edges, freehand paths, plus transient state such as
//     the selection highlight, drag previews, and the rubber band. It is a
//     pure function of its input; it never mutates the document.
//   - The DOT renderer ([ToDOT], [RenderSVG], [RenderPNG]) hands the graph
//     to Graphviz for static exports where Graphviz computes its own
//     layout.
//
// # Frames
//
// A [Frame] bundles the document with the view transform and the editor's
// transient state. The caller assembles one per redraw:
//
//	svg := render.New().Frame(render.Frame{
//	    Document: doc,
//	    Width:    1200,
//	    Height:   800,
//	    Scale:    view.Scale,
//	    OffsetX:  view.OffsetX,
//	    OffsetY:  view.OffsetY,
//	})
//
// Preview positions override node positions for the duration of a drag;
// the document itself stays untouched until the gesture commits.
//
// # Images
//
// Image nodes reference their bitmap by URL. [ImageCache] fetches each
// URL at most once, asynchronously, and hands back a data URI once the
// fetch completes; frames rendered in the meantime show a placeholder.
package render
