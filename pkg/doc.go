// Package pkg provides the core libraries for Sketchgraph diagram editing.
//
// # Overview
//
// Sketchgraph is an interactive diagram editor with a terminal UI, an HTTP
// server, and an LLM-backed generator that turns plain-text descriptions into
// diagrams. The pkg directory is organized into four main areas:
//
//  1. Domain model ([diagram], [geometry], [history], [layout])
//  2. Editing ([editor])
//  3. Rendering ([render])
//  4. Infrastructure ([store], [session], [cache], [config], [genai], [docio])
//
// # Architecture
//
// The typical data flow through Sketchgraph:
//
//	Text prompt or JSON import
//	         ↓
//	    [genai] / [docio] package (produce a document)
//	         ↓
//	    [layout] package (assign positions level by level)
//	         ↓
//	    [editor] + [history] packages (interactive edits, undo/redo)
//	         ↓
//	    [render] package (SVG frames or Graphviz output)
//	         ↓
//	    [store] package (debounced persistence)
//
// # Quick Start
//
//	// 1. Generate a document from a prompt
//	client, _ := genai.NewClient(genai.Config{APIKey: key})
//	raw, _ := client.Generate(ctx, "a login flow with three steps")
//	doc, _ := raw.ToDocument()
//
//	// 2. Lay it out
//	layout.Apply(doc)
//
//	// 3. Edit interactively
//	ed := editor.New(history.New(doc))
//	ed.PointerDown(400, 300, false)
//
//	// 4. Render a frame
//	r := render.New()
//	svg := r.Frame(render.Frame{Document: ed.Document(), Width: 800, Height: 600, Scale: 1})
//
// # Main Packages
//
// ## Domain Model
//
// [diagram] - The document model: nodes (rectangle, ellipse, diamond, text,
// image), edges with optional labels, and freehand paths. Documents are
// treated as immutable values; every mutation produces a clone.
//
// [geometry] - Points, dimensions, and bounds with hit-testing, clamping,
// and grid snapping.
//
// [history] - Bounded undo/redo over document snapshots. Pushing a new state
// clears the redo stack; the past is capped at a fixed depth.
//
// [layout] - Breadth-first layered layout. Roots on the first level,
// successors below, each row centered horizontally.
//
// ## Editing
//
// [editor] - The interaction state machine behind every pointer and key
// event: selection, dragging, rubber-band, shape drawing, text entry,
// freehand sketching, panning, and zooming. Screen coordinates go in,
// committed documents come out.
//
// ## Rendering
//
// [render] - SVG frame rendering for the editor and server, plus Graphviz
// conversion for automatic layouts (DOT, SVG, PNG). Includes an image cache
// that resolves remote URLs to data URIs in the background.
//
// ## Infrastructure
//
// [store] - Document persistence with file and MongoDB backends, a debounced
// saver that coalesces rapid edits, and a content-addressed blob store for
// uploaded images.
//
// [session] - Session management for authenticated users with file and Redis
// backends, plus a single-session convenience wrapper for the CLI.
//
// [cache] - Byte caches (memory, file, null) used for LLM responses and
// fetched images.
//
// [config] - TOML configuration for storage and session backends, generation
// settings, and editor preferences.
//
// [genai] - The LLM client that produces diagram documents from text
// prompts, with response validation and caching.
//
// [docio] - JSON import and export with structural validation of untrusted
// input.
//
// [errors] - Code-typed errors shared across packages.
//
// # Common Workflows
//
// Import, validate, and persist a document:
//
//	doc, _ := docio.ImportJSON("diagram.json")
//	st, _ := store.NewFileStore("")
//	st.Save(ctx, store.DefaultDocumentID, doc)
//
// Debounce saves during editing:
//
//	saver := store.NewDebouncedSaver(st, store.DefaultDocumentID, 0)
//	saver.Notify(ed.Document())
//	defer saver.Flush(ctx)
//
// Render an automatic layout with Graphviz:
//
//	png, _ := render.RenderPNG(ctx, doc)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/editor/...       # Specific package
//	go test -run Example           # Examples only
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/diagram
// [geometry]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/geometry
// [history]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/history
// [layout]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/layout
// [editor]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/editor
// [render]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/render
// [store]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/store
// [session]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/session
// [cache]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/config
// [genai]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/genai
// [docio]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/docio
// [errors]: https://pkg.go.dev/github.com/matzehuels/sketchgraph/pkg/errors
package pkg
