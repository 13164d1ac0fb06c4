// Package msgrender renders chat message content for display and for
// assistive technology.
//
// # Quick Start
//
// Create a renderer and render a message:
//
//	r := msgrender.NewRenderer()
//	res := r.Render(msgrender.Message{
//	    MessageID:         "m1",
//	    Content:           "see https://example.com",
//	    ContentType:       msgrender.ContentTypeText,
//	    SenderDisplayName: "Alice",
//	}, msgrender.RenderProps{})
//
//	fmt.Println(res.HTML())      // container with the linkified body
//	fmt.Println(res.AriaLabel)   // "Alice said see https://example.com"
//	fmt.Println(res.LiveMessage) // "Alice said see https://example.com"
//
// # Content Types
//
// Plain text is auto-linked and never interpreted as markup. HTML content is
// parsed and rebuilt node by node through an ordered rule list: inline
// images referenced by id become activatable wrappers, mentions can be
// rendered by a custom renderer, and a default rule keeps the remaining
// markup minus scripts, event handlers and script URLs. Unknown content
// types render nothing and log a warning.
//
// # Inline Images
//
// A ContentView is one mounted message. Re-rendering it with changed inputs
// (message id, inline image ids, resolved URL ids, fetcher presence) asks
// the AttachmentFetcher once for the images that have no URL yet:
//
//	urls := msgrender.NewAttachmentURLs()
//	view := msgrender.NewContentView(r)
//	res := view.Render(ctx, msg, msgrender.RenderProps{
//	    AttachmentURLs:     urls.Snapshot(),
//	    OnFetchAttachments: fetcher,
//	    OnInlineImageClicked: func(id string) { openPreview(id) },
//	})
//	res.Node.Dispatch(msgrender.Event{Type: msgrender.EventClick, Target: imageID})
//
// # Other Components
//
//   - RenderBlocked renders messages withheld by data-loss-prevention policy.
//   - Gate renders the unsupported operating system, browser or browser
//     version page; DetectEnvironment fills EnvironmentInfo from a user agent.
//   - Composer holds sanitized editor content, inline images and focus.
//   - Gallery renders documented stories into one HTML document, and
//     PDFExporter and ExporterPool print documents with headless Chrome.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r := msgrender.NewRenderer(
//	    msgrender.WithLogger(logger),
//	    msgrender.WithStrings(msgrender.Strings{EditedTag: "Modifié"}),
//	    msgrender.WithFeatures(msgrender.Features{Mentions: true}),
//	)
//
// Empty strings keep their English defaults.
package msgrender
