// Package model provides the intermediate representation (IR) of a parsed
// word-processor document.
//
// The loader in package docx produces a [SourceDocument]; the renderers in
// packages markdown and images consume it. Nothing in this package performs
// I/O.
//
// # Blocks
//
// A document body is a single ordered sequence of [Block] values. The
// concrete types are:
//
//   - [Paragraph] - a styled paragraph with inline content
//   - [Table] - a table whose cells are already flattened to plain text
//   - [Ignored] - structural markers (section properties, content controls)
//   - [Unsupported] - any other body element, kept so it can be reported
//
// Block order is authoritative. Paragraphs and tables are not stored in
// separate collections, so there is no positional correspondence to keep in
// sync while rendering.
//
// # Inline content
//
// Paragraph content is a sequence of [Inline] items: [Text], [Run],
// [Hyperlink] and [Drawing]. Runs may nest further inline items.
//
// # Images
//
// Embedded images are listed once on the document as [EmbeddedImage] values.
// A [Drawing] refers to an image by relationship id; [AnchorName] derives the
// markdown reference label shared by the inline reference and the image
// definition.
package model
