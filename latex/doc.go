// Package latex builds LaTeX source from a tree of parts.
//
// A document is assembled from parts: sections, environments, columns,
// tables, figures, embedded PDF pages, page styles and text. Each part owns
// a text buffer; containers also own children and a stack of close
// fragments. Rendering a container writes its buffer, then its children in
// order, then its close fragments in reverse push order, so every opening
// directive is matched however deeply parts are nested.
//
//	pre := latex.NewPreamble(latex.PreambleOptions{Title: "Quarterly Report"})
//	doc, _ := latex.NewDocument(pre, latex.DefaultDocumentOptions())
//
//	sec, _ := latex.NewSection("Sales", latex.SectionLink(latex.AnchorTOC))
//	tbl, _ := latex.NewTable(latex.PlainTable, "tab:sales",
//	    latex.TableData(f), latex.TableCaption("Sales by region"), latex.TableZebra())
//	sec.Add(tbl)
//	doc.Add(sec)
//
//	tex, err := doc.Assemble()
//
// # Parts
//
// The set of parts is closed. Every type in this package that can be added
// to a tree implements [Part]; literal markup goes in [NewPart] or
// [NewRawText]. [Unpack] renders any part on its own.
//
// A part can belong to one container at a time. Attaching it twice fails
// with [ErrAlreadyAttached] and attaching an ancestor fails with [ErrCycle].
// Rendering never mutates the tree, so unpacking twice gives the same text.
//
// # Tables
//
// [Table] renders a [frame.Frame] or rows added by hand. Multi-level column
// axes produce grouped headers: on each outer level, contiguous runs of the
// same label merge into one spanning cell with a partial rule beneath.
// Non-contiguous repeats are not merged.
//
// # Errors
//
// Validation errors wrap one of the category sentinels such as
// [ErrInvalidRange] or [ErrIncompatibleNesting], and usually a more
// specific one such as [ErrInvalidScale]. Match them with errors.Is.
// Failures raised by a particular part are wrapped in a [PartError].
package latex
