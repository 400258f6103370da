// Package document is the live document operations are applied to.
//
// A Document is a parsed HTML tree. Selections are obtained with CSS
// selectors and mutated with the familiar jQuery vocabulary: classes,
// attributes, inline style, properties, markup insertion, detach and
// removal, form serialization.
//
// Properties that have no markup form (scroll position, a control's live
// value) are kept in a side table keyed by node. Detach keeps a node's side
// table entries; Remove and Empty drop them.
//
// A Document is not safe for concurrent use. Programs that touch it from
// several goroutines serialize through an eventloop.Loop.
//
// Browser models the window: location, history, reloads and opened windows.
package document
