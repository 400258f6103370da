// Package op defines operation records and response payloads.
//
// An operation record is a JSON object tagged with a "type" field. The type
// selects the handler that applies the record; every other field is opaque to
// the dispatcher and is read by handlers through path accessors:
//
//	rec, _ := op.Parse([]byte(`{"type":"dom-html","id":"#main","value":"<p>hi</p>"}`))
//	rec.Type()            // "dom-html"
//	rec.String("id")      // "#main"
//	rec.Get("value").Raw  // `"<p>hi</p>"`
//
// A response payload is an ordered Batch of records decoded with DecodeBatch.
// Order is significant: later records may depend on the effects of earlier
// ones.
//
// Records are synthesized with New and modified copies are produced with
// With; the receiver is never mutated.
package op
