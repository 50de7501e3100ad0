// Package export hands a completed run's ordered prompt/answer pairs to
// a downstream sink. The core treats the sink as opaque; the bundled
// implementation writes CSV files, both for the download endpoint and
// for an optional directory deposit triggered by run-completion events.
package export
