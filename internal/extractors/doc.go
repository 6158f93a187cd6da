// Package extractors provides implementations of the Extractor interface
// for the accepted upload formats. Each extractor knows how to turn the
// bytes of one format family into plain text.
//
// Extractors are registered with the ExtractionService at startup. All of
// them pass their output through Sanitise so callers always receive valid
// UTF-8 in Unicode NFC form.
package extractors
