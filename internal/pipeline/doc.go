// Package pipeline turns catalog records into profile picture artifacts.
//
// For each record the Extractor resolves the source PDF, rasterizes its first
// page, writes the page as a preview PNG, selects a candidate region with the
// detection scorer, enhances accepted crops and writes the profile picture
// PNG. Both files are named after the record id, so re-running a batch
// overwrites the previous artifacts in place.
//
// # Stages and Errors
//
// Every stage returns an error. Known failures are tagged with a *StageError
// whose Kind ends up in the report:
//
//   - missing_source_name: the record metadata has no source file name
//   - missing_source_file: the PDF is not in the résumé directory
//   - rasterization_failure: the PDF could not be rendered
//   - unclassified_record_fault: anything else, including recovered panics
//
// Faults while scoring one candidate region or enhancing the chosen crop are
// contained below the record level and never fail it.
//
// # Batches
//
// Run fetches the record list once and processes it with a bounded worker
// pool. A record failure never affects other records; only an unreachable
// catalog aborts the batch (ErrCatalogUnavailable). Results keep catalog
// order regardless of the number of workers.
package pipeline
