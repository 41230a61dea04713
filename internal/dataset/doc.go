// Package dataset implements the campus activity data pipeline: loading the
// Excel workbook into an in-memory table, cleaning known data-quality
// issues, and deriving the ratio metrics and categorical encodings the
// analytics services consume.
package dataset
