// Package source provides the data sources a dataset is built from.
//
// A Source is a small capability interface: it lists field names, returns the
// container for a name and reports the unit of a name. Three implementations
// are provided:
//   - Memory holds containers built in code (tests, demos, model output)
//   - ReadCSV loads a header-row CSV table into a Memory
//   - ReadParquet loads a Parquet table, such as one written by the dataset
//     exporter, into a Memory
//
// Units are resolved through a UnitResolver: a static per-field-name table is
// consulted first, then an optional metadata lookup, and finally the field
// is treated as dimensionless with a warning on the diagnostic logger.
package source
