// Package build turns upstream JSON snapshots into a topic map build
// directory.
//
// A build is a pure function of its inputs: for every registered source the
// keys are extracted, deduplicated and assigned local IDs in byte order,
// checked against the source interval, and written as the structure the
// source channel declares. Perfect-hash channels are compiled into the
// program, so the build only records their counts. Ordered-index channels are
// written as {source}.{channel}.map artifacts.
//
// All files are written atomically and the manifest is written last, so a
// failed build never leaves a directory that looks complete. Rebuilding the
// same inputs produces byte-identical output.
package build
