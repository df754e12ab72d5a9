// Package bamprovider provides utilities for scanning a BAM file.
//
// The Provider is an interface for reading a BAM file one full pass at a
// time. Every NewIterator call starts an independent pass from the first
// record, so callers that need several passes over a file never hold the
// whole file in memory.
package bamprovider
