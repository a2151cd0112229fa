// Package blobstore abstracts where gallery snapshots live: local disk,
// memory (tests), or an object store (S3, MinIO).
//
// Stores hand out read-only Blobs with random access and streaming
// WritableBlobs for uploads. Implementations must return an error satisfying
// errors.Is(err, ErrNotFound) for missing blobs.
package blobstore
