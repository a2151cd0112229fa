// Package s3 provides an S3-backed blobstore.BlobStore for gallery
// snapshots, plus a DynamoDB-coordinated variant that commits the CURRENT
// snapshot pointer atomically so multiple writers cannot clobber each other.
//
// Reads use ranged GETs, so restoring a snapshot pulls only the bytes asked
// for; uploads stream through the S3 upload manager without buffering the
// whole snapshot in memory.
package s3
