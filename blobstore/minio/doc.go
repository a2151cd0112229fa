// Package minio provides a blob store backed by MinIO or any S3-compatible
// object storage, useful for self-hosted deployments and integration tests
// against a local MinIO container.
package minio
