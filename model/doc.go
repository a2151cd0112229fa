// Package model defines the shared data types of the gallery: the Image
// record, its wire-facing view, the page result shape and the partition
// selector.
//
// The package is dependency-free on purpose; every other package in the
// module can import it without cycles.
package model
