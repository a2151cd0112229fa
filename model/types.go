package model

import (
	"fmt"
	"time"
)

// SeqNum is the dense, engine-assigned sequence number of an image.
// It is assigned once at insertion, strictly increasing in insertion order,
// and never reused. It is strictly 32-bit, allowing for max 4 billion images
// per gallery. Used for all hot-path structures (group indexes, bitmaps).
type SeqNum uint32

// MaxSeqNum is the maximum possible value for a SeqNum.
const MaxSeqNum = ^SeqNum(0)

// Image is a media record. Immutable once stored; the record store owns the
// only copy and every other component refers to it by SeqNum.
type Image struct {
	// ID is the user-facing stable identifier.
	ID string

	// Filename is the display name of the image.
	Filename string

	// AlbumID is the optional partition tag. Empty means the image belongs
	// to no album and appears only in the all-images partition.
	AlbumID string

	// UploadedAt is the creation timestamp that drives ordering.
	UploadedAt time.Time

	// Opaque payload metadata.
	SizeBytes int64
	Width     int
	Height    int
}

// View converts the record to its caller-facing wire representation.
// The timestamp is rendered as ISO-8601 (RFC 3339); an absent album
// serializes as null.
func (i Image) View() ImageView {
	v := ImageView{
		ID:         i.ID,
		Filename:   i.Filename,
		UploadedAt: i.UploadedAt.Format(time.RFC3339Nano),
		SizeBytes:  i.SizeBytes,
		Width:      i.Width,
		Height:     i.Height,
	}
	if i.AlbumID != "" {
		album := i.AlbumID
		v.AlbumID = &album
	}
	return v
}

// ImageView is the transport representation of an Image.
// This shape is the wire contract any serialization layer must reproduce
// unchanged.
type ImageView struct {
	ID         string  `json:"id"`
	Filename   string  `json:"filename"`
	AlbumID    *string `json:"album_id"`
	UploadedAt string  `json:"uploaded_at"`
	SizeBytes  int64   `json:"size_bytes"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// PageResult is the result of a paginated query.
type PageResult struct {
	Images     []ImageView `json:"images"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// Partition selects the set of images a query runs against: either the
// sentinel all-images partition or a single album. The zero value selects
// all images.
type Partition struct {
	tag   string
	album bool
}

// AllImages returns the sentinel partition covering every image.
func AllImages() Partition {
	return Partition{}
}

// Album returns the partition for a specific album tag.
func Album(tag string) Partition {
	return Partition{tag: tag, album: true}
}

// IsAll reports whether the partition is the all-images sentinel.
func (p Partition) IsAll() bool {
	return !p.album
}

// Tag returns the album tag. Only meaningful when IsAll is false.
func (p Partition) Tag() string {
	return p.tag
}

// String returns a string representation of the partition.
func (p Partition) String() string {
	if p.IsAll() {
		return "all"
	}
	return fmt.Sprintf("album(%s)", p.tag)
}
