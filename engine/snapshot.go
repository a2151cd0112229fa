package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/galgo/codec"
	"github.com/hupe1980/galgo/model"
)

// Snapshot container layout:
//
//	[magic "GALG"][version uint8][codecNameLen uint8][codecName]
//	[compression uint8][blockLen uint32][block]
//
// The codec name is stored so an existing snapshot can be opened regardless
// of the codec configured on the reading side.
var snapshotMagic = [4]byte{'G', 'A', 'L', 'G'}

const snapshotVersion = 1

// ErrBadSnapshot is returned when a snapshot header or payload is malformed.
var ErrBadSnapshot = errors.New("malformed snapshot")

type snapshotImage struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	AlbumID    string    `json:"album_id,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
	SizeBytes  int64     `json:"size_bytes"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
}

type snapshotState struct {
	Images []snapshotImage `json:"images"`
}

// SaveToWriter serializes the record table to w. Group indexes are not
// stored; they are rebuilt deterministically on load from the insertion
// order, which the snapshot preserves.
func (e *Engine) SaveToWriter(w io.Writer, c codec.Codec, comp Compression) error {
	if c == nil {
		c = codec.Default
	}

	e.mu.RLock()
	state := snapshotState{
		Images: make([]snapshotImage, len(e.store.images)),
	}
	for i, img := range e.store.images {
		state.Images[i] = snapshotImage{
			ID:         img.ID,
			Filename:   img.Filename,
			AlbumID:    img.AlbumID,
			UploadedAt: img.UploadedAt,
			SizeBytes:  img.SizeBytes,
			Width:      img.Width,
			Height:     img.Height,
		}
	}
	e.mu.RUnlock()

	payload, err := c.Marshal(state)
	if err != nil {
		return fmt.Errorf("snapshot encode: %w", err)
	}

	block, err := compressBlock(payload, comp)
	if err != nil {
		return fmt.Errorf("snapshot compress: %w", err)
	}

	name := c.Name()
	if len(name) > 255 {
		return fmt.Errorf("codec name too long: %q", name)
	}

	header := make([]byte, 0, len(snapshotMagic)+3+len(name))
	header = append(header, snapshotMagic[:]...)
	header = append(header, snapshotVersion, byte(len(name)))
	header = append(header, name...)
	header = append(header, byte(comp))

	if _, err := w.Write(header); err != nil {
		return err
	}

	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], uint32(len(block)))
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return err
	}
	_, err = w.Write(block)
	return err
}

// NewFromReader restores an Engine from a snapshot produced by SaveToWriter.
// Records are re-inserted in their original order through the batch path, so
// sequence numbers (and therefore every group index) come out identical to
// the engine that was saved.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	var fixed [6]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, fmt.Errorf("%w: short header: %w", ErrBadSnapshot, err)
	}
	if [4]byte(fixed[:4]) != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadSnapshot)
	}
	if fixed[4] != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, fixed[4])
	}

	nameBuf := make([]byte, int(fixed[5]))
	if _, err := io.ReadFull(r, nameBuf); err != nil {
		return nil, fmt.Errorf("%w: short codec name: %w", ErrBadSnapshot, err)
	}
	c, ok := codec.ByName(string(nameBuf))
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrBadSnapshot, string(nameBuf))
	}

	var tail [5]byte
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return nil, fmt.Errorf("%w: short block header: %w", ErrBadSnapshot, err)
	}
	comp := Compression(tail[0])
	blockLen := binary.LittleEndian.Uint32(tail[1:])

	block := make([]byte, blockLen)
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, fmt.Errorf("%w: short block: %w", ErrBadSnapshot, err)
	}

	payload, err := decompressBlock(block, comp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	var state snapshotState
	if err := c.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrBadSnapshot, err)
	}

	e := New(opts...)
	imgs := make([]model.Image, len(state.Images))
	for i, si := range state.Images {
		imgs[i] = model.Image{
			ID:         si.ID,
			Filename:   si.Filename,
			AlbumID:    si.AlbumID,
			UploadedAt: si.UploadedAt,
			SizeBytes:  si.SizeBytes,
			Width:      si.Width,
			Height:     si.Height,
		}
	}
	e.InsertBatch(imgs)
	return e, nil
}
