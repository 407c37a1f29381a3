package host

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxMessageSize bounds a single frame in either direction.
const MaxMessageSize = 1 << 20

var (
	// ErrHostCommunication marks failures delivering a message between the
	// host and this process.
	ErrHostCommunication = errors.New("host communication error")
	// ErrFrameTooLarge is returned for frames over MaxMessageSize. The
	// payload has been discarded, so the stream is still usable.
	ErrFrameTooLarge = errors.New("frame exceeds maximum message size")
)

// ReadMessage reads one length-prefixed frame: a uint32 little-endian byte
// count followed by that many bytes of JSON. A clean end of stream before
// the header returns io.EOF.
func ReadMessage(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: reading frame header: %w", ErrHostCommunication, err)
	}

	size := binary.LittleEndian.Uint32(hdr[:])
	if size > MaxMessageSize {
		if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
			return nil, fmt.Errorf("%w: discarding oversized frame: %w", ErrHostCommunication, err)
		}
		return nil, fmt.Errorf("%w: %w (%d bytes)", ErrHostCommunication, ErrFrameTooLarge, size)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading %d byte frame: %w", ErrHostCommunication, size, err)
	}
	return buf, nil
}

// WriteMessage encodes v as JSON and writes it as one frame.
func WriteMessage(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encoding message: %w", ErrHostCommunication, err)
	}
	if len(payload) > MaxMessageSize {
		return fmt.Errorf("%w: %w (%d bytes)", ErrHostCommunication, ErrFrameTooLarge, len(payload))
	}

	frame := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("%w: writing frame: %w", ErrHostCommunication, err)
	}
	return nil
}
