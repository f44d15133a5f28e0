package headlessterm

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxRawKittyDimension is the cap on raw (non-PNG) `s`/`v` pixel dimensions.
// A request exceeding this in either axis is rejected before any allocation
// or decode is attempted.
const maxRawKittyDimension = 10000

// tempFileNamePrefix is the only temp-file basename family t=t will load.
const tempFileNamePrefix = "tty-graphics-protocol"

// resolveTransmissionPayload turns cmd.Payload into the actual image bytes
// to decode, following the security rules for each transmission medium.
// For t=d the payload already IS the image data and is returned unchanged;
// for t=f/t/s the payload is the base64-decoded path (or shm name) and this
// reads the referenced file, applying the medium-specific checks.
func resolveTransmissionPayload(cmd *KittyCommand) ([]byte, error) {
	if cmd.Width > maxRawKittyDimension || cmd.Height > maxRawKittyDimension {
		return nil, fmt.Errorf("raw dimensions exceed %d pixel cap", maxRawKittyDimension)
	}

	switch cmd.Transmission {
	case KittyTransmitDirect:
		return cmd.Payload, nil
	case KittyTransmitTempFile:
		return readTempFilePayload(string(cmd.Payload), cmd.Offset, cmd.Size)
	case KittyTransmitFile:
		return readRegularFilePayload(string(cmd.Payload), cmd.Offset, cmd.Size)
	case KittyTransmitSharedMem:
		return readSharedMemPayload(string(cmd.Payload), cmd.Offset, cmd.Size)
	default:
		return nil, fmt.Errorf("unsupported transmission medium %q", cmd.Transmission)
	}
}

// readTempFilePayload implements t=t: the file is only loaded if its
// resolved real path's last component matches tty-graphics-protocol*. The
// file is deleted after a successful read; a rejected file is left in place.
func readTempFilePayload(path string, offset, size uint32) ([]byte, error) {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fmt.Errorf("temp file path invalid: %w", err)
	}
	if !strings.HasPrefix(filepath.Base(real), tempFileNamePrefix) {
		return nil, fmt.Errorf("temp file name %q does not match %s*", filepath.Base(real), tempFileNamePrefix)
	}

	data, err := readBounded(real, offset, size)
	if err != nil {
		return nil, err
	}
	os.Remove(real)
	return data, nil
}

// readRegularFilePayload implements t=f: paths with embedded NUL bytes are
// rejected outright, and the resolved real path must not land inside /dev
// (directly or via a symlink), which would let a client read device nodes.
func readRegularFilePayload(path string, offset, size uint32) ([]byte, error) {
	if strings.IndexByte(path, 0) >= 0 {
		return nil, fmt.Errorf("file path contains NUL byte")
	}

	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fmt.Errorf("file path invalid: %w", err)
	}
	if isUnderDev(real) {
		return nil, fmt.Errorf("file path resolves inside /dev")
	}

	return readBounded(real, offset, size)
}

func isUnderDev(real string) bool {
	clean := filepath.Clean(real)
	return clean == "/dev" || strings.HasPrefix(clean, "/dev/")
}

// readSharedMemPayload implements t=s: the segment is opened read-only and
// unlinked immediately regardless of outcome, matching POSIX shm semantics
// where the name is a /dev/shm path on Linux. A request whose O+S exceeds
// the mapped (file) size is rejected.
func readSharedMemPayload(name string, offset, size uint32) ([]byte, error) {
	path := shmPath(name)
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("shared memory segment %q not found: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	mappedSize := uint64(info.Size())
	if uint64(offset)+uint64(size) > mappedSize {
		return nil, fmt.Errorf("shared memory read out of bounds: O+S=%d exceeds mapped size %d", uint64(offset)+uint64(size), mappedSize)
	}

	return readBoundedFile(f, offset, size)
}

func shmPath(name string) string {
	name = strings.TrimPrefix(name, "/")
	return filepath.Join("/dev/shm", name)
}

// readBounded opens path and reads the region [offset, offset+size) if size
// is nonzero, otherwise the whole file.
func readBounded(path string, offset, size uint32) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readBoundedFile(f, offset, size)
}

func readBoundedFile(f *os.File, offset, size uint32) ([]byte, error) {
	if offset > 0 {
		if _, err := f.Seek(int64(offset), io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek to offset %d: %w", offset, err)
		}
	}
	if size == 0 {
		return io.ReadAll(f)
	}

	buf := make([]byte, size)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read %d bytes at offset %d: %w", size, offset, err)
	}
	return buf[:n], nil
}
