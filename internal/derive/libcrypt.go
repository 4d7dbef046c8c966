package derive

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"discsub/internal/services"
	"discsub/internal/submission"
	"discsub/internal/textutil"
)

const (
	subSectorSize = 96
	qOffset       = 12
	qSize         = 12
	pregapFrames  = 150
)

// SubchannelLibCryptDetector reads the deinterleaved .sub file that
// DiscImageCreator writes beside a dump and reports sectors whose Q channel
// CRC was deliberately broken, which is how LibCrypt marks a disc.
type SubchannelLibCryptDetector struct {
	// Path is the .sub file. When empty it is <dir>/<name>.sub next to the
	// dump record carried in the context.
	Path string
}

func (d SubchannelLibCryptDetector) DetectLibCrypt(ctx context.Context, _ *submission.Record) (submission.YesNo, string, error) {
	path := strings.TrimSpace(d.Path)
	if path == "" {
		source, ok := services.SourcePathFromContext(ctx)
		if !ok {
			return submission.YesNoUnset, "", errors.New("no dump path to locate the subchannel file")
		}
		path = SubchannelPath(source)
	}
	f, err := os.Open(path)
	if err != nil {
		return submission.YesNoUnset, "", fmt.Errorf("open subchannel file: %w", err)
	}
	defer f.Close()

	sectors, err := ScanSubchannel(ctx, f)
	if err != nil {
		return submission.YesNoUnset, "", fmt.Errorf("scan %s: %w", path, err)
	}
	if len(sectors) == 0 {
		return submission.No, "", nil
	}
	lines := make([]string, len(sectors))
	for i, s := range sectors {
		lines[i] = s.String()
	}
	return submission.Yes, strings.Join(lines, "\n"), nil
}

// SubchannelPath returns the .sub file dumped beside the record at source.
func SubchannelPath(source string) string {
	return filepath.Join(filepath.Dir(source), textutil.TrimRecordSuffix(source)+".sub")
}

// ModifiedSector is a sector whose Q channel fails its CRC.
type ModifiedSector struct {
	LBA int
	Q   [qSize]byte
}

func (s ModifiedSector) String() string {
	frames := s.LBA + pregapFrames
	return fmt.Sprintf("MSF: %02d:%02d:%02d Q-Data: % X", frames/4500, frames/75%60, frames%75, s.Q[:])
}

// ScanSubchannel walks r one 96-byte sector at a time. Sectors whose Q
// channel is all zero were unreadable and are not counted; a trailing
// partial sector is ignored.
func ScanSubchannel(ctx context.Context, r io.Reader) ([]ModifiedSector, error) {
	br := bufio.NewReaderSize(r, 64*subSectorSize)
	sector := make([]byte, subSectorSize)
	var found []ModifiedSector
	for lba := 0; ; lba++ {
		if lba%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if _, err := io.ReadFull(br, sector); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return found, nil
			}
			return nil, err
		}
		q := sector[qOffset : qOffset+qSize]
		if isZero(q) || qCRCValid(q) {
			continue
		}
		s := ModifiedSector{LBA: lba}
		copy(s.Q[:], q)
		found = append(found, s)
	}
}

// qCRCValid checks the CRC-16/CCITT stored inverted in the last two Q bytes.
func qCRCValid(q []byte) bool {
	var crc uint16
	for _, b := range q[:10] {
		crc ^= uint16(b) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return ^crc == uint16(q[10])<<8|uint16(q[11])
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
