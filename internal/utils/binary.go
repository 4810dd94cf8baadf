package utils

import (
	"io"
)

const (
	// SniffLength is the maximum number of bytes sampled when detecting binary content.
	SniffLength = 4096
	// MaxSampledFileSize is the largest unknown-type file that is sampled at all;
	// anything bigger is treated as binary.
	MaxSampledFileSize = 1024 * 1024

	maxNullBytes     = 3
	minimumTextRatio = 0.8
)

// IsBinary reports whether the first SniffLength bytes of data appear to be binary.
// More than three NUL bytes settle the question immediately; otherwise the sample is
// binary when fewer than 80% of its bytes are printable ASCII, tab, LF or CR.
// An empty sample is text.
func IsBinary(data []byte) bool {
	sample := data
	if len(sample) > SniffLength {
		sample = sample[:SniffLength]
	}
	if len(sample) == 0 {
		return false
	}
	textBytes := 0
	nullBytes := 0
	for _, byteValue := range sample {
		if byteValue == 0 {
			nullBytes++
			if nullBytes > maxNullBytes {
				return true
			}
		}
		if isTextLike(byteValue) {
			textBytes++
		}
	}
	return float64(textBytes)/float64(len(sample)) < minimumTextRatio
}

// IsReaderBinary samples up to SniffLength bytes from reader.
func IsReaderBinary(reader io.Reader) (bool, error) {
	buffer := make([]byte, SniffLength)
	bytesRead, readError := io.ReadFull(reader, buffer)
	if readError != nil && readError != io.EOF && readError != io.ErrUnexpectedEOF {
		return false, readError
	}
	return IsBinary(buffer[:bytesRead]), nil
}

func isTextLike(byteValue byte) bool {
	return (byteValue >= 32 && byteValue <= 126) || byteValue == '\t' || byteValue == '\n' || byteValue == '\r'
}
