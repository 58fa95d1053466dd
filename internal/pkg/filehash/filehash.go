package filehash

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/MirrorChyan/fetch-paper/internal/pkg/bufpool"
	sha256 "github.com/minio/sha256-simd"
)

// SidecarSuffix is appended to an artifact path to name its checksum file.
const SidecarSuffix = ".sha256"

// Sum returns the lowercase hex SHA-256 digest of everything read from r.
func Sum(r io.Reader) (string, int64, error) {
	buf := bufpool.GetBuffer()
	defer bufpool.PutBuffer(buf)

	hasher := sha256.New()
	n, err := io.CopyBuffer(hasher, r, *buf)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(hasher.Sum(nil)), n, nil
}

// SidecarPath returns the checksum file path for an artifact.
func SidecarPath(filePath string) string {
	return filePath + SidecarSuffix
}

// WriteSidecar stores digest next to the artifact as <path>.sha256.
func WriteSidecar(filePath, digest string) (string, error) {
	p := SidecarPath(filePath)
	if err := os.WriteFile(p, []byte(digest), 0644); err != nil {
		return "", err
	}
	return p, nil
}
