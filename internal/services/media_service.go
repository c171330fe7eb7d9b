package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMediaNotFound   = errors.New("media object not found")
	ErrBadMediaSig     = errors.New("media URL signature invalid")
	ErrMediaURLExpired = errors.New("media URL expired")
)

// MediaService exchanges opaque storage keys for time-limited display URLs.
// URLs are HMAC-signed so the file route can verify them without state.
type MediaService struct {
	Dir        string
	SigningKey []byte
	TTL        time.Duration

	// now is swappable in tests.
	now func() time.Time
}

func NewMediaService(dir, signingKey string, ttl time.Duration) *MediaService {
	return &MediaService{Dir: dir, SigningKey: []byte(signingKey), TTL: ttl, now: time.Now}
}

func (s *MediaService) sign(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.SigningKey)
	fmt.Fprintf(mac, "%s|%d", key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

// PresignedURL verifies the key exists under the media dir and returns a
// signed relative URL served by the /media/* route. A missing object is
// ErrMediaNotFound, distinct from signing or transport failures.
func (s *MediaService) PresignedURL(key string) (string, error) {
	full := filepath.Join(s.Dir, filepath.FromSlash(key))
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrMediaNotFound, key)
	}
	exp := s.now().Add(s.TTL).Unix()
	return fmt.Sprintf("/media/%s?exp=%d&sig=%s",
		escapePath(key), exp, s.sign(key, exp)), nil
}

// escapePath escapes each path segment while keeping the separators, so keys
// with spaces survive as URLs without collapsing the key structure.
func escapePath(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// Verify checks the expiry and signature carried by a media URL.
func (s *MediaService) Verify(key, expStr, sig string) error {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return ErrBadMediaSig
	}
	want := s.sign(key, exp)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrBadMediaSig
	}
	if s.now().Unix() > exp {
		return ErrMediaURLExpired
	}
	return nil
}

// FilePath resolves a verified key to its on-disk location.
func (s *MediaService) FilePath(key string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(key))
}
