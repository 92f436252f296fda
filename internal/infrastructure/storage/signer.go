package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// URLSigner mints time-limited playback URLs. The signature covers the key
// and the expiry so neither can be swapped after signing.
type URLSigner struct {
	baseURL string
	secret  []byte
	ttl     time.Duration
}

func NewURLSigner(baseURL, secret string, ttlMinutes int) *URLSigner {
	return &URLSigner{
		baseURL: baseURL,
		secret:  []byte(secret),
		ttl:     time.Duration(ttlMinutes) * time.Minute,
	}
}

// Sign returns a URL for the key that stops validating after the TTL.
func (s *URLSigner) Sign(key string, now time.Time) string {
	expires := now.Add(s.ttl).Unix()
	sig := s.signature(key, expires)

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", sig)
	return fmt.Sprintf("%s/%s?%s", s.baseURL, key, q.Encode())
}

// Validate checks the signature and expiry for a media request.
func (s *URLSigner) Validate(key string, expires int64, sig string, now time.Time) error {
	if now.Unix() > expires {
		return fmt.Errorf("signed URL has expired")
	}
	expected := s.signature(key, expires)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return fmt.Errorf("invalid URL signature")
	}
	return nil
}

func (s *URLSigner) signature(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", key, expires)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// ExpiresIn reports the signing TTL in seconds, for API responses.
func (s *URLSigner) ExpiresIn() int64 {
	return int64(s.ttl.Seconds())
}
