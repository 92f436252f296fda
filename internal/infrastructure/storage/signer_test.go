package storage

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLValidates(t *testing.T) {
	signer := NewURLSigner("http://localhost:8080/media", "secret", 60)
	now := time.Now().UTC()

	signed := signer.Sign("audio/trk_abc.mp3", now)

	parsed, err := url.Parse(signed)
	require.NoError(t, err)
	expires, err := strconv.ParseInt(parsed.Query().Get("expires"), 10, 64)
	require.NoError(t, err)
	sig := parsed.Query().Get("sig")

	assert.True(t, strings.HasPrefix(signed, "http://localhost:8080/media/audio/trk_abc.mp3?"))
	assert.NoError(t, signer.Validate("audio/trk_abc.mp3", expires, sig, now))
}

func TestSignedURLExpires(t *testing.T) {
	signer := NewURLSigner("http://localhost:8080/media", "secret", 60)
	now := time.Now().UTC()

	signed := signer.Sign("audio/trk_abc.mp3", now)
	parsed, _ := url.Parse(signed)
	expires, _ := strconv.ParseInt(parsed.Query().Get("expires"), 10, 64)
	sig := parsed.Query().Get("sig")

	late := now.Add(61 * time.Minute)
	assert.Error(t, signer.Validate("audio/trk_abc.mp3", expires, sig, late))
}

func TestSignatureBindsKey(t *testing.T) {
	signer := NewURLSigner("http://localhost:8080/media", "secret", 60)
	now := time.Now().UTC()

	signed := signer.Sign("audio/trk_abc.mp3", now)
	parsed, _ := url.Parse(signed)
	expires, _ := strconv.ParseInt(parsed.Query().Get("expires"), 10, 64)
	sig := parsed.Query().Get("sig")

	// Same signature must not validate a different object.
	assert.Error(t, signer.Validate("audio/trk_other.mp3", expires, sig, now))
}

func TestDifferentSecretsReject(t *testing.T) {
	a := NewURLSigner("http://localhost:8080/media", "secret-a", 60)
	b := NewURLSigner("http://localhost:8080/media", "secret-b", 60)
	now := time.Now().UTC()

	signed := a.Sign("audio/trk_abc.mp3", now)
	parsed, _ := url.Parse(signed)
	expires, _ := strconv.ParseInt(parsed.Query().Get("expires"), 10, 64)
	sig := parsed.Query().Get("sig")

	assert.Error(t, b.Validate("audio/trk_abc.mp3", expires, sig, now))
}
