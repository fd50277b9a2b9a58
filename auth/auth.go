// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/resolveja/community/models"
)

var ErrInvalidModKey = errors.New("invalid moderator key")

// ResolveVoterIdentity returns the deduplication identity for a voter.
// An authenticated account ID is the identity as-is; anonymous visitors
// get a deterministic fingerprint of their client signals.
func ResolveVoterIdentity(accountID string, sig models.ClientSignals) string {
	if accountID != "" {
		return accountID
	}
	return Fingerprint(sig)
}

// Fingerprint derives an anonymous voter identity from client signals
// using a djb2-style rolling hash over the fixed signal tuple. It is a
// best-effort dedup key, not an authentication mechanism: shared devices
// collide and any changed signal produces a new identity.
func Fingerprint(sig models.ClientSignals) string {
	tuple := strings.Join([]string{
		sig.UserAgent,
		sig.Locale,
		strconv.Itoa(sig.ScreenWidth),
		strconv.Itoa(sig.ScreenHeight),
		strconv.Itoa(sig.TimezoneOffset),
	}, "|")

	var h uint64 = 5381
	for i := 0; i < len(tuple); i++ {
		h = h*33 + uint64(tuple[i])
	}

	return fmt.Sprintf("anon-%016x", h)
}

// GenerateModeratorKey creates an HMAC-based moderator key for an account.
// Deterministic and verifiable, so keys are issued out-of-band and never
// stored in the database.
func GenerateModeratorKey(accountID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(accountID))
	sum := h.Sum(nil)
	// URL-safe base64 without padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateModeratorKey checks that the provided key is valid for the account.
func ValidateModeratorKey(accountID, modKey, salt string) error {
	if accountID == "" || modKey == "" {
		return ErrInvalidModKey
	}
	expected := GenerateModeratorKey(accountID, salt)
	if !hmac.Equal([]byte(modKey), []byte(expected)) {
		return ErrInvalidModKey
	}
	return nil
}

// Slugify derives a URL-safe slug from a title: lowercase, diacritics
// stripped, non-alphanumeric runs collapsed to a single hyphen, leading
// and trailing hyphens trimmed.
func Slugify(title string) string {
	// Decompose and drop combining marks so "não" becomes "nao"
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	flat, _, err := transform.String(stripMarks, strings.ToLower(title))
	if err != nil {
		flat = strings.ToLower(title)
	}

	var b strings.Builder
	lastHyphen := true // suppresses a leading hyphen
	for _, r := range flat {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
