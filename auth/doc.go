// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides voter identity resolution and moderator key utilities.

# Voter Identity

Vote deduplication keys come from ResolveVoterIdentity:

	identity := auth.ResolveVoterIdentity(accountID, signals)

An authenticated account ID is used verbatim. Anonymous visitors get a
deterministic fingerprint derived from client-observable signals
(user-agent, locale, screen dimensions, timezone offset) via a
non-cryptographic rolling hash:

	fp := auth.Fingerprint(signals)  // "anon-" + 16 hex chars

The fingerprint is a heuristic dedup key only. It collides across users
sharing a device profile and changes whenever any signal changes.

# Moderator Keys

Moderator keys use HMAC-SHA256 to create deterministic, verifiable keys:

	modKey := auth.GenerateModeratorKey(accountID, salt)
	err := auth.ValidateModeratorKey(accountID, modKey, salt)

The key is URL-safe base64 encoded without padding. Since it's
deterministic, the same account ID and salt always produce the same key.
This allows validation without storing the key in the database.

# Slugs

Slugify derives URL-safe article slugs from question titles:

	auth.Slugify("Wi-Fi não conecta!")  // "wi-fi-nao-conecta"

Diacritics are stripped via Unicode decomposition, and non-alphanumeric
runs collapse to single hyphens.
*/
package auth
