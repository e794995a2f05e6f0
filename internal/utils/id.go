package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// SupplierKeyVersion tags business keys built by SupplierBusinessKey. Bump it
// whenever the canonical form changes so old and new keys never collide.
const SupplierKeyVersion = "S1"

// NewPaymentID returns a ULID stamped with the time the payment took place,
// so payment IDs sort in the same order as the payment stream.
func NewPaymentID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String()
}

// NewExportID names one calendar export object. Repeated exports of the same
// year list chronologically under their prefix.
func NewExportID() string {
	return ulid.Make().String()
}

// NewSupplierID returns a fresh identifier for a supplier scorecard.
func NewSupplierID() string {
	return ulid.Make().String()
}

// SupplierBusinessKey derives the deduplication key of a supplier scorecard
// from its name and category. Case and surrounding whitespace are ignored.
func SupplierBusinessKey(name, category string) string {
	canonical := canonicalField(name) + "|" + canonicalField(category)
	hash := sha256.Sum256([]byte(canonical))
	return SupplierKeyVersion + "_" + base64.RawURLEncoding.EncodeToString(hash[:])
}

func canonicalField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
