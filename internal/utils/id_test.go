package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentID_CarriesPaymentTime(t *testing.T) {
	at := time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

	id := NewPaymentID(at)
	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.True(t, at.Equal(ulid.Time(parsed.Time())))

	later := NewPaymentID(at.Add(time.Second))
	assert.Less(t, id, later, "payment IDs sort by payment time")
}

func TestNewExportAndSupplierIDs(t *testing.T) {
	a := NewExportID()
	b := NewExportID()

	_, err := ulid.Parse(a)
	require.NoError(t, err)
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)

	_, err = ulid.Parse(NewSupplierID())
	assert.NoError(t, err)
}

func TestSupplierBusinessKey(t *testing.T) {
	k1 := SupplierBusinessKey("TechGlobal", "Electronics")
	k2 := SupplierBusinessKey(" TECHGLOBAL ", "electronics")
	assert.Equal(t, k1, k2)
	assert.True(t, strings.HasPrefix(k1, SupplierKeyVersion+"_"))

	assert.NotEqual(t, k1, SupplierBusinessKey("TechGlobal", "Furniture"))
	// Fields are not interchangeable.
	assert.NotEqual(t, SupplierBusinessKey("a", "b"), SupplierBusinessKey("b", "a"))
}
