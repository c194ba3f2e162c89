package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVenueAddress(t *testing.T) {
	v := &Venue{AddressLine1: "1 High St", City: "Leeds", Country: "UK"}
	assert.Equal(t, "1 High St, Leeds, UK", v.Address())

	v = &Venue{City: "Leeds"}
	assert.Equal(t, "Leeds", v.Address())

	v = &Venue{AddressLine1: "1 High St", Country: "UK"}
	assert.Equal(t, "1 High St, UK", v.Address())

	assert.Empty(t, (&Venue{}).Address())
}
