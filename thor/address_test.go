// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ff", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffzz", true},
	}
	for _, tt := range tests {
		_, err := ParseAddress(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
		} else {
			assert.NoError(t, err, tt.in)
		}
	}
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("alice"))

	data, err := json.Marshal(&addr)
	assert.NoError(t, err)

	var decoded Address
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
	assert.False(t, decoded.IsZero())
	assert.True(t, Address{}.IsZero())
}

func TestAddressText(t *testing.T) {
	addr := MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	text, err := addr.MarshalText()
	assert.NoError(t, err)

	var decoded Address
	assert.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, addr, decoded)
	assert.Error(t, decoded.UnmarshalText([]byte("0x12")))
}
