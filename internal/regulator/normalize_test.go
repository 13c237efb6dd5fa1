package regulator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shorecast/shorecast/internal/regulator"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Imperial Beach", "imperial"},
		{"IMPERIAL  BEACH", "imperial"},
		{"Beach at Coronado", "at coronado"},
		{"La Jolla Shores", "la jolla shores"},
		{"Silver Strand (South)", "silver strand south"},
		{"Tourmaline Surf-Park", "tourmaline surf park"},
		{"Ocean Beach, Dog Beach", "ocean beach dog"},
		{"Beach", "beach"}, // a lone token survives
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, regulator.NormalizeName(tt.in))
		})
	}
}

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		a, b    string
		matches bool
	}{
		{"Imperial Beach", "imperial", true},
		{"Imperial Beach", "IMPERIAL BEACH.", true},
		{"Imperial Beach Pier", "Imperial Beach", true}, // containment
		{"Coronado Beach", "Coronado", true},
		{"Silver Strand", "Silver Strand South", true},
		{"Mission Beach", "Ocean Beach", false},
		{"", "Imperial Beach", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.matches, regulator.NamesMatch(tt.a, tt.b),
			"%q vs %q", tt.a, tt.b)
	}
}

func TestSewageReason(t *testing.T) {
	assert.True(t, regulator.SewageReason("Tijuana River transboundary flows"))
	assert.True(t, regulator.SewageReason("SEWAGE contamination"))
	assert.True(t, regulator.SewageReason("wastewater spill upstream"))
	assert.False(t, regulator.SewageReason("bacteria levels exceed health standards"))
	assert.False(t, regulator.SewageReason(""))
}
