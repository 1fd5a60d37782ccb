package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAmount(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"499", true},
		{"499.5", true},
		{"499.00", true},
		{".75", true},
		{"999999.99", true},
		{"", false},
		{".", false},
		{"1.", false},
		{"1.234", false},
		{"-5", false},
		{"+5", false},
		{"1.+5", false},
		{"NaN", false},
		{"Inf", false},
		{"1e3", false},
		{"1000000", false},
		{"100000000000000000", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidAmount(tt.in))
		})
	}
}

func TestValidDays(t *testing.T) {
	assert.True(t, ValidDays("30"))
	assert.False(t, ValidDays("0"))
	assert.False(t, ValidDays("-30"))
	assert.False(t, ValidDays("+30"))
	assert.False(t, ValidDays("30.5"))
	assert.False(t, ValidDays(""))
}
