package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"cart", KeyCart},
		{"orders", KeyOrders},
		{"session:abc:cart", KeyCart},
		{"session:abc:orders", KeyOrders},
		{"session:abc:", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseKey(tt.key))
		})
	}
}
