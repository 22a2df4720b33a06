package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRC(t *testing.T) {
	t.Parallel()
	tests := []struct {
		version string
		want    bool
	}{
		{"v0.3.0", false},
		{"v0.3.0-xx", false},
		{"v0.3.0-rc1", true},
		{"v1.3.0-rc2", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRC(tt.version), tt.version)
	}
}

func TestIsDev(t *testing.T) {
	t.Parallel()
	tests := []struct {
		version string
		want    bool
	}{
		{"v0.0.0", true},
		{"v0.0.0-cf34bt", true},
		{"v0.3.0-rc1", false},
		{"v0.3.0", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDev(tt.version), tt.version)
	}
}
