package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b    string
		wantCmp int
		wantOK  bool
	}{
		{"v1.0.0", "v1.0.0", 0, true},
		{"v1.0.1", "v1.0.0", 1, true},
		{"v1.0.0", "v1.0.1", -1, true},
		{"v2.0.0", "v1.9.9", 1, true},
		{"v1.0.0", "v1.0.0-beta.1", 1, true}, // release > prerelease
		{"v1.0.0-beta.2", "v1.0.0-beta.1", 1, true},
		{"1.0.0", "v1.0.0", 0, true}, // v prefix optional
		{"dev", "v1.0.0", 0, false},
		{"v1.0.0", "not-a-version", 0, false},
		{"", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			cmp, ok := Compare(tt.a, tt.b)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantCmp, cmp)
			}
		})
	}
}

func TestIsRegression(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		current   string
		want      bool
	}{
		{"older patch", "v1.0.0", "v1.0.1", true},
		{"newer patch", "v1.0.1", "v1.0.0", false},
		{"same version", "v1.0.0", "v1.0.0", false},
		{"prerelease of same release", "v1.0.0-beta.1", "v1.0.0", true},
		{"candidate unparseable", "a-custom-release-tag", "v1.0.0", false},
		{"current unparseable", "v1.0.0", "a-custom-release-tag", false},
		{"both unparseable", "latest", "stable", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRegression(tt.candidate, tt.current))
		})
	}
}
