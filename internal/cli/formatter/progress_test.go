package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name        string
		done, total int
		width       int
		want        string
	}{
		{"empty", 0, 10, 10, "0/10"},
		{"partial", 4, 10, 10, "4/10"},
		{"complete", 10, 10, 10, "10/10"},
		{"clamps over", 12, 10, 10, "10/10"},
		{"clamps under", -1, 10, 10, "0/10"},
		{"no fields", 0, 0, 10, "0/0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderProgress(tt.done, tt.total, tt.width)
			assert.Contains(t, got, tt.want)
			assert.Contains(t, got, "[")
		})
	}
}
