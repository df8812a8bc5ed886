package cronx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{name: "six fields with seconds", spec: "0 30 4 * * *"},
		{name: "step expression", spec: "0 */15 * * * *"},
		{name: "descriptor daily", spec: "@daily"},
		{name: "descriptor every", spec: "@every 6h"},
		{name: "five fields rejected", spec: "30 4 * * *", wantErr: true},
		{name: "garbage rejected", spec: "now and then", wantErr: true},
		{name: "empty rejected", spec: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
