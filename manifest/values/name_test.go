package values

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewProviderName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "geometry", "geometry", false},
		{"trims whitespace", "  geometry  ", "geometry", false},
		{"hyphenated", "shape-tools", "shape-tools", false},
		{"ends with digit", "geometry2", "geometry2", false},
		{"single letter", "g", "g", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"path separator", "a/b", "", true},
		{"parent reference", "..", "", true},
		{"invalid char @", "geo@2", "", true},
		{"uppercase", "Geometry", "", true},
		{"leading digit", "2geometry", "", true},
		{"leading hyphen", "-geometry", "", true},
		{"trailing hyphen", "geometry-", "", true},
		{"too long", strings.Repeat("g", 64), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pn, err := NewProviderName(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, pn.String())
			}
		})
	}
}

func Test_MustNewProviderName_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNewProviderName("")
	})
}

func Test_ProviderName_JSON(t *testing.T) {
	original := MustNewProviderName("geometry")

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"geometry"`, string(data))

	var decoded ProviderName
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.True(t, original.Equals(decoded))
}
