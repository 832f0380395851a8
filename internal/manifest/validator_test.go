package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValid(t *testing.T) {
	tests := []string{
		`{"name": "lib"}`,
		`{"name": "@scope/lib", "version": "1.0.0", "dependencies": {"react": "^16.0.0"}}`,
		`{"name": "lib", "peerDependencies": {"react-native": "*"}, "devDependencies": {}}`,
	}

	for _, data := range tests {
		t.Run(data, func(t *testing.T) {
			result, err := Validate([]byte(data))
			require.NoError(t, err)
			assert.True(t, result.Valid, "issues: %v", result.Issues)
		})
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		desc     string
		data     string
		wantPath string
	}{
		{"missing name", `{"version": "1.0.0"}`, ""},
		{"uppercase name", `{"name": "MyLib"}`, "/name"},
		{"numeric constraint", `{"name": "lib", "dependencies": {"react": 16}}`, "/dependencies/react"},
		{"peer map is array", `{"name": "lib", "peerDependencies": ["react"]}`, "/peerDependencies"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			result, err := Validate([]byte(tt.data))
			require.NoError(t, err)
			require.False(t, result.Valid)
			require.NotEmpty(t, result.Issues)

			paths := make([]string, 0, len(result.Issues))
			for _, issue := range result.Issues {
				assert.NotEmpty(t, issue.Message)
				paths = append(paths, issue.Path)
			}
			assert.Contains(t, paths, tt.wantPath)
		})
	}
}

func TestValidateNotJSON(t *testing.T) {
	_, err := Validate([]byte(`{`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestValidateFile(t *testing.T) {
	r := mapReader{"/app/package.json": `{"name": "app"}`}

	result, err := ValidateFile(r, "/app/package.json")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	_, err = ValidateFile(r, "/nope/package.json")
	assert.Error(t, err)
}

func TestSchemaCompiles(t *testing.T) {
	schema, err := getSchema()
	require.NoError(t, err)
	assert.NotNil(t, schema)
}
