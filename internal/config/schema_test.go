package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchema_Valid(t *testing.T) {
	data := []byte(`docs_dir: docs
program: firmware
pick: first
strict: false
watch:
  debounce: 750ms
`)
	errs, err := ValidateSchema(data)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateSchema_Empty(t *testing.T) {
	errs, err := ValidateSchema(nil)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateSchema_Violations(t *testing.T) {
	data := []byte(`docs_dir: ""
pick: newest
unknown: 1
`)
	errs, err := ValidateSchema(data)
	require.NoError(t, err)
	require.Len(t, errs, 3)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "docs_dir")
	assert.Contains(t, fields, "pick")
	assert.Contains(t, fields, "(root)")
}

func TestValidateSchema_BadDebounce(t *testing.T) {
	errs, err := ValidateSchema([]byte("watch:\n  debounce: soon\n"))
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "watch.debounce", errs[0].Field)
}

func TestValidateSchema_Unparseable(t *testing.T) {
	_, err := ValidateSchema([]byte("docs_dir: ["))
	require.Error(t, err)
}
