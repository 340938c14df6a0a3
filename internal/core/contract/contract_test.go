package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertPasses(t *testing.T) {
	assert.NotPanics(t, func() { Assert(true, "never") })
}

func TestAssertCarriesLocation(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		v, ok := r.(*Violation)
		require.True(t, ok)
		assert.Equal(t, "contract_test.go", v.File)
		assert.Positive(t, v.Line)
		assert.Equal(t, "value 3 out of range", v.Message)
		assert.Contains(t, v.Error(), "contract_test.go")
	}()
	Assert(false, "value %d out of range", 3)
}

func TestFailf(t *testing.T) {
	defer func() {
		v, ok := recover().(*Violation)
		require.True(t, ok)
		assert.Equal(t, "boom: 7", v.Message)
	}()
	Failf("boom: %d", 7)
}
