package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArenaAddGetSet(t *testing.T) {
	a := New[string]()
	r0 := a.Add("zero")
	r1 := a.Add("one")

	assert.Equal(t, "zero", a.Get(r0))
	assert.Equal(t, "one", a.Get(r1))
	assert.Equal(t, 2, a.Len())

	a.Set(r0, "updated")
	assert.Equal(t, "updated", a.Get(r0))
	assert.Equal(t, []string{"updated", "one"}, a.All())
}
