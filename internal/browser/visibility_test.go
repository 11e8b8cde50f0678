package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextHiddenJS_QuotesText(t *testing.T) {
	t.Parallel()
	js := textHiddenJS(`Say "hi"`)
	assert.True(t, strings.HasPrefix(js, "(() => {"))
	assert.True(t, strings.HasSuffix(js, "})()"))
	assert.Contains(t, js, `"Say \"hi\""`)
}

func TestTextHiddenFunc_IsArrowFunction(t *testing.T) {
	t.Parallel()
	fn := textHiddenFunc("Loading...")
	assert.True(t, strings.HasPrefix(fn, "() => {"))
	assert.Contains(t, fn, `"Loading..."`)
	assert.Contains(t, fn, "getComputedStyle")
}
