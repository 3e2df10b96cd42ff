package loader_test

import (
	"strings"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/bundl/internal/engine/loader"
)

// stubDocument records the elements a script creates and appends to document.head.
const stubDocument = `
var appended = [];
var document = {
	createElement: function (tag) { return { tagName: tag, textContent: "" }; },
	head: { appendChild: function (el) { appended.push(el); return el; } },
};
`

func runStyleModule(t *testing.T, css string) (int64, string, string) {
	t.Helper()
	vm := goja.New()
	_, err := vm.RunString(stubDocument)
	require.NoError(t, err)

	_, err = vm.RunString(loader.StyleModule(css))
	require.NoError(t, err)

	v, err := vm.RunString(`[appended.length, appended[0].tagName, appended[0].textContent]`)
	require.NoError(t, err)
	got := v.Export().([]any)
	return got[0].(int64), got[1].(string), got[2].(string)
}

func TestStyleModule_AppendsOneStyleElement(t *testing.T) {
	tests := []struct {
		name string
		css  string
	}{
		{"plain", "body{color:red}"},
		{"quotes", `a::after{content:"x"}b{font:'y'}`},
		{"backslashes", `a::after{content:"\201C"}`},
		{"crlf", "a{color:red}\r\nb{color:blue}\n"},
		{"mixed", "a::after{content:\"\\201C\"}\r\nb{font:'x'}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, tag, text := runStyleModule(t, tt.css)

			assert.Equal(t, int64(1), count)
			assert.Equal(t, "style", tag)
			want := strings.NewReplacer("\r", "", "\n", "").Replace(tt.css)
			assert.Equal(t, want, text)
		})
	}
}
