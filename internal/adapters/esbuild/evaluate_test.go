package esbuild_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bundl/internal/adapters/sandbox"
	"go.trai.ch/bundl/internal/core/domain"
)

const jsxRuntime = `export const Fragment = Symbol.for("react.fragment");
export function jsx(type, props, key) { return { type, props, key }; }
export const jsxs = jsx;
`

func compileAndRun(t *testing.T, reg *fakeRegistry, req domain.BuildRequest) any {
	t.Helper()
	bundle, err := build(t, reg, req)
	require.NoError(t, err)

	got, err := sandbox.New(5*time.Second, nil).Execute(context.Background(), bundle)
	require.NoError(t, err, "bundle:\n%s", bundle)
	return got
}

func TestEngine_EvaluatesByEntryLoader(t *testing.T) {
	runtimeModule := func() *fakeRegistry {
		return &fakeRegistry{modules: map[string]domain.LoadResult{
			registryRoot + "/react/jsx-runtime": {
				Loader:     domain.LoaderJSX,
				Contents:   jsxRuntime,
				ResolveDir: "/react@18.2.0",
			},
		}}
	}

	tests := []struct {
		name       string
		req        domain.BuildRequest
		want       any
		wantLoaded bool
	}{
		{
			name: "typescript",
			req:  domain.BuildRequest{RawCode: "let num: number = 1; num + 1;", EntryPoint: "index.ts"},
			want: int64(2),
		},
		{
			name:       "jsx element",
			req:        domain.BuildRequest{RawCode: "const element = <div>Hello World</div>; element.type;", EntryPoint: "index.jsx"},
			want:       "div",
			wantLoaded: true,
		},
		{
			name:       "tsx element",
			req:        domain.BuildRequest{RawCode: "const element: any = <span>{1 + 1}</span>; element.props.children;", EntryPoint: "index.tsx"},
			want:       int64(2),
			wantLoaded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := runtimeModule()
			assert.EqualValues(t, tt.want, compileAndRun(t, reg, tt.req))

			var loadedRuntime bool
			for _, id := range reg.loaded {
				if id.Path == registryRoot+"/react/jsx-runtime" {
					loadedRuntime = true
				}
			}
			assert.Equal(t, tt.wantLoaded, loadedRuntime)
		})
	}
}
