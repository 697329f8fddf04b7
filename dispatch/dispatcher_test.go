package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capwire-dev/capwire/capability"
	"github.com/capwire-dev/capwire/dispatch"
	"github.com/capwire-dev/capwire/registry"
)

func Test_Dispatcher_RoutesToProvider(t *testing.T) {
	reg := registry.NewRegistry()
	area := capability.MustNewTag("geometry/area")

	var gotInput any
	require.NoError(t, reg.Register(area, capability.ProviderFunc(func(ctx context.Context, input any) (any, error) {
		gotInput = input
		dims := input.(map[string]float64)
		return dims["width"] * dims["height"], nil
	})))

	d := dispatch.NewDispatcher(reg)
	out, err := d.Dispatch(context.Background(), area, map[string]float64{"width": 3, "height": 4})

	require.NoError(t, err)
	assert.Equal(t, 12.0, out)
	assert.Equal(t, map[string]float64{"width": 3, "height": 4}, gotInput)
}

func Test_Dispatcher_UnknownCapability(t *testing.T) {
	d := dispatch.NewDispatcher(registry.NewRegistry())
	missing := capability.MustNewTag("geometry/volume")

	_, err := d.Dispatch(context.Background(), missing, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, capability.ErrUnknownCapability))

	var unknown *capability.UnknownCapabilityError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "geometry/volume", unknown.Tag.String())
}

func Test_Dispatcher_ProviderFailure(t *testing.T) {
	reg := registry.NewRegistry()
	mean := capability.MustNewTag("stats/mean")
	cause := errors.New("empty sample")

	require.NoError(t, reg.Register(mean, capability.ProviderFunc(func(ctx context.Context, input any) (any, error) {
		values := input.([]float64)
		if len(values) == 0 {
			return nil, cause
		}
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), nil
	})))

	d := dispatch.NewDispatcher(reg)

	_, err := d.Dispatch(context.Background(), mean, []float64{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, capability.ErrProviderFailure))
	assert.True(t, errors.Is(err, cause), "original cause must be preserved")

	var failure *capability.ProviderFailureError
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "stats/mean", failure.Tag.String())

	// A failed dispatch leaves the binding intact: a corrected input succeeds.
	out, err := d.Dispatch(context.Background(), mean, []float64{2, 4})
	require.NoError(t, err)
	assert.Equal(t, 3.0, out)
}

func Test_Dispatcher_MiddlewareOrder(t *testing.T) {
	reg := registry.NewRegistry()
	tag := capability.MustNewTag("noop")
	require.NoError(t, reg.Register(tag, capability.ProviderFunc(func(ctx context.Context, input any) (any, error) {
		return nil, nil
	})))

	var trace []string
	record := func(name string) dispatch.Middleware {
		return func(next dispatch.Handler) dispatch.Handler {
			return func(ctx context.Context, tag capability.Tag, input any) (any, error) {
				trace = append(trace, name+":before")
				out, err := next(ctx, tag, input)
				trace = append(trace, name+":after")
				return out, err
			}
		}
	}

	d := dispatch.NewDispatcher(reg, dispatch.WithMiddleware(record("outer"), record("inner")))
	_, err := d.Dispatch(context.Background(), tag, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, trace)
}

func Test_Dispatcher_AssignsInvocationID(t *testing.T) {
	reg := registry.NewRegistry()
	tag := capability.MustNewTag("noop")

	var seen []string
	require.NoError(t, reg.Register(tag, capability.ProviderFunc(func(ctx context.Context, input any) (any, error) {
		id, ok := dispatch.InvocationIDFromContext(ctx)
		require.True(t, ok)
		seen = append(seen, id)
		return nil, nil
	})))

	d := dispatch.NewDispatcher(reg)

	_, err := d.Dispatch(context.Background(), tag, nil)
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), tag, nil)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.NotEqual(t, seen[0], seen[1], "each dispatch gets its own ID")

	// A caller-provided ID is propagated unchanged.
	ctx := dispatch.WithInvocationID(context.Background(), "trace-123")
	_, err = d.Dispatch(ctx, tag, nil)
	require.NoError(t, err)
	assert.Equal(t, "trace-123", seen[2])
}

func Test_Dispatcher_OutputPassthrough(t *testing.T) {
	reg := registry.NewRegistry()
	upper := capability.MustNewTag("text/upper")
	require.NoError(t, reg.Register(upper, capability.ProviderFunc(func(ctx context.Context, input any) (any, error) {
		return strings.ToUpper(input.(string)), nil
	})))

	d := dispatch.NewDispatcher(reg)
	out, err := d.Dispatch(context.Background(), upper, "hello")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", out)
}

func BenchmarkDispatch(b *testing.B) {
	reg := registry.NewRegistry()
	tag := capability.MustNewTag("noop")
	if err := reg.Register(tag, capability.ProviderFunc(func(ctx context.Context, input any) (any, error) {
		return input, nil
	})); err != nil {
		b.Fatal(err)
	}

	d := dispatch.NewDispatcher(reg)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.Dispatch(ctx, tag, i); err != nil {
			b.Fatal(err)
		}
	}
}

func Example() {
	reg := registry.NewRegistry()
	area := capability.MustNewTag("geometry/area")
	_ = reg.Register(area, capability.ProviderFunc(func(ctx context.Context, input any) (any, error) {
		dims := input.(map[string]float64)
		return dims["width"] * dims["height"], nil
	}))

	d := dispatch.NewDispatcher(reg)
	out, _ := d.Dispatch(context.Background(), area, map[string]float64{"width": 2, "height": 5})
	fmt.Println(out)
	// Output: 10
}
