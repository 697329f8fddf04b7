package capwire_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	capwire "github.com/capwire-dev/capwire"
	"github.com/capwire-dev/capwire/capability"
	"github.com/capwire-dev/capwire/manifest"
	"github.com/capwire-dev/capwire/schema"
)

func areaProvider() capability.Provider {
	return capability.ProviderFunc(func(ctx context.Context, input any) (any, error) {
		dims := input.(map[string]any)
		return dims["width"].(float64) * dims["height"].(float64), nil
	})
}

func Test_Host_RegisterAndDispatch(t *testing.T) {
	host := capwire.NewHost()

	require.NoError(t, host.Register("geometry/area", areaProvider()))

	out, err := host.Dispatch(context.Background(), "geometry/area", map[string]any{"width": 3.0, "height": 4.0})
	require.NoError(t, err)
	assert.Equal(t, 12.0, out)
}

func Test_Host_Dispatch_UnknownTag(t *testing.T) {
	host := capwire.NewHost()

	_, err := host.Dispatch(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, capability.ErrUnknownCapability)

	_, err = host.Dispatch(context.Background(), "not a tag!", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, capability.ErrUnknownCapability)
}

func Test_Host_RegisterWithSchema(t *testing.T) {
	host := capwire.NewHost()

	require.NoError(t, host.RegisterWithSchema("geometry/area", map[string]any{
		"type":     "object",
		"required": []any{"width", "height"},
	}, areaProvider()))

	t.Run("valid payload dispatches", func(t *testing.T) {
		out, err := host.Dispatch(context.Background(), "geometry/area", map[string]any{"width": 2.0, "height": 5.0})
		require.NoError(t, err)
		assert.Equal(t, 10.0, out)
	})

	t.Run("invalid payload rejected before the provider", func(t *testing.T) {
		_, err := host.Dispatch(context.Background(), "geometry/area", map[string]any{"width": 2.0})
		assert.ErrorIs(t, err, schema.ErrInvalidInput)
	})
}

func Test_Host_RegisterWithSchema_FailureLeavesNoSchema(t *testing.T) {
	host := capwire.NewHost()

	// A nil provider is rejected after the schema went in; the schema must
	// not stay behind.
	err := host.RegisterWithSchema("geometry/area", map[string]any{"type": "object"}, nil)
	require.Error(t, err)

	_, ok := host.Schemas().Schema(capability.MustNewTag("geometry/area"))
	assert.False(t, ok)

	// The tag stays fully available.
	require.NoError(t, host.Register("geometry/area", areaProvider()))
}

func Test_Host_PanicRecoveryBuiltIn(t *testing.T) {
	host := capwire.NewHost()
	require.NoError(t, host.Register("panics", capability.ProviderFunc(func(ctx context.Context, input any) (any, error) {
		panic("boom")
	})))

	_, err := host.Dispatch(context.Background(), "panics", nil)
	assert.ErrorIs(t, err, capability.ErrProviderFailure)
}

func Test_Host_Unregister(t *testing.T) {
	host := capwire.NewHost()
	require.NoError(t, host.Register("area", areaProvider()))

	host.Unregister("area")
	_, err := host.Dispatch(context.Background(), "area", nil)
	assert.ErrorIs(t, err, capability.ErrUnknownCapability)

	// Malformed tags are ignored.
	host.Unregister("not a tag!")
}

func Test_Host_Unregister_RemovesSchema(t *testing.T) {
	host := capwire.NewHost()
	require.NoError(t, host.RegisterWithSchema("geometry/area", map[string]any{"type": "object"}, areaProvider()))

	host.Unregister("geometry/area")

	_, ok := host.Schemas().Schema(capability.MustNewTag("geometry/area"))
	assert.False(t, ok)
}

func Test_Host_OverwriteOption(t *testing.T) {
	replacement := capability.ProviderFunc(func(ctx context.Context, input any) (any, error) {
		return "second", nil
	})

	t.Run("default rejects", func(t *testing.T) {
		host := capwire.NewHost()
		require.NoError(t, host.Register("area", areaProvider()))
		err := host.Register("area", replacement)
		assert.True(t, errors.Is(err, capability.ErrDuplicateCapability))
	})

	t.Run("overwrite allowed", func(t *testing.T) {
		host := capwire.NewHost(capwire.WithOverwrite())
		require.NoError(t, host.Register("area", areaProvider()))
		require.NoError(t, host.Register("area", replacement))

		out, err := host.Dispatch(context.Background(), "area", nil)
		require.NoError(t, err)
		assert.Equal(t, "second", out)
	})
}

func Test_Host_Install(t *testing.T) {
	host := capwire.NewHost(capwire.WithMetrics(prometheus.NewRegistry()))

	m := &manifest.Manifest{
		Name:    "geometry",
		Version: "1.0.0",
		Capabilities: []manifest.CapabilityDecl{
			{
				Tag: "geometry/area",
				InputSchema: map[string]any{
					"type":     "object",
					"required": []any{"width", "height"},
				},
			},
		},
	}

	require.NoError(t, host.Install(m, manifest.ProviderSet{"geometry/area": areaProvider()}))

	out, err := host.Dispatch(context.Background(), "geometry/area", map[string]any{"width": 6.0, "height": 7.0})
	require.NoError(t, err)
	assert.Equal(t, 42.0, out)

	// The manifest's schema guards dispatch.
	_, err = host.Dispatch(context.Background(), "geometry/area", map[string]any{"width": 6.0})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}
