package wasmhost

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tetratelabs/wazero/api"
)

// guestLogMessage is the wire format guests pass to the log_message host
// function: a packed ptr+len pointing at this JSON document.
type guestLogMessage struct {
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// registerLogging instantiates the "capwire" host module, exporting
// log_message so guest providers can log through the host's structured
// logger.
func (e *Executor) registerLogging(ctx context.Context, logger *slog.Logger) error {
	_, err := e.runtime.NewHostModuleBuilder("capwire").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			logGuestMessage(ctx, logger, mod, stack[0])
		}), []api.ValueType{api.ValueTypeI64}, nil).
		Export("log_message").
		Instantiate(ctx)
	return err
}

func logGuestMessage(ctx context.Context, logger *slog.Logger, mod api.Module, packed uint64) {
	//nolint:gosec // WASM pointers are 32-bit
	ptr := uint32(packed >> 32)
	//nolint:gosec // WASM lengths are 32-bit
	length := uint32(packed)

	payload, ok := mod.Memory().Read(ptr, length)
	if !ok {
		logger.ErrorContext(ctx, "wasmhost: failed to read log message from guest memory")
		return
	}

	var msg guestLogMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.ErrorContext(ctx, "wasmhost: failed to unmarshal guest log message", "error", err)
		return
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(msg.Level)); err != nil {
		logger.WarnContext(ctx, "wasmhost: unknown log level from guest", "level", msg.Level)
	}

	args := make([]any, 0, len(msg.Attrs)*2)
	for k, v := range msg.Attrs {
		args = append(args, k, v)
	}
	logger.Log(ctx, level, msg.Message, args...)
}
