package research

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/halcyon-research/equity-cli/internal/store"
)

// cacheMetaPrefix marks bookkeeping keys injected into cached payloads.
// They are stripped before a payload is decoded back into its record type.
const cacheMetaPrefix = "_cache_"

var cacheValidate = validator.New(validator.WithRequiredStructEnabled())

// getCached loads a cached report and decodes it into T. Any failure is a
// miss: absent rows, expired rows, payloads that no longer decode, and
// payloads whose enum fields fail validation all force a recompute.
func getCached[T any](ctx context.Context, st store.Store, stage Stage, symbol string) (T, bool) {
	var out T

	payload, err := st.GetCachedReport(ctx, string(stage), symbol)
	if err != nil {
		if !errors.Is(err, store.ErrCacheMiss) {
			zap.L().Warn("research: cache read failed",
				zap.String("stage", string(stage)),
				zap.String("symbol", symbol),
				zap.Error(err),
			)
		}
		return out, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		zap.L().Warn("research: cached payload is not an object, recomputing",
			zap.String("stage", string(stage)), zap.String("symbol", symbol))
		return out, false
	}
	for k := range raw {
		if strings.HasPrefix(k, cacheMetaPrefix) {
			delete(raw, k)
		}
	}
	cleaned, err := json.Marshal(raw)
	if err != nil {
		return out, false
	}

	if err := json.Unmarshal(cleaned, &out); err != nil {
		zap.L().Warn("research: cached payload no longer decodes, recomputing",
			zap.String("stage", string(stage)), zap.String("symbol", symbol), zap.Error(err))
		var zero T
		return zero, false
	}
	if err := cacheValidate.Struct(out); err != nil {
		zap.L().Warn("research: cached payload fails validation, recomputing",
			zap.String("stage", string(stage)), zap.String("symbol", symbol), zap.Error(err))
		var zero T
		return zero, false
	}
	return out, true
}

// putCached writes a report to the cache with bookkeeping metadata. Cache
// writes are best effort; a failure is logged and the run continues.
func putCached[T any](ctx context.Context, st store.Store, stage Stage, symbol string, value T, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		zap.L().Warn("research: marshal for cache failed",
			zap.String("stage", string(stage)), zap.String("symbol", symbol), zap.Error(err))
		return false
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return false
	}
	raw[cacheMetaPrefix+"report_type"] = string(stage)
	raw[cacheMetaPrefix+"symbol"] = symbol
	raw[cacheMetaPrefix+"timestamp"] = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.Marshal(raw)
	if err != nil {
		return false
	}

	if err := st.CacheReport(ctx, string(stage), symbol, payload, ttl); err != nil {
		zap.L().Warn("research: cache write failed",
			zap.String("stage", string(stage)), zap.String("symbol", symbol), zap.Error(err))
		return false
	}
	return true
}
