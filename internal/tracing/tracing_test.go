package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/param"
	"github.com/zjrosen/slotmenu/internal/router"
)

func TestNewProvider_DisabledIsNoop(t *testing.T) {
	p, err := NewProvider(DefaultConfig())
	require.NoError(t, err)
	require.False(t, p.Enabled())
	require.NotNil(t, p.Tracer())
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Exporter = "jaeger"
	_, err := NewProvider(cfg)
	require.ErrorContains(t, err, "unsupported exporter type")
}

func TestNewProvider_FileRequiresPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	_, err := NewProvider(cfg)
	require.ErrorContains(t, err, "file_path required")
}

func readRecords(t *testing.T, path string, compressed bool) []SpanRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var sc *bufio.Scanner
	if compressed {
		zr, err := zstd.NewReader(f)
		require.NoError(t, err)
		defer zr.Close()
		sc = bufio.NewScanner(zr)
	} else {
		sc = bufio.NewScanner(f)
	}
	var out []SpanRecord
	for sc.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		out = append(out, rec)
	}
	require.NoError(t, sc.Err())
	return out
}

func exportOne(t *testing.T, path string) {
	t.Helper()
	exp, err := NewFileExporter(path)
	require.NoError(t, err)
	p := NewProviderWithExporter(exp)
	_, span := p.Tracer().Start(context.Background(), "dispatch.buy")
	span.SetStatus(codes.Error, "boom")
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestFileExporter_WritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "traces.jsonl")
	exportOne(t, path)

	recs := readRecords(t, path, false)
	require.Len(t, recs, 1)
	require.Equal(t, "dispatch.buy", recs[0].Name)
	require.Equal(t, "ERROR", recs[0].Status)
	require.Equal(t, "boom", recs[0].StatusMsg)
	require.Equal(t, "INTERNAL", recs[0].Kind)
}

func TestFileExporter_Zstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl.zst")
	exportOne(t, path)

	recs := readRecords(t, path, true)
	require.Len(t, recs, 1)
	require.Equal(t, "dispatch.buy", recs[0].Name)
}

func TestFileExporter_ShutdownTwice(t *testing.T) {
	exp, err := NewFileExporter(filepath.Join(t.TempDir(), "t.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exp.Shutdown(context.Background()))
	require.NoError(t, exp.Shutdown(context.Background()))
}

func TestRouterMiddleware_RecordsSpan(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	p := NewProviderWithExporter(exp)
	mw := NewRouterMiddleware(p.Tracer())

	inv := &router.Invocation{
		Route: "buy",
		Request: &param.Request{
			Event:   host.NewClickEvent("alice", nil, 3, host.ClickLeft),
			Player:  "alice",
			Pattern: 'A',
			Slot:    3,
		},
	}
	err := mw(router.InvokerFunc(func(context.Context, *router.Invocation) error { return nil })).
		Invoke(context.Background(), inv)
	require.NoError(t, err)

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "dispatch.buy", spans[0].Name)
	require.Equal(t, codes.Ok, spans[0].Status.Code)

	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	require.Equal(t, "A", attrs[AttrPattern])
	require.Equal(t, "alice", attrs[AttrPlayer])
	require.Equal(t, "buy", attrs[AttrRoute])
}

func TestRouterMiddleware_RecordsError(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	p := NewProviderWithExporter(exp)
	mw := NewRouterMiddleware(p.Tracer())

	boom := errors.New("boom")
	err := mw(router.InvokerFunc(func(context.Context, *router.Invocation) error { return boom })).
		Invoke(context.Background(), &router.Invocation{Route: "sell", Request: &param.Request{}})
	require.ErrorIs(t, err, boom)

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 1)
}

func TestRouterMiddleware_NilTracerPassesThrough(t *testing.T) {
	called := false
	err := NewRouterMiddleware(nil)(router.InvokerFunc(func(context.Context, *router.Invocation) error {
		called = true
		return nil
	})).Invoke(context.Background(), &router.Invocation{Request: &param.Request{}})
	require.NoError(t, err)
	require.True(t, called)
}
