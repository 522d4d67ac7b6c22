package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	config "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Config"
	container "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Container"
	logger "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Logger"
)

// backend echoes inserted rows the way PostgREST does with return=representation
type backend struct {
	calls  int
	bodies []string
	status int
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.calls++
	body, _ := io.ReadAll(r.Body)
	b.bodies = append(b.bodies, string(body))

	w.Header().Set("Content-Type", "application/json")
	if b.status >= 400 {
		w.WriteHeader(b.status)
		_, _ = w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint \"devices_pkey\""}`))
		return
	}
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte("[" + string(body) + "]"))
}

type harness struct {
	backend   *backend
	factories int
	stdout    bytes.Buffer
	stderr    bytes.Buffer
	logs      bytes.Buffer
	loadErr   error
	factory   ContainerFactory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{backend: &backend{}}
	srv := httptest.NewServer(h.backend)
	t.Cleanup(srv.Close)

	cfg := &config.SeederConfig{
		Supabase: config.SupabaseConfig{URL: srv.URL, Key: "service-key", KeySource: config.EnvSupabaseServiceRoleKey},
		Logging:  config.LoggingConfig{Level: "debug", Format: "json"},
	}
	h.factory = func() (*container.SeederContainer, error) {
		h.factories++
		if h.loadErr != nil {
			return nil, h.loadErr
		}
		return container.NewSeederContainerWith(cfg, logger.NewLoggerTo(&cfg.Logging, &h.logs)), nil
	}
	return h
}

func (h *harness) run(args ...string) int {
	return Execute(context.Background(), args, &h.stdout, &h.stderr, h.factory)
}

func TestInsertWithPassword(t *testing.T) {
	h := newHarness(t)

	code := h.run("--device-id", "device3", "--password", "abc123")
	require.Equal(t, ExitOK, code, h.stderr.String())

	require.Equal(t, 1, h.backend.calls)
	assert.JSONEq(t, `{"device_id":"device3","device_password":"abc123"}`, h.backend.bodies[0])

	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Inserted device row:", lines[0])
	assert.JSONEq(t, `[{"device_id":"device3","device_password":"abc123"}]`, lines[1])
}

func TestInsertWithoutPasswordSendsNull(t *testing.T) {
	h := newHarness(t)

	code := h.run("--device-id", "device4")
	require.Equal(t, ExitOK, code, h.stderr.String())

	require.Equal(t, 1, h.backend.calls)
	assert.JSONEq(t, `{"device_id":"device4","device_password":null}`, h.backend.bodies[0])
}

func TestDevicePasswordAlias(t *testing.T) {
	h := newHarness(t)

	code := h.run("--device-id", "device5", "--device-password", "s3cret")
	require.Equal(t, ExitOK, code, h.stderr.String())
	assert.JSONEq(t, `{"device_id":"device5","device_password":"s3cret"}`, h.backend.bodies[0])
}

func TestLastPasswordFlagWins(t *testing.T) {
	h := newHarness(t)

	code := h.run("--device-id", "device6", "--password", "first", "--device-password", "second")
	require.Equal(t, ExitOK, code, h.stderr.String())
	assert.JSONEq(t, `{"device_id":"device6","device_password":"second"}`, h.backend.bodies[0])
}

func TestEqualsSyntax(t *testing.T) {
	h := newHarness(t)

	code := h.run("--device-id=device7", "--password=abc")
	require.Equal(t, ExitOK, code, h.stderr.String())
	assert.JSONEq(t, `{"device_id":"device7","device_password":"abc"}`, h.backend.bodies[0])
}

func TestMissingDeviceIDIsUsageError(t *testing.T) {
	h := newHarness(t)

	code := h.run("--password", "abc123")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, h.stderr.String(), "device-id")
	assert.Contains(t, h.stderr.String(), "Usage:")
	assert.Empty(t, h.stdout.String())

	// nothing was loaded or sent
	assert.Zero(t, h.factories)
	assert.Zero(t, h.backend.calls)
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	h := newHarness(t)

	code := h.run("--device-id", "device3", "--pin", "1234")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, h.stderr.String(), "unknown flag")
	assert.Zero(t, h.factories)
}

func TestPositionalArgumentIsUsageError(t *testing.T) {
	h := newHarness(t)

	code := h.run("--device-id", "device3", "extra")
	assert.Equal(t, ExitUsage, code)
	assert.Zero(t, h.factories)
}

func TestConfigErrorStopsBeforeNetwork(t *testing.T) {
	h := newHarness(t)
	h.loadErr = &config.MissingEnvError{Vars: []string{config.EnvSupabaseURL}}

	code := h.run("--device-id", "device3", "--password", "abc123")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, h.stderr.String(), config.EnvSupabaseURL)
	assert.NotContains(t, h.stderr.String(), "Usage:")
	assert.Zero(t, h.backend.calls)
	assert.Empty(t, h.stdout.String())
}

func TestRemoteErrorPropagates(t *testing.T) {
	h := newHarness(t)
	h.backend.status = http.StatusConflict

	code := h.run("--device-id", "device3", "--password", "abc123")
	assert.Equal(t, ExitError, code)
	assert.Equal(t, 1, h.backend.calls)
	assert.Contains(t, h.stderr.String(), "failed to insert device device3")
	assert.Empty(t, h.stdout.String())
}

func TestRemoteErrorIsLoggedAtErrorLevel(t *testing.T) {
	h := newHarness(t)
	h.backend.status = http.StatusConflict

	code := h.run("--device-id", "device3")
	require.Equal(t, ExitError, code)

	var failure map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(h.logs.String()), "\n") {
		var record map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		if record["message"] == "Device insert failed" {
			failure = record
		}
	}
	require.NotNil(t, failure, h.logs.String())
	assert.Equal(t, "error", failure["level"])
	assert.Equal(t, "device3", failure["device_id"])
	assert.Contains(t, failure["error"], "failed to insert device device3")
}

func TestUsageErrorUnwraps(t *testing.T) {
	inner := errors.New("bad flag")
	err := error(&UsageError{Err: inner})

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "bad flag", err.Error())
}
