package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/auth"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/commands"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/config"
)

func TestVersionSkipsSession(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd(commands.WithInteractive(false))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "gymctl version dev\n", out.String())
}

func TestRootCmd_PlansPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plans/", r.URL.Path)
		w.Write([]byte(`[{"id":1,"name":"Monthly","price":"499.00","duration_days":30}]`))
	}))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.APIURL = srv.URL + "/api"
	cfg.LogLevel = "off"

	var out bytes.Buffer
	cmd := NewRootCmd(
		commands.WithConfig(cfg),
		commands.WithTokenStore(auth.NewMemoryStore("")),
		commands.WithOutput(&out),
		commands.WithLogOutput(io.Discard),
		commands.WithInteractive(false),
	)
	cmd.SetArgs([]string{"plans"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Monthly")
	assert.Contains(t, out.String(), "₹499.00")
}

func TestRootCmd_HasCommands(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"login", "logout", "register", "status", "open", "dashboard", "admin", "plans", "subscriptions", "payments", "profile", "config", "version"} {
		found, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
}
