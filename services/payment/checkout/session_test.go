package checkout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSession(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads yaml and trims base url", func(t *testing.T) {
		path := filepath.Join(dir, "session.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
base_url: http://localhost:8080/
token: tok-123
payer:
  name: Asha Rao
  email: asha@example.com
  contact: "+919800000000"
`), 0o600))

		s, err := LoadSession(path)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", s.BaseURL)
		assert.Equal(t, "tok-123", s.Token)
		assert.Equal(t, "Asha Rao", s.Payer.Name)
		assert.Equal(t, "+919800000000", s.Payer.Contact)
	})

	t.Run("token is required", func(t *testing.T) {
		path := filepath.Join(dir, "no-token.yaml")
		require.NoError(t, os.WriteFile(path, []byte("base_url: http://localhost:8080\n"), 0o600))

		_, err := LoadSession(path)
		assert.ErrorContains(t, err, "token")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSession(filepath.Join(dir, "absent.yaml"))
		assert.Error(t, err)
	})
}
