package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-contributions/internal/domain"
)

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name      string
		verbose   bool
		expectDbg bool
	}{
		{name: "info by default", verbose: false, expectDbg: false},
		{name: "debug when verbose", verbose: true, expectDbg: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tc.verbose)

			logger.Debug("debug line")
			logger.Info("info line")

			assert.Contains(t, buf.String(), "info line")
			assert.Equal(t, tc.expectDbg, bytes.Contains(buf.Bytes(), []byte("debug line")))
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("explicit file is loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("CONTRIB_TEST_FROM_FILE=loaded\n"), 0o600))
		t.Setenv("CONTRIB_TEST_FROM_FILE", "")
		require.NoError(t, os.Unsetenv("CONTRIB_TEST_FROM_FILE"))

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "loaded", os.Getenv("CONTRIB_TEST_FROM_FILE"))
	})

	t.Run("existing variables win", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("CONTRIB_TEST_PRESET=file\n"), 0o600))
		t.Setenv("CONTRIB_TEST_PRESET", "shell")

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "shell", os.Getenv("CONTRIB_TEST_PRESET"))
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "failed to load env file")
	})

	t.Run("missing default .env is ignored", func(t *testing.T) {
		t.Chdir(t.TempDir())
		assert.NoError(t, loadEnvFile(""))
	})
}

func TestStatsRejectsUnknownOutput(t *testing.T) {
	rootCmd.SetArgs([]string{"stats", "--output", "xml"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, `invalid --output "xml"`)
}

func TestWriteJSONReport(t *testing.T) {
	testCases := []struct {
		name       string
		payload    *domain.ContributionsPayload
		err        error
		expectErr  string
		expectBody string
	}{
		{
			name:       "payload is printed",
			payload:    &domain.ContributionsPayload{StreakResult: domain.StreakResult{LongestStreak: 4}},
			expectBody: `"longestStreak": 4`,
		},
		{
			name:      "aggregation error keeps a single prefix",
			err:       fmt.Errorf("failed to aggregate contributions: %w", errors.New("connection refused")),
			expectErr: "failed to aggregate contributions: connection refused",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeJSONReport(&buf, tc.payload, tc.err)

			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Equal(t, tc.expectErr, err.Error())
				assert.Equal(t, 1, strings.Count(err.Error(), "failed to aggregate contributions"))
				assert.Empty(t, buf.String())
				return
			}
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tc.expectBody)
		})
	}
}
