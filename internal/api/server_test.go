package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"addition-chain-db/internal/chain"
)

// setupTestServer loads the fixture dataset and returns a ready router.
func setupTestServer(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		chain.IndexFileName: "2 2 0 1 1\n12 5 0 3 3\n13 6 1 1 2\n",
		"ac0002.txt":        "1 2 b\n",
		"ac0012.txt":        "1 2 3 6 12 b\n1 2 4 6 12 b\n1 2 4 8 12 b\n",
		"ac0013.txt":        "1 2 3 6 12 13 b\n1 2 4 5 8 13 a\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	st, err := chain.Load(dir, chain.LoadOptions{Strict: true})
	require.NoError(t, err)

	return NewServer(st, zap.NewNop(), NewMetrics()).Routes()
}

func TestServer_GetChains(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Success",
			url:            "/chains/13",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "NotFound",
			url:            "/chains/99",
			expectedStatus: http.StatusNotFound,
			expectedError:  "no chains loaded for n=99",
		},
		{
			name:           "BadRequest_NonNumeric",
			url:            "/chains/thirteen",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "positive integer",
		},
		{
			name:           "BadRequest_Zero",
			url:            "/chains/0",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupTestServer(t)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Contains(t, body["error"], tt.expectedError)
				return
			}

			var resp struct {
				Index  chain.IndexRecord   `json:"index"`
				Chains []chain.ChainRecord `json:"chains"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, 13, resp.Index.N)
			require.Len(t, resp.Chains, 2)
			assert.Equal(t, []int{1, 2, 3, 6, 12, 13}, resp.Chains[0].Elements)
			assert.Equal(t, chain.NonBrauer, resp.Chains[1].Kind)
		})
	}
}

func TestServer_GetIndex(t *testing.T) {
	h := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/index/12", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var rec chain.IndexRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, chain.IndexRecord{N: 12, Size: 5, NonBrauerCount: 0, BrauerCount: 3, TotalCount: 3}, rec)
}

func TestServer_IndexRange(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		expectedStatus int
		expectedNs     []int
	}{
		{
			name:           "FullRange",
			url:            "/index",
			expectedStatus: http.StatusOK,
			expectedNs:     []int{2, 12, 13},
		},
		{
			name:           "Bounded",
			url:            "/index?from=3&to=12",
			expectedStatus: http.StatusOK,
			expectedNs:     []int{12},
		},
		{
			name:           "EmptyWindow",
			url:            "/index?from=100&to=200",
			expectedStatus: http.StatusOK,
			expectedNs:     []int{},
		},
		{
			name:           "BadRequest_Inverted",
			url:            "/index?from=12&to=3",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "BadRequest_NonNumeric",
			url:            "/index?from=abc",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupTestServer(t)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var records []chain.IndexRecord
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))

			ns := make([]int, 0, len(records))
			for _, rec := range records {
				ns = append(ns, rec.N)
			}
			assert.Equal(t, tt.expectedNs, ns)
		})
	}
}

func TestServer_Stats(t *testing.T) {
	h := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats chain.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Targets)
	assert.Equal(t, 6, stats.Chains)
	assert.Equal(t, 6, stats.MaxSize)
}

func TestServer_Health(t *testing.T) {
	h := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestServer_Metrics(t *testing.T) {
	h := setupTestServer(t)

	// Serve one query so the counters have something to report.
	req := httptest.NewRequest(http.MethodGet, "/chains/13", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "chaindb_requests_total"))
	assert.True(t, strings.Contains(body, "chaindb_chains_served_total 2"))
}
