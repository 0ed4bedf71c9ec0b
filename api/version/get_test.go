package version

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/minewatch-api/api/types"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		deps        *types.Dependencies
		wantVersion string
	}{
		{"without build info", nil, "dev"},
		{"with build info", &types.Dependencies{Build: types.BuildInfo{Version: "1.4.0", GitCommit: "abc123"}}, "1.4.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Get(tt.deps)(c)

			assert.Equal(t, http.StatusOK, w.Code)
			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "MineWatch API", response["name"])
			assert.Equal(t, tt.wantVersion, response["version"])
		})
	}
}
