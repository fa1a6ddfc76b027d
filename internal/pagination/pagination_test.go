package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: 12}, New(0, 0, 12, 50))
	assert.Equal(t, Params{Page: 3, Limit: 50}, New(3, 500, 12, 50))
	assert.Equal(t, Params{Page: 1, Limit: 12}, New(-4, -1, 12, 50))
}

func TestMeta(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	assert.Equal(t, 10, p.Offset())
	assert.Equal(t, Meta{Total: 25, Page: 2, Limit: 10, TotalPages: 3, HasMore: true}, p.Meta(25))
	assert.Equal(t, Meta{Total: 20, Page: 2, Limit: 10, TotalPages: 2, HasMore: false}, p.Meta(20))
	assert.Equal(t, Meta{Total: 0, Page: 2, Limit: 10, TotalPages: 0, HasMore: false}, p.Meta(0))
}

func TestFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=abc&limit=7", nil)
	assert.Equal(t, Params{Page: 1, Limit: 7}, FromQuery(c, 12, 50))
}
