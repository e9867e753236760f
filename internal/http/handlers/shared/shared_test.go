package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

var errKnown = errors.New("known failure")

func TestReadBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", MaxBodyBytes+1)))
	if _, err := ReadBody(c); !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("want ErrBodyTooLarge got %v", err)
	}

	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	body, err := ReadBody(c)
	if err != nil || string(body) != `{"a":1}` {
		t.Fatalf("read body: %q %v", body, err)
	}
}

func TestRespondMappedError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rules := []MappedError{
		{Target: errKnown, Code: 404},
		{Target: http.ErrNoCookie, Code: 400, Msg: "custom"},
	}
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{err: fmt.Errorf("wrapped: %w", errKnown), code: 404, msg: "wrapped: known failure"},
		{err: http.ErrNoCookie, code: 400, msg: "custom"},
		{err: errors.New("other"), code: 500, msg: "fallback"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("request_id", "req-1")
		RespondMappedError(c, tc.err, rules, 500, "fallback")

		var resp struct {
			StatusCode int               `json:"status_code"`
			Msg        string            `json:"msg"`
			Data       map[string]string `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if resp.StatusCode != tc.code || resp.Msg != tc.msg || resp.Data["request_id"] != "req-1" {
			t.Fatalf("%v: unexpected response %+v", tc.err, resp)
		}
	}
}
