package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogger struct {
	msg  string
	args []any
}

func (f *fakeLogger) Info(msg string, args ...any) {
	f.msg = msg
	f.args = args
}

func TestLoggerMiddleware(t *testing.T) {
	t.Parallel()

	argByKey := func(args []any, key string) any {
		for i := 0; i+1 < len(args); i += 2 {
			if args[i] == key {
				return args[i+1]
			}
		}
		return nil
	}

	t.Run("logs status and size", func(t *testing.T) {
		t.Parallel()
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short"))
		})

		log := &fakeLogger{}
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/tea", nil)
		LoggerMiddleware(log)(next).ServeHTTP(w, r)

		require.Equal(t, "got HTTP request", log.msg)
		assert.Equal(t, http.MethodGet, argByKey(log.args, "method"))
		assert.Equal(t, "/tea", argByKey(log.args, "uri"))
		assert.Equal(t, http.StatusTeapot, argByKey(log.args, "status"))
		assert.Equal(t, len("short"), argByKey(log.args, "size"))
	})

	t.Run("implicit 200 is logged", func(t *testing.T) {
		t.Parallel()
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})

		log := &fakeLogger{}
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		LoggerMiddleware(log)(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, argByKey(log.args, "status"))
	})
}
