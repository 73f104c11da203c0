package log

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIOLogger(t *testing.T) {
	t.Run("Read logs incoming data and passes it through", func(t *testing.T) {
		logger, buf := newBufferLogger()

		in := strings.NewReader(`{"jsonrpc":"2.0","method":"tools/list"}`)
		iol := NewIOLogger(in, io.Discard, logger)

		got, err := io.ReadAll(iol)
		require.NoError(t, err)
		assert.Equal(t, `{"jsonrpc":"2.0","method":"tools/list"}`, string(got))

		out := buf.String()
		assert.Contains(t, out, "dir=in")
		assert.Contains(t, out, "tools/list")
	})

	t.Run("Write logs outgoing data and forwards it", func(t *testing.T) {
		logger, buf := newBufferLogger()

		var sink bytes.Buffer
		iol := NewIOLogger(strings.NewReader(""), &sink, logger)

		n, err := iol.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
		require.NoError(t, err)
		assert.Equal(t, sink.Len(), n)
		assert.Equal(t, `{"jsonrpc":"2.0","id":1,"result":{}}`, sink.String())

		out := buf.String()
		assert.Contains(t, out, "dir=out")
		assert.Contains(t, out, "result")
	})
}
