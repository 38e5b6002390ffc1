package resp

import (
	"bufio"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeScall(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	require.NoError(t, EncodeScall(w, "GET", []string{"key"}))
	assert.Equal(t, "GET key\r\n", buf.String())
}

func TestEncodeScallNoArgs(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	require.NoError(t, EncodeScall(w, "PING", nil))
	assert.Equal(t, "PING\r\n", buf.String())
}

func TestEncodeCall(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	require.NoError(t, EncodeCall(w, "MSET", [][]string{{"a", "1"}, {"b", "2"}}))
	assert.Equal(t, "MSET\r\na 1\r\nb 2\r\n", buf.String())
}

func TestEncodeSetCall(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	require.NoError(t, EncodeSetCall(w, "SET", "key", []byte("value")))
	assert.Equal(t, "SET key 5\r\nvalue\r\n", buf.String())
}

func TestEncodeBcallAppendsTimeoutAndAddsSafetyMargin(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	callerTimeout, err := EncodeBcall(w, "BLPOP", []string{"q"}, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "BLPOP q 5\r\n", buf.String())
	assert.Equal(t, 5*time.Second+DefaultTimeout, callerTimeout)
}

func TestEncodeBcallZeroMeansWaitForever(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	callerTimeout, err := EncodeBcall(w, "BLPOP", []string{"q"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "BLPOP q 0\r\n", buf.String())
	assert.Equal(t, time.Duration(0), callerTimeout)
}
