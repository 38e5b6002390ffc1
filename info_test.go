package redis

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pior/redisinline/internal/testutils"
)

func TestInfoParsesRecognizedFields(t *testing.T) {
	body := "" +
		"# Server\r\n" +
		"redis_version:7.2.4\r\n" +
		"uptime_in_seconds:3600\r\n" +
		"\r\n" +
		"# Clients\r\n" +
		"connected_clients:5\r\n" +
		"an_unrecognized_key:whatever\r\n" +
		"connected_slaves:1\r\n" +
		"used_memory:1048576\r\n" +
		"changes_since_last_save:42\r\n" +
		"last_save_time:1700000000\r\n" +
		"total_connections_received:99\r\n" +
		"total_commands_processed:1000\r\n"

	reply := "$" + strconv.Itoa(len(body)) + "\r\n" + body + "\r\n"
	conn := testutils.NewFakeConn(reply)
	c := newTestClient(t, conn, testConfig())

	info, err := c.Info(time.Second)
	require.NoError(t, err)

	assert.Equal(t, "7.2.4", info.Version)
	assert.Equal(t, int64(3600), info.Uptime)
	assert.Equal(t, int64(5), info.Clients)
	assert.Equal(t, int64(1), info.Slaves)
	assert.Equal(t, int64(1048576), info.Memory)
	assert.Equal(t, int64(42), info.Changes)
	assert.Equal(t, int64(1700000000), info.LastSave)
	assert.Equal(t, int64(99), info.Connections)
	assert.Equal(t, int64(1000), info.Commands)
}

func TestInfoSurfacesServerError(t *testing.T) {
	conn := testutils.NewFakeConn("-ERR\r\nunknown command 'INFO'\r\n")
	c := newTestClient(t, conn, testConfig())

	_, err := c.Info(time.Second)
	var serr *ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "unknown command 'INFO'", serr.Text)
}
