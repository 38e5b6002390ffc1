package redis

import (
	"bufio"
	"bytes"
	"time"

	"github.com/pior/redisinline/resp"
)

// EncodeCommand builds the bytes for an inline command with space-joined
// args, per spec §6's scall contract. The result is ready to pass to Send
// or SendAsync.
func EncodeCommand(cmd string, args ...string) []byte {
	return encodeScall(cmd, args)
}

// EncodeMultiRowCommand builds the bytes for an inline command followed by
// one CRLF-separated row per element of rows, per spec §6's call contract.
func EncodeMultiRowCommand(cmd string, rows [][]string) []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	_ = resp.EncodeCall(w, cmd, rows)
	return buf.Bytes()
}

// EncodeSetCommand builds the bytes for a command carrying a binary
// payload, e.g. SET key value, per spec §6's set_call contract.
func EncodeSetCommand(cmd, key string, value []byte) []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	_ = resp.EncodeSetCall(w, cmd, key, value)
	return buf.Bytes()
}

// EncodeBlockingCommand builds the bytes for a blocking command (e.g.
// BLPOP), appending serverTimeout in seconds as the last inline argument,
// and returns the caller-side timeout to pass to Send so the caller always
// outlives the server (spec §6's bcall contract).
func EncodeBlockingCommand(cmd string, args []string, serverTimeout time.Duration) (cmdBytes []byte, callerTimeout time.Duration) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	callerTimeout, _ = resp.EncodeBcall(w, cmd, args, serverTimeout)
	return buf.Bytes(), callerTimeout
}

func encodeScall(cmd string, args []string) []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	_ = resp.EncodeScall(w, cmd, args)
	return buf.Bytes()
}
