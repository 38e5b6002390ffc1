package redis

import (
	"strconv"
	"strings"
	"time"

	"github.com/pior/redisinline/resp"
)

// ServerInfo holds the subset of the Redis INFO reply this client
// recognizes, per spec §6's key table. Unknown keys are dropped.
type ServerInfo struct {
	Version     string
	Uptime      int64
	Clients     int64
	Slaves      int64
	Memory      int64
	Changes     int64
	LastSave    int64
	Connections int64
	Commands    int64
}

var infoIntFields = map[string]func(*ServerInfo, int64){
	"uptime_in_seconds":          func(i *ServerInfo, v int64) { i.Uptime = v },
	"connected_clients":          func(i *ServerInfo, v int64) { i.Clients = v },
	"connected_slaves":           func(i *ServerInfo, v int64) { i.Slaves = v },
	"used_memory":                func(i *ServerInfo, v int64) { i.Memory = v },
	"changes_since_last_save":    func(i *ServerInfo, v int64) { i.Changes = v },
	"last_save_time":             func(i *ServerInfo, v int64) { i.LastSave = v },
	"total_connections_received": func(i *ServerInfo, v int64) { i.Connections = v },
	"total_commands_processed":   func(i *ServerInfo, v int64) { i.Commands = v },
}

// Info issues the server's INFO command and parses the well-known key/value
// pairs of spec §6 out of the single bulk reply body, dropping unrecognized
// keys.
func (c *Client) Info(timeout time.Duration) (ServerInfo, error) {
	v, err := c.Send(EncodeCommand("INFO"), timeout)
	if err != nil {
		return ServerInfo{}, err
	}
	if v.Kind == resp.KindError {
		return ServerInfo{}, &ServerError{Text: v.Err}
	}

	var info ServerInfo
	for _, line := range strings.Split(string(v.Bulk), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if key == "redis_version" {
			info.Version = value
			continue
		}
		if setter, ok := infoIntFields[key]; ok {
			n, err := strconv.ParseInt(value, 10, 64)
			if err == nil {
				setter(&info, n)
			}
		}
	}
	return info, nil
}
