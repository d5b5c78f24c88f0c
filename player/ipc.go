package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []interface{} `json:"command"`
	RequestID int64         `json:"request_id,omitempty"`
}

// ipcResponse is the JSON structure received from mpv's IPC socket.
// Lines carrying Event are notifications, not replies.
type ipcResponse struct {
	Data      interface{} `json:"data"`
	Error     string      `json:"error"`
	Event     string      `json:"event"`
	RequestID *int64      `json:"request_id"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
)

// requestIDs numbers commands so replies can be told apart from notifications.
var requestIDs atomic.Int64

// errNotSent marks failures that happened before the command reached mpv.
var errNotSent = errors.New("not sent")

// sendCommand sends a JSON-IPC command to mpv via Unix domain socket.
// Only connection failures are retried; once written, a command is never sent again.
func (m *MPV) sendCommand(command []interface{}) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(m.socketPath, command, requestIDs.Add(1))
		if err == nil {
			return result, nil
		}

		if !errors.Is(err, errNotSent) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", maxRetries, lastErr)
}

// encodeCommand marshals a command as a newline-terminated JSON line.
func encodeCommand(command []interface{}) ([]byte, error) {
	return encodeRequest(ipcCommand{Command: command})
}

func encodeRequest(req ipcCommand) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return append(payload, '\n'), nil
}

// doSendCommand performs a single IPC command attempt and waits for the reply tagged with id.
func doSendCommand(socketPath string, command []interface{}, id int64) (interface{}, error) {
	payload, err := encodeRequest(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return nil, err
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w: %v", errNotSent, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w: %v", errNotSent, err)
	}

	if _, err = conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	resp, err := readReply(bufio.NewReader(conn), id)
	if err != nil {
		return nil, err
	}

	if resp.Error != "" && resp.Error != "success" {
		return nil, fmt.Errorf("mpv error: %s", resp.Error)
	}

	return resp.Data, nil
}

// readReply skips notifications and replies to other requests until the one for id arrives.
// A reply without a request_id is accepted; the connection carries a single command.
func readReply(reader *bufio.Reader, id int64) (ipcResponse, error) {
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return ipcResponse{}, fmt.Errorf("read: %w", err)
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return ipcResponse{}, fmt.Errorf("unmarshal: %w", err)
		}

		if resp.Event != "" {
			continue
		}

		if resp.RequestID != nil && *resp.RequestID != id {
			continue
		}

		return resp, nil
	}
}
