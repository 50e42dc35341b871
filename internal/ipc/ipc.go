// Package ipc is the daemon's control plane: a unix socket accepting small
// JSON commands from aria-ctl.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
)

// DefaultSocketPath is where the daemon listens unless configured
// otherwise.
const DefaultSocketPath = "/tmp/aria.sock"

// Command is one control message.
type Command struct {
	// Name is "trigger", "flush" or "shutdown".
	Name string `json:"cmd"`
}

// Server accepts control commands and hands them to a callback.
type Server struct {
	path string
	ln   net.Listener
}

// StartServer listens on path and invokes handler for every decoded
// command. The accept loop runs in a background goroutine.
func StartServer(path string, handler func(Command)) (*Server, error) {
	if path == "" {
		path = DefaultSocketPath
	}
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipc listen: %w", err)
	}

	s := &Server{path: path, ln: ln}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go handleConn(conn, handler)
		}
	}()

	return s, nil
}

// Close stops accepting commands and removes the socket.
func (s *Server) Close() error {
	err := s.ln.Close()
	os.Remove(s.path)
	return err
}

func handleConn(conn net.Conn, handler func(Command)) {
	defer conn.Close()

	var cmd Command
	if err := json.NewDecoder(conn).Decode(&cmd); err != nil {
		return
	}
	handler(cmd)
}

// Send delivers one command to a running daemon.
func Send(path, name string) error {
	if path == "" {
		path = DefaultSocketPath
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(Command{Name: name})
}
