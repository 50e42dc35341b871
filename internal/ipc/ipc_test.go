package ipc

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSendAndReceive(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "aria-test.sock")

	got := make(chan Command, 1)
	srv, err := StartServer(sock, func(cmd Command) { got <- cmd })
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer srv.Close()

	if err := Send(sock, "trigger"); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case cmd := <-got:
		if cmd.Name != "trigger" {
			t.Errorf("expected trigger, got %q", cmd.Name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("command never arrived")
	}
}

func TestSendWithoutServer(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "nobody-home.sock")
	if err := Send(sock, "trigger"); err == nil {
		t.Error("expected dial error with no daemon listening")
	}
}
