//go:build unix

package main

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/peterstace/tac"
)

func TestCancelOnSignal(t *testing.T) {
	c := &tac.Cancellable{}
	stop := cancelOnSignal(c, syscall.SIGUSR1)
	defer stop()
	if err := syscall.Kill(os.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("kill: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for !c.Cancelled() {
		if time.Now().After(deadline) {
			t.Fatal("signal did not cancel the run")
		}
		time.Sleep(time.Millisecond)
	}
}
