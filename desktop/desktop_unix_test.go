//go:build !windows

package desktop

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStartDetachedReapsChild(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"true", false},
		{"false", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done, err := startDetached(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			select {
			case err := <-done:
				if (err != nil) != tt.wantErr {
					t.Errorf("exit err = %v, wantErr %v", err, tt.wantErr)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("child was never waited on")
			}
		})
	}
}

func TestStartDetachedMissingBinary(t *testing.T) {
	done, err := startDetached(filepath.Join(t.TempDir(), "no-such-handler"))
	if err == nil {
		t.Fatal("start succeeded for a missing binary")
	}
	if done != nil {
		t.Error("got a wait channel for a process that never started")
	}
}
