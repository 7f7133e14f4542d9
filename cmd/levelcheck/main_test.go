package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/gridpaint/levels"
)

func writeScene(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunReportsEachFile(t *testing.T) {
	dir := t.TempDir()
	good := writeScene(t, dir, "good.json", `{"version":1,"tiles":[
		{"id":"a","type":"grass","gx":0,"gy":0},
		{"id":"b","type":"grass","gx":1,"gy":0},
		{"id":"c","type":"stone","gx":0,"gy":1}]}`)
	unknown := writeScene(t, dir, "unknown.json", `{"version":1,"tiles":[{"id":"a","type":"lava","gx":0,"gy":0}]}`)
	future := writeScene(t, dir, "future.json", `{"version":2,"tiles":[]}`)
	dup := writeScene(t, dir, "dup.json", `{"version":1,"tiles":[
		{"id":"a","type":"grass","gx":3,"gy":3},
		{"id":"b","type":"dirt","gx":3,"gy":3}]}`)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-json", good, unknown, future, dup}, &out)
	if err == nil || !strings.Contains(err.Error(), "3 of 4") {
		t.Fatalf("expected 3 of 4 failures, got %v", err)
	}

	var reports []report
	if err := json.Unmarshal(out.Bytes(), &reports); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if len(reports) != 4 {
		t.Fatalf("got %d reports", len(reports))
	}

	tests := []struct {
		name    string
		wantErr string
	}{
		{"good", ""},
		{"unknown", "lava"},
		{"future", "unsupported save version"},
		{"dup", "holds both"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := reports[i]
			if tt.wantErr == "" {
				if r.Err != "" {
					t.Fatalf("unexpected error %q", r.Err)
				}
				return
			}
			if !strings.Contains(r.Err, tt.wantErr) {
				t.Fatalf("error %q does not mention %q", r.Err, tt.wantErr)
			}
		})
	}

	if got := reports[0].Types; got["grass"] != 2 || got["stone"] != 1 || reports[0].Tiles != 3 {
		t.Fatalf("good report = %+v", reports[0])
	}
}

func TestRunRewritesCanonically(t *testing.T) {
	dir := t.TempDir()
	path := writeScene(t, dir, "scene.json", `{"version":1,"tiles":[
		{"id":"b","type":"dirt","gx":5,"gy":2},
		{"id":"a","type":"grass","gx":0,"gy":0}]}`)

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-w", path}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "ok") {
		t.Fatalf("output = %q", out.String())
	}
	save, err := levels.ReadFile(path)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if len(save.Tiles) != 2 || save.Tiles[0].ID != "a" || save.Tiles[1].ID != "b" {
		t.Fatalf("tiles not in row-major order: %+v", save.Tiles)
	}
}

func TestRunNeedsFiles(t *testing.T) {
	if err := run(context.Background(), nil, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected an error with no files")
	}
}
