package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOrphanSprites(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"00001.spr", "00002.spr", "00007.spr", "junk.spr", "appearances.dat"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	got := orphanSprites(dir, []uint32{1, 2, 3})
	want := []string{"00007.spr", "junk.spr"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("orphanSprites = %v, want %v", got, want)
	}
}
