// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff reports differences between expected and actual text
// in tests.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Diff returns a unified diff from want to got, or "" if they are
// equal. It uses the system diff command when there is one, and
// otherwise lists the first differing line.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	if _, err := exec.LookPath("diff"); err == nil {
		if d, err := external(want, got); err == nil {
			return d
		}
	}
	return firstDifference(want, got)
}

func external(want, got string) (string, error) {
	dir, err := os.MkdirTemp("", "perfcmp-diff")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)
	wantFile, gotFile := dir+"/want", dir+"/got"
	if err := os.WriteFile(wantFile, []byte(want), 0666); err != nil {
		return "", err
	}
	if err := os.WriteFile(gotFile, []byte(got), 0666); err != nil {
		return "", err
	}
	out, err := exec.Command("diff", "-u", wantFile, gotFile).CombinedOutput()
	if len(out) == 0 {
		// diff exits 1 when the files differ, so only a run
		// without output is a failure.
		return "", fmt.Errorf("diff: %v", err)
	}
	return string(out), nil
}

func firstDifference(want, got string) string {
	wl := strings.SplitAfter(want, "\n")
	gl := strings.SplitAfter(got, "\n")
	for i := 0; i < len(wl) || i < len(gl); i++ {
		var w, g string
		if i < len(wl) {
			w = wl[i]
		}
		if i < len(gl) {
			g = gl[i]
		}
		if w != g {
			return fmt.Sprintf("line %d:\nwant: %q\ngot:  %q\n", i+1, w, g)
		}
	}
	return fmt.Sprintf("want %q\ngot  %q\n", want, got)
}
