// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"

	"rsc.io/pdf"
)

// pageCount opens a rendered PDF and returns its number of pages.
func pageCount(path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat pdf: %w", err)
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()
	doc, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	return doc.NumPage(), nil
}
