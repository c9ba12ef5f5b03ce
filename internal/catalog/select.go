// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/dwgview/pkg/types"
)

var (
	// ErrCancelled indicates the user chose 0, closed the input, or
	// interrupted the prompt.
	ErrCancelled = errors.New("selection cancelled")

	// ErrInvalidSelection indicates input that is not a number in range.
	ErrInvalidSelection = errors.New("invalid selection")
)

type answer struct {
	line string
	err  error
}

// Select prompts once on out and reads a single line from in. There is no
// re-prompt: any answer other than a listed number or 0 is rejected. When ctx
// ends before a line arrives the selection is cancelled; the pending read is
// abandoned.
func Select(ctx context.Context, c *Catalog, in io.Reader, out io.Writer) (types.DocumentEntry, error) {
	fmt.Fprintf(out, "\nEnter file number to convert (1-%d, 0 to exit): ", c.Len())

	lines := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		lines <- answer{line: line, err: err}
	}()

	var a answer
	select {
	case <-ctx.Done():
		fmt.Fprintln(out)
		return types.DocumentEntry{}, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	case a = <-lines:
	}

	if a.err != nil && !errors.Is(a.err, io.EOF) {
		return types.DocumentEntry{}, fmt.Errorf("reading selection: %w", a.err)
	}
	text := strings.TrimSpace(a.line)
	if text == "" && errors.Is(a.err, io.EOF) {
		return types.DocumentEntry{}, ErrCancelled
	}

	n, convErr := strconv.Atoi(text)
	if convErr != nil {
		return types.DocumentEntry{}, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, text)
	}
	if n == 0 {
		return types.DocumentEntry{}, ErrCancelled
	}
	entry, ok := c.Entry(n)
	if !ok {
		return types.DocumentEntry{}, fmt.Errorf("%w: %d is outside 1-%d", ErrInvalidSelection, n, c.Len())
	}
	return entry, nil
}
