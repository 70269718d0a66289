package xos

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CopyOption configures CopyFile.
type CopyOption func(*copyOptions)

type copyOptions struct {
	progress    io.Writer
	description string
}

// WithProgress renders a byte progress bar for the copy on w.
func WithProgress(w io.Writer, description string) CopyOption {
	return func(o *copyOptions) {
		o.progress = w
		o.description = description
	}
}

// CopyFile copies src to dst atomically and carries over the permission
// bits and modification time of src. It returns the number of bytes copied.
// src must be a regular file.
func CopyFile(src, dst string, opts ...CopyOption) (int64, error) {
	var o copyOptions
	for _, opt := range opts {
		opt(&o)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s is not a regular file", src)
	}

	counter := &countingReader{r: in}
	var r io.Reader = counter
	if o.progress != nil {
		bar := newBar(o.progress, o.description, info.Size())
		r = io.TeeReader(counter, bar)
		defer bar.Finish()
	}

	if err := WriteReader(dst, r, info.Mode().Perm()); err != nil {
		return counter.n, err
	}

	mtime := info.ModTime()
	if err := os.Chtimes(dst, mtime, mtime); err != nil {
		return counter.n, err
	}

	return counter.n, nil
}

// CreateDir creates a directory and all necessary parents.
// An already existing directory is not an error.
func CreateDir(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func newBar(w io.Writer, description string, size int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
