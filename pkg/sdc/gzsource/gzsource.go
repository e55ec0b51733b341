// Package gzsource lets a [github.com/sdc-go/sdc/pkg/sdc/fileloader.Loader]
// transparently read gzip-compressed calibration documents by decorating
// the opened reader before it reaches the grammar engine.
package gzsource

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Decorate wraps r in a gzip reader. Assign it to
// [github.com/sdc-go/sdc/pkg/sdc/fileloader.Loader.Decorate] to make that
// loader transparently inflate ".csv.gz"-style documents.
func Decorate(r io.Reader) (io.Reader, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("gzsource: %w", err)
	}

	return gz, nil
}
