package ingest

import (
	"fmt"
	"os"

	"github.com/ccollicutt/chatlens/pkg/decode"
)

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("chat export not found: %s", path)
		}
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory with no %s exports", path, decode.ExportExt)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided export path is expected
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
