// Package envfile loads a local .env file into the process environment.
package envfile

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Load reads key=value pairs from path into the environment without
// overwriting variables that are already set. Lines starting with # are
// ignored and surrounding quotes are stripped from values. A missing file is
// not an error.
func Load(path string) error {
	f, err := os.Open(filepath.Clean(path))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.Trim(strings.TrimSpace(line[eq+1:]), `"'`)
			if _, exists := os.LookupEnv(key); !exists {
				if err := os.Setenv(key, val); err != nil {
					return err
				}
			}
		}
	}
	return scanner.Err()
}
