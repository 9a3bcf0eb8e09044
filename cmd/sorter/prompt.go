package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// promptDir asks for the photo directory. An empty answer, or a closed input,
// falls back to def.
func promptDir(in io.Reader, out io.Writer, def string) (string, error) {
	fmt.Fprintf(out, "Enter the folder path of the photos (default: %s): ", def)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read folder path: %w", err)
	}

	dir := strings.TrimSpace(line)
	if dir == "" {
		return def, nil
	}
	return dir, nil
}

// checkDir fails unless dir exists and is a directory.
func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("folder %q does not exist", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a folder", dir)
	}
	return nil
}
