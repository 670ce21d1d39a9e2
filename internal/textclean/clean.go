package textclean

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const maxLine = 1 << 20

// CleanLine keeps the text before the first double quote, trimmed.
func CleanLine(line string) string {
	if i := strings.IndexByte(line, '"'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// CleanLines writes one cleaned line per input line. Lines that clean to
// nothing are kept as empty lines. It returns the number of lines written.
func CleanLines(r io.Reader, w io.Writer) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	bw := bufio.NewWriter(w)

	n := 0
	for sc.Scan() {
		if _, err := bw.WriteString(CleanLine(sc.Text()) + "\n"); err != nil {
			return n, fmt.Errorf("write line %d: %w", n+1, err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("read line %d: %w", n+1, err)
	}
	return n, bw.Flush()
}

// CleanFile runs CleanLines from inPath into outPath, overwriting it.
func CleanFile(inPath, outPath string) (int, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	n, err := CleanLines(in, out)
	if err != nil {
		_ = out.Close()
		return n, err
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("close output: %w", err)
	}
	return n, nil
}
