package resolver

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadIDTranslations reads "identifier -> id[:data]" lines. Only the id is
// kept. Unparseable lines are logged and skipped.
func LoadIDTranslations(r io.Reader, log *slog.Logger) (map[string]int, error) {
	if log == nil {
		log = slog.Default()
	}
	out := map[string]int{}
	sc := bufio.NewScanner(r)
	for lineno := 1; sc.Scan(); lineno++ {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, num, ok := strings.Cut(line, "->")
		name, num = strings.TrimSpace(name), strings.TrimSpace(num)
		if n, _, found := strings.Cut(num, ":"); found {
			num = n
		}
		id, err := strconv.Atoi(num)
		if !ok || name == "" || err != nil || id < 0 {
			log.Warn("skipping id translation", "line", lineno, "text", line)
			continue
		}
		out[qualify(name)] = id
	}
	return out, errors.Wrap(sc.Err(), "reading id translations")
}
