package linkenc

import (
	"net/url"
	"regexp"
	"strings"

	"lpfcatalog/pkg/models"
)

// EmbedLinkField is the record member rewritten by this package.
const EmbedLinkField = "embed_link"

var reScheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

// parts is a URL split without decoding anything.
type parts struct {
	scheme, netloc, path, query, fragment string
	hasQuery, hasFragment                 bool
}

func split(raw string) parts {
	var p parts
	rest := raw

	if m := reScheme.FindString(rest); m != "" {
		p.scheme = m[:len(m)-1]
		rest = rest[len(m):]
	}
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		p.netloc = rest[:end]
		rest = rest[end:]
	}
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		p.fragment, p.hasFragment = rest[i+1:], true
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		p.query, p.hasQuery = rest[i+1:], true
		rest = rest[:i]
	}
	p.path = rest
	return p
}

func (p parts) join() string {
	var b strings.Builder
	if p.scheme != "" {
		b.WriteString(p.scheme)
		b.WriteByte(':')
	}
	if p.netloc != "" {
		b.WriteString("//")
		b.WriteString(p.netloc)
		if p.path != "" && !strings.HasPrefix(p.path, "/") {
			b.WriteByte('/')
		}
	}
	b.WriteString(p.path)
	if p.hasQuery && p.query != "" {
		b.WriteByte('?')
		b.WriteString(p.query)
	}
	if p.hasFragment && p.fragment != "" {
		b.WriteByte('#')
		b.WriteString(p.fragment)
	}
	return b.String()
}

// EscapeSegment percent-encodes every byte outside A-Z a-z 0-9 and -_.~,
// including '/' and '%'.
func EscapeSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// EncodePathOnly percent-encodes each path segment of raw and keeps the
// scheme, host, query and fragment as written. Existing escapes in the path
// are encoded again.
func EncodePathOnly(raw string) string {
	p := split(raw)
	segs := strings.Split(p.path, "/")
	for i, s := range segs {
		segs[i] = EscapeSegment(s)
	}
	p.path = strings.Join(segs, "/")
	return p.join()
}

// EncodeRecords rewrites the embed_link of every record that has one as a
// string and returns how many were changed.
func EncodeRecords(records []models.OrderedObject) (int, error) {
	n := 0
	for i := range records {
		link, ok := records[i].String(EmbedLinkField)
		if !ok {
			continue
		}
		enc := EncodePathOnly(link)
		if enc == link {
			continue
		}
		if err := records[i].SetString(EmbedLinkField, enc); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// AttachLinks sets the embed_link of record i to the trimmed lines[i]. It
// returns the number of links attached and the number of lines left over
// when there are more lines than records.
func AttachLinks(records []models.OrderedObject, lines []string) (attached, leftover int, err error) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if attached >= len(records) {
			leftover++
			continue
		}
		if err := records[attached].SetString(EmbedLinkField, line); err != nil {
			return attached, leftover, err
		}
		attached++
	}
	return attached, leftover, nil
}
