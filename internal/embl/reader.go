package embl

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/feattab/feattab/internal/feature"
)

// ParseError reports a reader-level failure with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feature table parse error at line %d: %s", e.Line, e.Message)
}

// Reader pulls features one at a time from an EMBL or GenBank style feature
// table. Continuation lines are re-joined before parsing: location
// continuations concatenate directly, qualifier continuations join with a
// single space (so wrapped quoted values keep one space at each fold).
//
// The format has no end-of-feature marker other than the start of the next
// feature or section, so the reader over-reads one line and pushes it back.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	pushback   []string
	logger     *zap.Logger
	dropped    int
}

// NewReader creates a reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		reader: bufio.NewReader(r),
		logger: zap.NewNop(),
	}
}

// Open creates a reader for the given file. Plain and gzipped tables are
// both accepted; "-" reads stdin.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feature table: %w", err)
	}

	p := &Reader{file: file, logger: zap.NewNop()}

	// Check for gzip magic bytes, then rewind.
	buf := make([]byte, 2)
	if _, err := file.Read(buf); err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read feature table: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek feature table: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// SetLogger sets the logger used for dropped-feature diagnostics.
func (p *Reader) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Dropped returns how many features were discarded for malformed locations.
func (p *Reader) Dropped() int {
	return p.dropped
}

// LineNumber returns the current line number.
func (p *Reader) LineNumber() int {
	return p.lineNumber
}

// Close closes the reader and any underlying file.
func (p *Reader) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// readLine returns the next logical line, preferring pushed-back lines.
func (p *Reader) readLine() (string, bool, error) {
	if n := len(p.pushback); n > 0 {
		line := p.pushback[n-1]
		p.pushback = p.pushback[:n-1]
		return line, true, nil
	}
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if line == "" {
				return "", false, nil
			}
			p.lineNumber++
			return strings.TrimRight(line, "\r\n"), true, nil
		}
		return "", false, fmt.Errorf("read feature table line: %w", err)
	}
	p.lineNumber++
	return strings.TrimRight(line, "\r\n"), true, nil
}

// unreadLine pushes an over-read line back for the next call.
func (p *Reader) unreadLine(line string) {
	p.pushback = append(p.pushback, line)
}

// stripTablePrefix removes the EMBL "FT" line code. GenBank tables have no
// line code, only indentation.
func stripTablePrefix(line string) (content string, hasCode bool) {
	if strings.HasPrefix(line, "FT") {
		return line[2:], true
	}
	return line, false
}

// locationStart reports whether text can open a location field.
func locationStart(text string) bool {
	if text == "" {
		return false
	}
	switch text[0] {
	case '<', '>', '(', 'j', 'o', 'c':
		return true
	}
	return text[0] >= '0' && text[0] <= '9'
}

// isFeatureLine reports whether a (prefix-stripped, trimmed) line opens a
// new feature: a key token followed by the start of a location.
func isFeatureLine(trimmed string) bool {
	if strings.HasPrefix(trimmed, "/") {
		return false
	}
	fields := strings.Fields(trimmed)
	return len(fields) == 2 && locationStart(fields[1])
}

// Next returns the next feature, or nil, nil at the end of the table. A
// feature whose location cannot be parsed is logged and skipped; reading
// continues with the next feature.
func (p *Reader) Next() (*feature.Feature, error) {
	for {
		line, ok, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}

		content, hasCode := stripTablePrefix(line)
		trimmed := strings.TrimSpace(content)
		if trimmed == "" {
			continue
		}

		// A non-indented line without the FT code is another section
		// (ORIGIN, SQ, ...): the table is over. Headers around the table
		// are skipped.
		if !hasCode && !strings.HasPrefix(content, " ") && !strings.HasPrefix(content, "\t") {
			first := strings.Fields(content)[0]
			if first == "FEATURES" || first == "FH" || first == "XX" {
				continue
			}
			p.unreadLine(line)
			return nil, nil
		}

		if isFeatureLine(trimmed) {
			fields := strings.Fields(trimmed)
			f, err := p.readFeature(fields[0], fields[1])
			if err != nil {
				return nil, err
			}
			if f == nil {
				// Malformed feature, logged and counted; keep reading.
				continue
			}
			return f, nil
		}
		// Continuation text outside any feature: ignore.
	}
}

// readFeature consumes the continuation and qualifier lines of one feature
// whose key line has been read, then parses the assembled location and
// qualifier block. A malformed feature is logged, counted, and reported as
// nil, nil so the caller can skip it without recursing.
func (p *Reader) readFeature(key, locStart string) (*feature.Feature, error) {
	loc := locStart
	var qual strings.Builder
	quoteOpen := false
	inQualifiers := false
	startLine := p.lineNumber

	for {
		line, ok, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		content, hasCode := stripTablePrefix(line)
		trimmed := strings.TrimSpace(content)

		if !quoteOpen {
			if !hasCode && trimmed != "" && !strings.HasPrefix(content, " ") && !strings.HasPrefix(content, "\t") {
				p.unreadLine(line)
				break
			}
			if isFeatureLine(trimmed) {
				p.unreadLine(line)
				break
			}
		}
		if trimmed == "" {
			continue
		}

		if !inQualifiers && !quoteOpen && strings.HasPrefix(trimmed, "/") {
			inQualifiers = true
		}

		if !inQualifiers {
			// Wrapped location text: concatenate with no separator.
			loc += trimmed
			continue
		}

		if qual.Len() > 0 {
			qual.WriteString(" ")
		}
		qual.WriteString(trimmed)
		if strings.Count(trimmed, `"`)%2 == 1 {
			quoteOpen = !quoteOpen
		}
	}

	if quoteOpen {
		return nil, &ParseError{Line: p.lineNumber, Message: "unterminated quoted qualifier value"}
	}

	ranges, err := ParseLocation(loc)
	if err != nil {
		p.logger.Warn("dropping feature with malformed location",
			zap.String("key", key),
			zap.String("location", loc),
			zap.Int("line", startLine),
			zap.Error(err))
		p.dropped++
		return nil, nil
	}

	f, err := feature.New(feature.Config{Key: key, Ranges: ranges})
	if err != nil {
		p.logger.Warn("dropping invalid feature",
			zap.String("key", key),
			zap.Int("line", startLine),
			zap.Error(err))
		p.dropped++
		return nil, nil
	}

	for _, q := range ParseQualifiers(qual.String()) {
		if q.Bare {
			f.AddQualifier(q.Name)
		} else {
			f.AddQualifier(q.Name, q.Value)
		}
	}
	return f, nil
}

// ReadAll drains the reader, returning every well-formed feature.
func ReadAll(p *Reader) ([]*feature.Feature, error) {
	var features []*feature.Feature
	for {
		f, err := p.Next()
		if err != nil {
			return features, err
		}
		if f == nil {
			return features, nil
		}
		features = append(features, f)
	}
}
