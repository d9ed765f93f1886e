package data

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Record is a single key=value line of a definition file.
// NewSection is set on the first record that follows a [section] header.
type Record struct {
	File       string
	Line       int
	Section    string
	NewSection bool
	Key        string
	Val        string
}

// RecordSource streams records in file order.
type RecordSource interface {
	Next() (Record, bool)
}

// SliceSource replays a fixed slice of records.
type SliceSource struct {
	records []Record
	pos     int
}

// NewSliceSource creates a RecordSource over records.
func NewSliceSource(records []Record) *SliceSource {
	return &SliceSource{records: records}
}

// Next returns the next record, false when exhausted.
func (s *SliceSource) Next() (Record, bool) {
	if s == nil || s.pos >= len(s.records) {
		return Record{}, false
	}
	r := s.records[s.pos]
	s.pos++
	return r, true
}

// ParseRecords reads the definition text format:
//
//	# comment
//	[section]
//	key=value
//
// Blank lines and comments are skipped. Lines without '=' are ignored.
func ParseRecords(name string, r io.Reader) ([]Record, error) {
	var (
		records    []Record
		section    string
		newSection bool
		lineNo     int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			newSection = true
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		records = append(records, Record{
			File:       name,
			Line:       lineNo,
			Section:    section,
			NewSection: newSection,
			Key:        strings.TrimSpace(key),
			Val:        strings.TrimSpace(val),
		})
		newSection = false
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", name, err)
	}
	return records, nil
}

// ReadFile parses a single definition file.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ParseRecords(path, f)
}

// ReadFiles parses several definition files concurrently.
// Result order matches paths.
func ReadFiles(ctx context.Context, paths ...string) ([][]Record, error) {
	out := make([][]Record, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := ReadFile(path)
			if err != nil {
				return err
			}
			out[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
