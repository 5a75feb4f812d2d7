package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TrevorS/spatial"
	"go.uber.org/multierr"
)

// readPoints parses one point per CSV row. Blank lines and lines starting
// with '#' are skipped. Every row must have exactly dims fields. All
// malformed rows are reported together.
func readPoints(r io.Reader, dims int) ([]spatial.Point, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		pts  []spatial.Point
		errs error
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, multierr.Append(errs, err)
			}
			errs = multierr.Append(errs, err)
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(rec) != dims {
			errs = multierr.Append(errs, fmt.Errorf("line %d: got %d fields, want %d", line, len(rec), dims))
			continue
		}
		p, err := parseCoords(rec)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		pts = append(pts, p)
	}
	return pts, errs
}

// parseAnchor parses a command-line point such as "9,2".
func parseAnchor(s string, dims int) (spatial.Point, error) {
	p, err := parseCoords(strings.Split(s, ","))
	if err != nil {
		return nil, err
	}
	if len(p) != dims {
		return nil, fmt.Errorf("point %q has %d coordinates, index has %d", s, len(p), dims)
	}
	return p, nil
}

func parseCoords(fields []string) (spatial.Point, error) {
	p := make(spatial.Point, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
		p[i] = v
	}
	return p, nil
}

// loadIndex inserts pts into idx, collecting every rejected point.
func loadIndex(idx spatial.Index, pts []spatial.Point) error {
	var errs error
	for _, p := range pts {
		errs = multierr.Append(errs, idx.Insert(p))
	}
	return errs
}
