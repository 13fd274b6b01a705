// Package bqsource streams a word list out of a BigQuery table.
package bqsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"crosswarped.com/wordsolve/pkg/dictionary"
)

var (
	tablePattern  = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_$-]+){1,2}$`)
	columnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Params selects the words to read.
type Params struct {
	// Table is "dataset.table" or "project.dataset.table".
	Table string
	// Column holds one word per row.
	Column string
	// Scope, when set, keeps only rows whose scope column equals it.
	Scope string
	// Location is the job location, e.g. "US". Empty lets BigQuery decide.
	Location string
}

// Query builds the SQL and parameters that read the words p selects.
func Query(p Params) (string, []bigquery.QueryParameter, error) {
	if !tablePattern.MatchString(p.Table) {
		return "", nil, fmt.Errorf("invalid table name %q", p.Table)
	}
	if !columnPattern.MatchString(p.Column) {
		return "", nil, fmt.Errorf("invalid column name %q", p.Column)
	}

	query := fmt.Sprintf("SELECT %s FROM `%s`", p.Column, p.Table)
	if p.Scope == "" {
		return query, nil, nil
	}
	return query + " WHERE scope = @scope", []bigquery.QueryParameter{{Name: "scope", Value: p.Scope}}, nil
}

type rowIterator interface {
	Next(dst any) error
}

// Source is a dictionary.LineSource over the rows of a query result.
type Source struct {
	it   rowIterator
	rows int
}

var _ dictionary.LineSource = (*Source)(nil)

// New runs the query for p and waits for it to finish.
func New(ctx context.Context, client *bigquery.Client, p Params) (*Source, error) {
	sql, params, err := Query(p)
	if err != nil {
		return nil, err
	}

	q := client.Query(sql)
	q.Parameters = params
	if p.Location != "" {
		q.Location = p.Location
	}

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}

	return &Source{it: it}, nil
}

// Next returns the next word exactly as stored, so the loader applies the same
// lower case a-z rule it applies to files. NULL values come back empty.
func (s *Source) Next() (string, error) {
	var row []bigquery.Value
	err := s.it.Next(&row)
	if errors.Is(err, iterator.Done) {
		return "", io.EOF
	}
	if err != nil {
		return "", fmt.Errorf("it.Next: %w", err)
	}
	s.rows++

	if len(row) == 0 || row[0] == nil {
		return "", nil
	}
	word, ok := row[0].(string)
	if !ok {
		return "", fmt.Errorf("row %d: %v is not a string", s.rows, row[0])
	}
	return word, nil
}

// Rows returns the number of rows read so far.
func (s *Source) Rows() int {
	return s.rows
}
