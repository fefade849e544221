// Package sink writes batch output as csv.
package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"xwordclues/internal/records"
)

// Sink receives the records of each processed item.
type Sink interface {
	Append(recs []records.Record) error
	Close() error
}

// CSV writes records to a csv file with the records.Columns header, every
// Append is flushed to disk before it returns.
type CSV struct {
	path   string
	file   *os.File
	writer *csv.Writer
}

func openFile(path string, flag int) (*os.File, error) {
	err := os.MkdirAll(filepath.Dir(path), 0777)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(path, flag, 0666)
}

// Create truncates (or creates) path and writes the header.
func Create(path string) (*CSV, error) {
	f, err := openFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	s := &CSV{path: path, file: f, writer: csv.NewWriter(f)}
	err = s.writeRows([][]string{records.Columns})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create output: %w", err)
	}
	return s, nil
}

// Resume opens path for appending without touching existing rows, a
// missing or empty file gets a header first.
func Resume(path string) (*CSV, error) {
	f, err := openFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY)
	if err != nil {
		return nil, fmt.Errorf("resume output: %w", err)
	}
	s := &CSV{path: path, file: f, writer: csv.NewWriter(f)}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("resume output: %w", err)
	}
	if info.Size() == 0 {
		err = s.writeRows([][]string{records.Columns})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("resume output: %w", err)
		}
	}
	return s, nil
}

func (s *CSV) Path() string {
	return s.path
}

func (s *CSV) writeRows(rows [][]string) error {
	for _, row := range rows {
		err := s.writer.Write(row)
		if err != nil {
			return err
		}
	}
	s.writer.Flush()
	err := s.writer.Error()
	if err != nil {
		return err
	}
	return s.file.Sync()
}

func (s *CSV) Append(recs []records.Record) error {
	if len(recs) == 0 {
		return nil
	}
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = r.Row()
	}
	err := s.writeRows(rows)
	if err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	return nil
}

func (s *CSV) Close() error {
	s.writer.Flush()
	return errors.Join(s.writer.Error(), s.file.Close())
}

// Buffer holds records in memory until Flush writes them all to a fresh
// file, it backs modes that are not resumable.
type Buffer struct {
	path string
	recs []records.Record
}

func NewBuffer(path string) *Buffer {
	return &Buffer{path: path}
}

func (b *Buffer) Append(recs []records.Record) error {
	b.recs = append(b.recs, recs...)
	return nil
}

func (b *Buffer) Len() int {
	return len(b.recs)
}

// Close writes the buffered records.
func (b *Buffer) Close() error {
	out, err := Create(b.path)
	if err != nil {
		return err
	}
	err = out.Append(b.recs)
	return errors.Join(err, out.Close())
}

// ReadRows reads every data row of an output file, a missing file has no
// rows.
func ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	var rows [][]string
	first := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("read %s: %w", path, err)
		}
		if first {
			first = false
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CountRecords returns the number of data rows in an output file.
func CountRecords(path string) (int, error) {
	rows, err := ReadRows(path)
	return len(rows), err
}
