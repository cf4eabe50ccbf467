package audit

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// FileSink appends transitions to a file, one protojson object per line
type FileSink struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *bufio.Writer
	logger zerolog.Logger
	closed bool
}

// OpenFile opens path for appending, creating it when missing
func OpenFile(path string, logger zerolog.Logger) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit file: %w", err)
	}
	return &FileSink{
		path:   path,
		file:   f,
		writer: bufio.NewWriter(f),
		logger: logger.With().Str("component", "audit_file").Str("path", path).Logger(),
	}, nil
}

// Write appends the records and flushes
func (s *FileSink) Write(_ context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	for _, r := range records {
		msg, err := structpb.NewStruct(recordFields(r))
		if err != nil {
			return fmt.Errorf("encode transition %s: %w", r.CommandID, err)
		}
		line, err := protojson.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal transition %s: %w", r.CommandID, err)
		}
		if _, err := s.writer.Write(line); err != nil {
			return err
		}
		if err := s.writer.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := s.writer.Flush(); err != nil {
		return err
	}
	s.logger.Debug().Int("records", len(records)).Msg("Transitions appended")
	return nil
}

// History scans the file for matching records
func (s *FileSink) History(_ context.Context, matchID, country, commandID string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	var out []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		var msg structpb.Struct
		if err := protojson.Unmarshal(scanner.Bytes(), &msg); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		r := recordFromFields(msg.GetFields())
		if r.MatchID != matchID {
			continue
		}
		if country != "" && r.Country != country {
			continue
		}
		if commandID != "" && r.CommandID != commandID {
			continue
		}
		out = append(out, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan audit file: %w", err)
	}
	return out, nil
}

// Close flushes and closes the file
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.writer.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func recordFields(r Record) map[string]any {
	return map[string]any{
		"match_id":    r.MatchID,
		"country":     r.Country,
		"command_id":  r.CommandID,
		"kind":        r.Kind,
		"turn":        r.Turn,
		"from":        r.From,
		"to":          r.To,
		"elapsed":     r.Elapsed,
		"estimated":   r.Estimated,
		"reason":      r.Reason,
		"recorded_at": r.RecordedAt.UTC().Format(time.RFC3339Nano),
	}
}

// structpb numbers decode as float64
func recordFromFields(f map[string]*structpb.Value) Record {
	str := func(k string) string { return f[k].GetStringValue() }
	num := func(k string) int { return int(f[k].GetNumberValue()) }

	at, _ := time.Parse(time.RFC3339Nano, str("recorded_at"))
	return Record{
		MatchID:    str("match_id"),
		Country:    str("country"),
		CommandID:  str("command_id"),
		Kind:       str("kind"),
		Turn:       num("turn"),
		From:       str("from"),
		To:         str("to"),
		Elapsed:    num("elapsed"),
		Estimated:  num("estimated"),
		Reason:     str("reason"),
		RecordedAt: at,
	}
}
