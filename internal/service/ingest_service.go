package service

import (
	"sync"
	"time"

	"marksbot/internal/config"
	"marksbot/internal/extract"
	"marksbot/internal/schema"
	"marksbot/internal/store"
	"marksbot/internal/subject"

	"github.com/google/uuid"
	"github.com/phuslu/log"
)

// ImportSummary is the per-file outcome of an upload. Row-level problems
// are absorbed into the skipped count and warnings; they never surface
// individually to the student-facing side.
type ImportSummary struct {
	UploadID     string    `json:"upload_id"`
	FileName     string    `json:"file_name"`
	RowsImported int       `json:"rows_imported"`
	RowsSkipped  int       `json:"rows_skipped"`
	Warnings     []string  `json:"warnings,omitempty"`
	Status       string    `json:"status"` // "completed" or "failed"
	Error        string    `json:"error,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
}

type IngestService struct {
	store    *store.MarkStore
	resolver *subject.Resolver

	summaryLock sync.RWMutex
	summaries   map[string]*ImportSummary
}

func NewIngestService(st *store.MarkStore, resolver *subject.Resolver) *IngestService {
	return &IngestService{
		store:     st,
		resolver:  resolver,
		summaries: make(map[string]*ImportSummary),
	}
}

// IngestPDF runs the full upload pipeline for one file as a single
// synchronous unit of work: extract rows, normalize them, persist. The
// returned summary is also kept in the registry behind GetAllSummaries.
// Extraction failure and store failure are the only error returns;
// unparsable rows just raise the skipped count.
func (s *IngestService) IngestPDF(fileName string, data []byte) (*ImportSummary, error) {
	summary := &ImportSummary{
		UploadID:  uuid.NewString(),
		FileName:  fileName,
		Status:    "processing",
		StartTime: time.Now(),
	}
	s.putSummary(summary)

	res, err := extract.ReadTable(data)
	if err != nil {
		s.finishFailed(summary, err)
		return summary, err
	}

	cols := schema.MapColumns(res.Header)
	summary.Warnings = append(summary.Warnings, res.Warnings...)
	summary.RowsSkipped = res.Noise

	for _, row := range res.Rows {
		rec, ok := schema.NormalizeRow(row, cols, s.resolver, config.MarkMax, fileName)
		if !ok {
			summary.RowsSkipped++
			continue
		}
		if err := s.store.Upsert(rec); err != nil {
			s.finishFailed(summary, err)
			return summary, err
		}
		summary.RowsImported++
	}

	if summary.RowsImported == 0 {
		summary.Warnings = append(summary.Warnings,
			"parsed 0 valid rows; check that student_id, subject and mark values are filled")
	}

	summary.Status = "completed"
	summary.EndTime = time.Now()
	s.putSummary(summary)

	log.Info().Str("file", fileName).Str("upload_id", summary.UploadID).
		Int("imported", summary.RowsImported).Int("skipped", summary.RowsSkipped).
		Msg("pdf import complete")
	return summary, nil
}

func (s *IngestService) finishFailed(summary *ImportSummary, err error) {
	summary.Status = "failed"
	summary.Error = err.Error()
	summary.EndTime = time.Now()
	s.putSummary(summary)
	log.Error().Err(err).Str("file", summary.FileName).Msg("pdf import failed")
}

func (s *IngestService) putSummary(summary *ImportSummary) {
	s.summaryLock.Lock()
	defer s.summaryLock.Unlock()
	copied := *summary
	s.summaries[summary.FileName] = &copied
}

// GetFileSummary returns the latest import summary for a file, or nil.
func (s *IngestService) GetFileSummary(fileName string) *ImportSummary {
	s.summaryLock.RLock()
	defer s.summaryLock.RUnlock()
	if summary, exists := s.summaries[fileName]; exists {
		copied := *summary
		return &copied
	}
	return nil
}

// GetAllSummaries returns the import summary of every file seen this
// process lifetime.
func (s *IngestService) GetAllSummaries() []*ImportSummary {
	s.summaryLock.RLock()
	defer s.summaryLock.RUnlock()
	result := make([]*ImportSummary, 0, len(s.summaries))
	for _, summary := range s.summaries {
		copied := *summary
		result = append(result, &copied)
	}
	return result
}
