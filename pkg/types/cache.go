// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Extraction methods recorded in cache metadata. Pro entries come from the
// layered pattern+AI pipeline; standard entries are the older single-pass
// format, which is read but never written.
const (
	MethodPro      = "pro_strategy"
	MethodStandard = "standard"
)

// ExtractionStats summarizes the quality of one record.
type ExtractionStats struct {
	TotalFields    int        `json:"total_fields" yaml:"total_fields"`
	FilledFields   int        `json:"filled_fields" yaml:"filled_fields"`
	FillRatio      float64    `json:"fill_ratio" yaml:"fill_ratio"`
	Confidence     float64    `json:"confidence" yaml:"confidence"`
	QualityScore   float64    `json:"quality_score" yaml:"quality_score"`
	ProcessingTime float64    `json:"processing_time" yaml:"processing_time"`
	Discipline     Discipline `json:"discipline" yaml:"discipline"`
}

// CacheMetadata describes how and when a cached record was produced.
type CacheMetadata struct {
	DocumentKey      string          `json:"document_key" yaml:"document_key"`
	ExtractionTime   time.Time       `json:"extraction_time" yaml:"extraction_time"`
	Method           string          `json:"method" yaml:"method"`
	ExtractorVersion string          `json:"extractor_version" yaml:"extractor_version"`
	SessionID        string          `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Warnings         []string        `json:"warnings" yaml:"warnings"`
	Stats            ExtractionStats `json:"stats" yaml:"stats"`
}

// CacheEntry is the persisted form of one extraction run.
type CacheEntry struct {
	Metadata   CacheMetadata `json:"metadata" yaml:"metadata"`
	Record     Record        `json:"extracted_info" yaml:"extracted_info"`
	FieldFlags FieldFlags    `json:"field_flags,omitempty" yaml:"field_flags,omitempty"`
}
