// internal/app/system/metrics/metrics.go
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Corpus counters. Every document read/write and every directory scan
// goes through these, so operators can watch how hard the full-corpus
// lookups hammer the filesystem as the account count grows.
var (
	DocumentReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workify_document_reads_total",
			Help: "Document loads from the corpus, by outcome.",
		},
		[]string{"outcome"}, // ok | missing | error
	)

	DocumentWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workify_document_writes_total",
			Help: "Document saves to the corpus, by outcome.",
		},
		[]string{"outcome"}, // ok | error
	)

	DirectoryScans = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workify_directory_scans_total",
			Help: "Full-corpus directory scans, by lookup key.",
		},
		[]string{"lookup"}, // token | username
	)

	ScannedDocuments = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "workify_directory_scanned_documents_total",
			Help: "User documents decoded during directory scans.",
		},
	)

	SkippedDocuments = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "workify_directory_skipped_documents_total",
			Help: "Unreadable or malformed user documents skipped during scans.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		DocumentReads,
		DocumentWrites,
		DirectoryScans,
		ScannedDocuments,
		SkippedDocuments,
	)
}
