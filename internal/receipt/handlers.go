package receipt

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// handleCollectReceipts runs the pipeline against the mailbox and
// returns every record with a resolved total. Fatal pipeline errors
// surface as a server error; details go to the log only.
func (s *Server) handleCollectReceipts(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.CollectReceipts()
	if err != nil {
		slog.Error("Error collecting receipts", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeRecords(w, records)
}

// handleArchivedReceipts returns records archived by previous runs
// without touching the mailbox.
func (s *Server) handleArchivedReceipts(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ArchivedRecords()
	if err != nil {
		slog.Error("Error listing archived receipts", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeRecords(w, records)
}

// writeRecords encodes records as a JSON array, never null.
func writeRecords(w http.ResponseWriter, records []*Record) {
	if records == nil {
		records = []*Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}
