package api

import (
	"encoding/json/v2"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// maxBodyBytes caps request bodies; practice narratives are text, not
// attachments.
const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON decodes the request body into dst using json/v2.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.UnmarshalRead(r.Body, dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// parseYearMonth reads year and month query parameters, defaulting to
// the current UTC month.
func parseYearMonth(r *http.Request) (year, month int, err error) {
	now := time.Now().UTC()
	year, month = now.Year(), int(now.Month())

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err = strconv.Atoi(yearStr)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", yearStr)
		}
	}
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, err = strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			return 0, 0, fmt.Errorf("invalid month %q", monthStr)
		}
	}
	return year, month, nil
}

// parseYear reads the year query parameter, defaulting to the current
// UTC year.
func parseYear(r *http.Request) (int, error) {
	now := time.Now().UTC()
	year := now.Year()

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil {
			return 0, fmt.Errorf("invalid year %q", yearStr)
		}
		year = parsed
	}
	return year, nil
}
