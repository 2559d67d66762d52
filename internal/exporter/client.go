package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"schemacanvas/internal/models"
)

// Formats accepted by the DDL generation service.
const (
	FormatPostgres = "postgres"
	FormatMySQL    = "mysql"
	FormatMongo    = "mongo"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Client talks to the external DDL generation service. The core never
// interprets the returned text beyond handing it to the caller for display
// or download.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type exportRequest struct {
	Data   models.SchemaData `json:"data"`
	Format string            `json:"format"`
}

type exportResponse struct {
	SQL    string `json:"sql"`
	Format string `json:"format"`
}

// SupportedFormat reports whether the format is one the service accepts.
func SupportedFormat(format string) bool {
	switch format {
	case FormatPostgres, FormatMySQL, FormatMongo:
		return true
	}
	return false
}

// FileExtension returns the download extension for a format.
func FileExtension(format string) string {
	if format == FormatMongo {
		return "js"
	}
	return "sql"
}

// Export translates a schema into DDL text for the given format.
func (c *Client) Export(ctx context.Context, data models.SchemaData, format string) (string, error) {
	if !SupportedFormat(format) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	body, err := json.Marshal(exportRequest{Data: data, Format: format})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/export", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("export service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("export service returned %d: %s", resp.StatusCode, raw)
	}

	var out exportResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("export service sent a malformed response: %w", err)
	}
	return out.SQL, nil
}
