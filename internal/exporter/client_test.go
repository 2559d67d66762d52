package exporter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemacanvas/internal/models"
)

func TestExport(t *testing.T) {
	var got exportRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/export", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(exportResponse{SQL: "CREATE TABLE users ();", Format: got.Format})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	data := models.SchemaData{Tables: []models.Table{{Name: "users", Columns: []models.Column{}}}}

	sql, err := client.Export(context.Background(), data, FormatPostgres)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE users ();", sql)
	assert.Equal(t, FormatPostgres, got.Format)
	assert.Equal(t, "users", got.Data.Tables[0].Name)
}

func TestExportUnsupportedFormat(t *testing.T) {
	client := NewClient("http://localhost:0")
	_, err := client.Export(context.Background(), models.SchemaData{}, "sqlite")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Export(context.Background(), models.SchemaData{}, FormatMySQL)
	assert.ErrorContains(t, err, "500")
}

func TestExportServiceUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.Export(context.Background(), models.SchemaData{}, FormatPostgres)
	assert.ErrorContains(t, err, "unreachable")
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "sql", FileExtension(FormatPostgres))
	assert.Equal(t, "sql", FileExtension(FormatMySQL))
	assert.Equal(t, "js", FileExtension(FormatMongo))
}

func TestSupportedFormat(t *testing.T) {
	assert.True(t, SupportedFormat(FormatPostgres))
	assert.True(t, SupportedFormat(FormatMySQL))
	assert.True(t, SupportedFormat(FormatMongo))
	assert.False(t, SupportedFormat("sqlite"))
	assert.False(t, SupportedFormat(""))
}
