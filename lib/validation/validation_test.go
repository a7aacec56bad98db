package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAgeRange(t *testing.T) {
	tests := []struct {
		name    string
		min     int
		max     int
		wantErr bool
	}{
		{name: "full range", min: 18, max: 59},
		{name: "single age", min: 20, max: 20},
		{name: "reversed", min: 30, max: 20, wantErr: true},
		{name: "negative", min: -1, max: 20, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAgeRange(tt.min, tt.max)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSelectionRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "empty object", body: `{}`},
		{name: "full selection", body: `{"genders":["Male"],"age_min":18,"age_max":30,"depression":"with","city":"Pune"}`},
		{name: "no genders", body: `{"genders":[]}`},
		{name: "unknown depression", body: `{"depression":"sometimes"}`, wantErr: true},
		{name: "string age", body: `{"age_min":"18"}`, wantErr: true},
		{name: "unknown field", body: `{"region":"north"}`, wantErr: true},
		{name: "duplicate gender", body: `{"genders":["Male","Male"]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSelectionRequest([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("bad city"), http.StatusBadRequest)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"bad city"}`, rec.Body.String())
}

func TestDecodeSelectionRequest(t *testing.T) {
	type selection struct {
		Genders *[]string `json:"genders"`
		AgeMin  *int      `json:"age_min"`
		City    string    `json:"city"`
	}

	got, err := DecodeSelectionRequest[selection]([]byte(`{"genders":[],"age_min":21,"city":"Pune"}`))
	require.NoError(t, err)
	require.NotNil(t, got.Genders)
	assert.Empty(t, *got.Genders)
	require.NotNil(t, got.AgeMin)
	assert.Equal(t, 21, *got.AgeMin)
	assert.Equal(t, "Pune", got.City)

	_, err = DecodeSelectionRequest[selection]([]byte(`{"age_min":-4}`))
	assert.Error(t, err)
}
