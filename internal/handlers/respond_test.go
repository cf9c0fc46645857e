package handlers

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/config"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		err     error
		status  int
		message string
		code    string
	}{
		{"validation", config.EnvProduction, apperr.Validation("name: campo obbligatorio"), http.StatusBadRequest, "name: campo obbligatorio", "VALIDATION_ERROR"},
		{"wrapped not found", config.EnvProduction, fmt.Errorf("ctx: %w", apperr.NotFound("Task non trovato")), http.StatusNotFound, "Task non trovato", "NOT_FOUND"},
		{"internal in development", config.EnvDevelopment, errors.New("disk full"), http.StatusInternalServerError, "disk full", "INTERNAL_ERROR"},
		{"internal in production", config.EnvProduction, errors.New("disk full"), http.StatusInternalServerError, "Errore interno del server", "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &api{Logger: zap.NewNop().Sugar(), Config: &config.Config{AppEnv: tt.env}}
			rr := httptest.NewRecorder()
			a.writeError(rr, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var body errorBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestValidator_CustomTags(t *testing.T) {
	v := newValidator()
	type dto struct {
		Day  *string `json:"day" validate:"omitempty,day"`
		Expr *string `json:"expr" validate:"omitempty,dateexpr"`
		Time *string `json:"time" validate:"omitempty,hhmm"`
		Name string  `json:"name" validate:"required,notblank,max=5"`
	}
	s := func(v string) *string { return &v }

	assert.NoError(t, v.Struct(dto{Day: s("2024-02-29"), Expr: s("T0+3 mesi"), Time: s("7:45"), Name: "abc"}))
	assert.NoError(t, v.Struct(dto{Expr: s("2024-01-01"), Name: "àèìòù"}), "max считает символы")

	err := v.Struct(dto{Day: s("2023-02-29"), Expr: s("ieri"), Time: s("24:00"), Name: "  "})
	require.Error(t, err)
	msg := validationError(err).(*apperr.Error).Message
	assert.Contains(t, msg, "day: data non valida (YYYY-MM-DD)")
	assert.Contains(t, msg, "expr: usa YYYY-MM-DD")
	assert.Contains(t, msg, "time: orario non valido (HH:MM)")
	assert.Contains(t, msg, "name: non può essere vuoto")
}
