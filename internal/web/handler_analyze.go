package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// maxBodySize bounds request bodies; a base64 data URI is about 4/3 of the
// photo it carries.
const maxBodySize = 64 * 1024 * 1024

var (
	errFieldMissing = errors.New("field missing")
	errFieldType    = errors.New("field is not a string")
)

type analyzeRequest struct {
	Image any `json:"image"`
}

type searchRequest struct {
	FoodName any `json:"foodName"`
}

// imageField validates the image value: absent or falsy is missing, any
// other non-string is a type error.
func imageField(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", errFieldMissing
	case string:
		if x == "" {
			return "", errFieldMissing
		}
		return x, nil
	case bool:
		if !x {
			return "", errFieldMissing
		}
	case float64:
		if x == 0 {
			return "", errFieldMissing
		}
	}
	return "", errFieldType
}

// foodNameField validates the food name; blank names count as missing.
func foodNameField(v any) (string, error) {
	name, ok := v.(string)
	if !ok {
		if v == nil {
			return "", errFieldMissing
		}
		return "", errFieldType
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errFieldMissing
	}
	return name, nil
}

func (s *Server) handleAnalyzeFood(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		s.logger.Error("decode analyze request failed", "error", err)
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to analyze food")
		return
	}

	image, err := imageField(req.Image)
	if errors.Is(err, errFieldMissing) {
		s.writeJSONError(w, http.StatusBadRequest, "No image provided")
		return
	}
	if err != nil {
		s.logger.Error("invalid analyze request", "error", err)
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to analyze food")
		return
	}

	// The analysis runs to completion even if the client goes away.
	result := s.analyzer.AnalyzeImage(context.WithoutCancel(r.Context()), image)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearchFood(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		s.logger.Error("decode search request failed", "error", err)
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to search food")
		return
	}

	name, err := foodNameField(req.FoodName)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "No food name provided")
		return
	}

	result := s.analyzer.SearchFood(context.WithoutCancel(r.Context()), name)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write json response failed", "error", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
