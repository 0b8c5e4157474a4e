package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ludo-technologies/annforest/domain"
	"github.com/ludo-technologies/annforest/service"
)

// resolveQueryVector parses a query vector given either directly as
// comma/whitespace-separated floats or as a path to a file containing them.
func resolveQueryVector(queryStr, queryFile string) (domain.Vector, error) {
	var raw string
	switch {
	case queryStr != "":
		raw = queryStr
	case queryFile != "":
		reader := service.NewEmbeddingFileReader()
		data, err := reader.ReadFile(queryFile)
		if err != nil {
			return nil, fmt.Errorf("reading query file: %w", err)
		}
		raw = string(data)
	default:
		return nil, domain.NewInvalidInputError("either --query or --query-file is required", nil)
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, domain.NewInvalidInputError("query vector is empty", nil)
	}

	query := make(domain.Vector, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
		if err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid query component: %q", field), err)
		}
		query[i] = float32(v)
	}
	return query, nil
}
