package embeddings

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ludo-technologies/annforest/domain"
)

// record is the on-disk shape of one embedding, shared by the JSON and
// JSONL encodings: {"id": 3, "vector": [0.1, 0.2, ...]}.
type record struct {
	ID     int64     `json:"id"`
	Vector []float32 `json:"vector"`
}

// LoadFile parses a single embedding shard file into id/vector pairs,
// dispatching on its extension:
//
//   - .jsonl: one JSON record per line
//   - .json: a JSON array of records
//   - .csv/.tsv: id,v1,v2,...,vN rows
//   - .vec: whitespace-separated "id v1 v2 ... vN" rows
//
// .npy is intentionally unsupported here; it requires a binary decoder
// this module does not carry (see DESIGN.md).
func LoadFile(path string) (map[domain.NodeID]domain.Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("opening embedding file: %s", path), err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		return loadJSONL(f, path)
	case ".json":
		return loadJSON(f, path)
	case ".csv":
		return loadDelimited(f, path, ',')
	case ".tsv":
		return loadDelimited(f, path, '\t')
	case ".vec":
		return loadWhitespace(f, path)
	default:
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unsupported embedding file extension: %s", path), nil)
	}
}

// LoadFiles merges every file's embeddings into one map, keyed by
// NodeID. A later file silently overwrites an earlier one's entry for
// the same id, mirroring how later trees in an ensemble can override
// earlier shards in a rebuild pipeline.
func LoadFiles(paths []string) (map[domain.NodeID]domain.Vector, error) {
	merged := make(map[domain.NodeID]domain.Vector)
	for _, p := range paths {
		vecs, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		for id, v := range vecs {
			merged[id] = v
		}
	}
	if len(merged) == 0 {
		return nil, domain.NewInvalidInputError("no embeddings found in the given files", nil)
	}
	return merged, nil
}

func loadJSONL(r io.Reader, path string) (map[domain.NodeID]domain.Vector, error) {
	out := make(map[domain.NodeID]domain.Vector)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("parsing jsonl embedding record in %s", path), err)
		}
		out[domain.NodeID(rec.ID)] = rec.Vector
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("reading embedding file: %s", path), err)
	}
	return out, nil
}

func loadJSON(r io.Reader, path string) (map[domain.NodeID]domain.Vector, error) {
	var recs []record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("parsing json embedding file: %s", path), err)
	}
	out := make(map[domain.NodeID]domain.Vector, len(recs))
	for _, rec := range recs {
		out[domain.NodeID(rec.ID)] = rec.Vector
	}
	return out, nil
}

func loadDelimited(r io.Reader, path string, delim rune) (map[domain.NodeID]domain.Vector, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("parsing delimited embedding file: %s", path), err)
	}

	out := make(map[domain.NodeID]domain.Vector, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		id, v, err := parseIDAndFields(row[0], row[1:])
		if err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("parsing row in %s", path), err)
		}
		out[id] = v
	}
	return out, nil
}

func loadWhitespace(r io.Reader, path string) (map[domain.NodeID]domain.Vector, error) {
	out := make(map[domain.NodeID]domain.Vector)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		id, v, err := parseIDAndFields(fields[0], fields[1:])
		if err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("parsing row in %s", path), err)
		}
		out[id] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("reading embedding file: %s", path), err)
	}
	return out, nil
}

func parseIDAndFields(idField string, valueFields []string) (domain.NodeID, domain.Vector, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(idField), 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid node id %q: %w", idField, err)
	}
	v := make(domain.Vector, len(valueFields))
	for i, field := range valueFields {
		f, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid vector component %q: %w", field, err)
		}
		v[i] = float32(f)
	}
	return domain.NodeID(id), v, nil
}

// MetricByName resolves one of the three built-in distance metrics by its
// configuration name. An unrecognized name is a config error, not a
// silent fallback.
func MetricByName(name string) (domain.DistanceMetric, error) {
	switch strings.ToLower(name) {
	case "euclidean", "":
		return Euclidean{}, nil
	case "dot":
		return Dot{}, nil
	case "cosine":
		return Cosine{}, nil
	default:
		return nil, domain.NewConfigError(fmt.Sprintf("unknown distance metric: %s", name), nil)
	}
}
