// Package matrix loads the archive's matrix relation file and answers
// whether two documents belong to the same matrix. Documents from the same
// matrix are variants of the same printing surface, so text overlap between
// them is expected and excluded from export.
package matrix

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMalformedRelationFile indicates the relation file exists but does not
// parse into the expected (desc_id, same_matrix_ids) shape.
var ErrMalformedRelationFile = errors.New("malformed matrix relation file")

// Index is a read-only view of the matrix relation file. The forward map
// keeps member lists exactly as given in the source data; the reverse map is
// built at load time so Excluded runs in constant expected time regardless
// of relation-file size.
type Index struct {
	members      map[string][]string
	keysByMember map[string]map[string]struct{}
}

// Load reads a relation CSV into an Index. The file carries a header row
// with desc_id and same_matrix_ids columns; same_matrix_ids is a
// comma-separated member list and rows with an empty list are skipped. The
// key document counts as a member of its own matrix, so reciprocal rows are
// not required for exclusion to be symmetric.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open relation file: %w", err)
	}
	defer f.Close()

	index, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return index, nil
}

func parse(r io.Reader) (*Index, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRelationFile, err)
	}

	keyCol, memberCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "desc_id":
			keyCol = i
		case "same_matrix_ids":
			memberCol = i
		}
	}
	if keyCol < 0 || memberCol < 0 {
		return nil, fmt.Errorf("%w: header must contain desc_id and same_matrix_ids columns", ErrMalformedRelationFile)
	}

	index := &Index{
		members:      make(map[string][]string),
		keysByMember: make(map[string]map[string]struct{}),
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRelationFile, err)
		}
		if keyCol >= len(record) || memberCol >= len(record) {
			return nil, fmt.Errorf("%w: row has %d fields", ErrMalformedRelationFile, len(record))
		}

		key := strings.TrimSpace(record[keyCol])
		cell := strings.TrimSpace(record[memberCol])
		if key == "" || cell == "" {
			continue
		}

		index.addMember(key, key)
		for _, member := range strings.Split(cell, ",") {
			member = strings.TrimSpace(member)
			if member == "" {
				continue
			}
			index.members[key] = append(index.members[key], member)
			index.addMember(key, member)
		}
	}
	return index, nil
}

func (ix *Index) addMember(key, member string) {
	keys, ok := ix.keysByMember[member]
	if !ok {
		keys = make(map[string]struct{})
		ix.keysByMember[member] = keys
	}
	keys[key] = struct{}{}
}

// Excluded reports whether the two desc_ids co-occur in any single matrix.
// The relation is symmetric by construction, and a desc_id present in any
// matrix is excluded against itself under the same rule.
func (ix *Index) Excluded(a, b string) bool {
	keysA := ix.keysByMember[a]
	keysB := ix.keysByMember[b]
	if len(keysA) == 0 || len(keysB) == 0 {
		return false
	}
	if len(keysB) < len(keysA) {
		keysA, keysB = keysB, keysA
	}
	for key := range keysA {
		if _, ok := keysB[key]; ok {
			return true
		}
	}
	return false
}

// Members returns the member list recorded for a matrix key, in source
// order with duplicates preserved. The key itself is not part of the list.
func (ix *Index) Members(key string) []string {
	return ix.members[key]
}

// Len returns the number of matrix keys in the index.
func (ix *Index) Len() int {
	return len(ix.members)
}
