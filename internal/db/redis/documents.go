package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/studiodex/internal/db"
)

// idField holds the document ID inside each hash so searches can return it.
const idField = "_id"

// maxWriteAttempts bounds the rewrites when a rebuild moves the alias during a write.
const maxWriteAttempts = 3

// IndexDocuments stores documents as hashes in a single DoMulti round-trip.
func (s *Store) IndexDocuments(ctx context.Context, index string, docs []db.Document) (int, error) {
	return s.writeDocuments(ctx, index, docs, false)
}

// UpdateDocuments rewrites documents: each hash is deleted and set again so
// fields that became empty do not linger.
func (s *Store) UpdateDocuments(ctx context.Context, index string, docs []db.Document) (int, error) {
	return s.writeDocuments(ctx, index, docs, true)
}

func (s *Store) writeDocuments(ctx context.Context, index string, docs []db.Document, replace bool) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	gen, err := s.resolve(ctx, index)
	if err != nil {
		return 0, err
	}

	for attempt := 1; ; attempt++ {
		written, err := s.writeGeneration(ctx, gen, docs, replace)
		if err != nil || gen == index {
			return written, err
		}

		// A rebuild may have promoted and dropped gen while the write was in
		// flight. Hashes under a dropped prefix belong to no index.
		current, err := s.resolve(ctx, index)
		if err != nil {
			return written, err
		}
		if current == gen {
			return written, nil
		}
		if err := s.deleteDocuments(ctx, gen, docs); err != nil {
			return 0, err
		}
		if attempt == maxWriteAttempts {
			return 0, &db.Error{Op: db.OpHSet, Err: fmt.Errorf("alias %s moved during %d writes", index, attempt)}
		}
		gen = current
	}
}

// deleteDocuments removes the document hashes of one generation.
func (s *Store) deleteDocuments(ctx context.Context, gen string, docs []db.Document) error {
	prefix := s.docPrefix(gen)
	keys := make([]string, len(docs))
	for i := range docs {
		keys[i] = prefix + docs[i].ID
	}
	if err := s.do(ctx, s.b().Del().Key(keys...).Build()).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: fmt.Errorf("stale documents in %s: %w", gen, err)}
	}
	return nil
}

func (s *Store) writeGeneration(ctx context.Context, gen string, docs []db.Document, replace bool) (int, error) {
	prefix := s.docPrefix(gen)

	perDoc := 1
	if replace {
		perDoc = 2
	}
	cmds := make([]rueidis.Completed, 0, len(docs)*perDoc)
	for i := range docs {
		if docs[i].ID == "" {
			return 0, fmt.Errorf("document %d: ID is required", i)
		}
		key := prefix + docs[i].ID
		if replace {
			cmds = append(cmds, s.b().Del().Key(key).Build())
		}
		cmd := s.b().Hset().Key(key).FieldValue().FieldValue(idField, docs[i].ID)
		for name, v := range docs[i].Fields {
			if enc, ok := encodeValue(v); ok {
				cmd = cmd.FieldValue(name, enc)
			}
		}
		cmds = append(cmds, cmd.Build())
	}

	written := 0
	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			doc := docs[i/perDoc]
			op := db.OpHSet
			if replace && i%perDoc == 0 {
				op = db.OpDel
			}
			return written, &db.Error{Op: op, Err: fmt.Errorf("document %s: %w", doc.ID, err)}
		}
		if i%perDoc == perDoc-1 {
			written++
		}
	}
	return written, nil
}

// encodeValue renders a field value as a hash string. Nil values are skipped.
// Booleans become "true"/"false" tags; lists are joined with the tag separator.
func encodeValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case *int64:
		if x == nil {
			return "", false
		}
		return strconv.FormatInt(*x, 10), true
	case []string:
		return strings.Join(x, db.DefaultTagSeparator), true
	default:
		return fmt.Sprint(x), true
	}
}
